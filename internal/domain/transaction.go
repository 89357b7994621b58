package domain

import (
	"time"
)

// TransactionType enumerates the kinds of ledger operations the settlement
// core posts.
type TransactionType string

const (
	TxTypeTableBuyIn       TransactionType = "TABLE_BUY_IN"
	TxTypeTableCashOut     TransactionType = "TABLE_CASH_OUT"
	TxTypeTimeoutCashOut   TransactionType = "TIMEOUT_CASH_OUT"
	TxTypeHandSettlement   TransactionType = "HAND_SETTLEMENT"
	TxTypeBotTopUp         TransactionType = "BOT_TOP_UP"
	TxTypeSystemAdjustment TransactionType = "SYSTEM_ADJUSTMENT"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TxTypeTableBuyIn, TxTypeTableCashOut, TxTypeTimeoutCashOut,
		TxTypeHandSettlement, TxTypeBotTopUp, TxTypeSystemAdjustment:
		return true
	}

	return false
}

// Transaction is the append-only header of one balanced ledger posting.
// Transactions are created exactly once and never revised.
type Transaction struct {
	ID             string
	Type           TransactionType
	IdempotencyKey string
	UserID         *string
	CreatedBy      string
	CreatedAt      time.Time
}

// EntryMetadata carries the settlement context of an entry. It is a typed
// value object, not a free-form map.
type EntryMetadata struct {
	TableID  string `json:"table_id,omitempty"`
	HandID   string `json:"hand_id,omitempty"`
	SeatNo   int    `json:"seat_no,omitempty"`
	PotIndex int    `json:"pot_index,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Entry represents a single signed balance movement within a transaction.
// Entry amounts of one transaction always sum to zero.
type Entry struct {
	ID            string
	TransactionID string
	AccountID     string
	Amount        int64
	Sequence      int64
	Metadata      *EntryMetadata
	CreatedAt     time.Time
}
