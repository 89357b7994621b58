package dto

import (
	"time"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/poker"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Key           string    `json:"key"`
	Status        string    `json:"status"`
	Balance       int64     `json:"balance"`
	EntrySeq      int64     `json:"entry_seq"`
	AllowNegative bool      `json:"allow_negative"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	if a == nil {
		return nil
	}

	return &AccountResponse{
		ID:            a.ID,
		Kind:          string(a.Kind),
		Key:           a.Key,
		Status:        string(a.Status),
		Balance:       a.Balance,
		EntrySeq:      a.EntrySeq,
		AllowNegative: a.AllowNegative,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	IdempotencyKey string    `json:"idempotency_key"`
	UserID         *string   `json:"user_id,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             t.ID,
		Type:           string(t.Type),
		IdempotencyKey: t.IdempotencyKey,
		UserID:         t.UserID,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID            string                `json:"id"`
	TransactionID string                `json:"transaction_id"`
	AccountID     string                `json:"account_id"`
	Amount        int64                 `json:"amount"`
	Sequence      int64                 `json:"sequence"`
	Metadata      *domain.EntryMetadata `json:"metadata,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Amount:        e.Amount,
		Sequence:      e.Sequence,
		Metadata:      e.Metadata,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PostTransactionResponse represents the outcome of a posting.
type PostTransactionResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Entries     []*EntryResponse     `json:"entries"`
	Account     *AccountResponse     `json:"account,omitempty"`
	Replayed    bool                 `json:"replayed"`
}

// PostTransactionFromResult converts a use case result to a response.
func PostTransactionFromResult(r *usecase.PostTransactionResult) *PostTransactionResponse {
	return &PostTransactionResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Entries:     EntriesFromDomain(r.Entries),
		Account:     AccountFromDomain(r.Account),
		Replayed:    r.Replayed,
	}
}

// TransactionDetailResponse is a transaction with its entries.
type TransactionDetailResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Entries     []*EntryResponse     `json:"entries"`
}

// SidePotsResponse represents the side pots built from contributions.
type SidePotsResponse struct {
	Pots  []poker.SidePot `json:"pots"`
	Total int64           `json:"total"`
}

// SettleHandResponse represents the outcome of a hand settlement.
type SettleHandResponse struct {
	Pots            []poker.SidePot       `json:"pots"`
	Showdown        *poker.ShowdownResult `json:"showdown,omitempty"`
	PayoutsByUserID map[string]int64      `json:"payouts_by_user_id"`
	Rake            int64                 `json:"rake"`
	Transaction     *TransactionResponse  `json:"transaction"`
	Replayed        bool                  `json:"replayed"`
}

// SettleHandFromResult converts a use case result to a response.
func SettleHandFromResult(r *usecase.SettleHandResult) *SettleHandResponse {
	return &SettleHandResponse{
		Pots:            r.Pots,
		Showdown:        r.Showdown,
		PayoutsByUserID: r.PayoutsByUserID,
		Rake:            r.Rake,
		Transaction:     TransactionFromDomain(r.Transaction),
		Replayed:        r.Replayed,
	}
}

// CashOutSeatResponse represents the outcome of a seat cash-out, buy-in,
// or bot top-up posting.
type CashOutSeatResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Account     *AccountResponse     `json:"account,omitempty"`
	Replayed    bool                 `json:"replayed"`
}

// CashOutSeatFromResult converts a use case result to a response.
func CashOutSeatFromResult(r *usecase.CashOutSeatResult) *CashOutSeatResponse {
	return &CashOutSeatResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Account:     AccountFromDomain(r.Account),
		Replayed:    r.Replayed,
	}
}

// ConsistencyResponse represents a ledger-wide consistency probe.
type ConsistencyResponse struct {
	TotalBalance     int64 `json:"total_balance"`
	TotalEntryAmount int64 `json:"total_entry_amount"`
	Consistent       bool  `json:"consistent"`
}

// ErrorResponse represents an error in API responses. Code is the stable
// machine-readable error code; Message carries detail.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
