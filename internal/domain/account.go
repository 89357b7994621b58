package domain

import (
	"time"
)

// AccountKind identifies who an account belongs to. The set is closed:
// platform-owned system accounts, per-table escrow accounts, and per-user
// chip accounts.
type AccountKind string

const (
	AccountKindSystem AccountKind = "SYSTEM"
	AccountKindEscrow AccountKind = "ESCROW"
	AccountKindUser   AccountKind = "USER"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountKindSystem, AccountKindEscrow, AccountKindUser:
		return true
	}

	return false
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account represents a chip account that can hold a balance. Balances are
// integer minor units; fractional chips do not exist.
type Account struct {
	ID            string
	Kind          AccountKind
	Key           string // system key, escrow key, or user id
	Status        AccountStatus
	Balance       int64
	EntrySeq      int64
	AllowNegative bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateDelta checks whether applying delta keeps the account within its
// balance invariant. User and escrow accounts may never go negative; only
// designated treasury-style system accounts may.
func (a *Account) ValidateDelta(delta int64) error {
	if delta < 0 && !a.AllowNegative && a.Balance+delta < 0 {
		return ErrInsufficientFunds
	}

	return nil
}

// ApplyDelta returns the balance after applying delta.
func (a *Account) ApplyDelta(delta int64) int64 {
	return a.Balance + delta
}
