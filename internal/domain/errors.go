package domain

import "errors"

// Error texts double as the stable codes callers match on, so they must not
// change between releases.
var (
	// Validation errors, rejected before any mutation
	ErrInvalidState       = errors.New("invalid_state")
	ErrInvalidTableID     = errors.New("invalid_table_id")
	ErrInvalidBotUserID   = errors.New("invalid_bot_user_id")
	ErrInvalidActorUserID = errors.New("invalid_actor_user_id")

	// Invariant violations, rejected inside the atomic transaction
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrBalanceGuardFailed = errors.New("balance_guard_failed")

	// Lookup errors
	ErrAccountNotFound     = errors.New("account_not_found")
	ErrTransactionNotFound = errors.New("transaction_not_found")
)

// Code returns the stable error code for a domain error, or "internal" for
// anything else.
func Code(err error) string {
	for _, known := range []error{
		ErrInvalidState,
		ErrInvalidTableID,
		ErrInvalidBotUserID,
		ErrInvalidActorUserID,
		ErrInsufficientFunds,
		ErrBalanceGuardFailed,
		ErrAccountNotFound,
		ErrTransactionNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal"
}
