package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Static system account keys. Escrow keys are derived per table and are not
// part of this set.
const (
	SystemKeyTreasury = "system:treasury"
	SystemKeyRake     = "system:rake"
	SystemKeyPromo    = "system:promo"
)

const (
	escrowKeyPrefix = "poker:escrow:"
	userKeyPrefix   = "user:"
)

// knownSystemKeys is the closed set of platform account keys.
var knownSystemKeys = map[string]bool{
	SystemKeyTreasury: true,
	SystemKeyRake:     true,
	SystemKeyPromo:    true,
}

// treasuryKeys marks system accounts allowed to carry a negative balance.
var treasuryKeys = map[string]bool{
	SystemKeyTreasury: true,
}

// EscrowKey builds the account key of the pooled escrow account for a table.
func EscrowKey(tableID string) string {
	return escrowKeyPrefix + tableID
}

// UserKey builds the account key of a player's chip account.
func UserKey(userID string) string {
	return userKeyPrefix + userID
}

// IsSystemKey reports whether key names a static platform account.
func IsSystemKey(key string) bool {
	return knownSystemKeys[key]
}

// AllowsNegative reports whether the account behind a system key may go
// negative. Only the treasury does; it is the source of all chips.
func AllowsNegative(key string) bool {
	return treasuryKeys[key]
}

// ValidateSystemKey checks that key names a known static platform account.
func ValidateSystemKey(key string) error {
	if !knownSystemKeys[key] {
		return fmt.Errorf("%w: unknown system key %q", ErrInvalidState, key)
	}

	return nil
}

// ValidateEscrowKey checks that key is a well-formed escrow key with a valid
// table id.
func ValidateEscrowKey(key string) error {
	tableID, ok := strings.CutPrefix(key, escrowKeyPrefix)
	if !ok {
		return fmt.Errorf("%w: malformed escrow key %q", ErrInvalidTableID, key)
	}

	return ValidateTableID(tableID)
}

// ValidateTableID checks that id is a well-formed table identifier.
func ValidateTableID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTableID, id)
	}

	return nil
}

// ValidateActorUserID checks that id is a well-formed user identifier.
func ValidateActorUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidActorUserID, id)
	}

	return nil
}

// ValidateBotUserID checks that id is a well-formed bot user identifier.
func ValidateBotUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBotUserID, id)
	}

	return nil
}

// ValidateEntryAmounts checks the balanced-transaction invariant: a nonempty
// entry set of nonzero amounts summing to exactly zero.
func ValidateEntryAmounts(amounts []int64) error {
	if len(amounts) == 0 {
		return fmt.Errorf("%w: transaction has no entries", ErrInvalidState)
	}

	var sum int64
	for _, amount := range amounts {
		if amount == 0 {
			return fmt.Errorf("%w: zero entry amount", ErrInvalidState)
		}
		sum += amount
	}

	if sum != 0 {
		return fmt.Errorf("%w: entry amounts sum to %d, want 0", ErrInvalidState, sum)
	}

	return nil
}
