package domain

import (
	"testing"
)

func TestAccount_ValidateDelta(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		delta       int64
		allowNeg    bool
		expectError bool
	}{
		{
			name:        "treasury - debit past zero",
			balance:     100,
			allowNeg:    true,
			delta:       -150,
			expectError: false,
		},
		{
			name:        "user - debit past zero",
			balance:     100,
			allowNeg:    false,
			delta:       -150,
			expectError: true,
		},
		{
			name:        "user - debit exact balance",
			balance:     100,
			allowNeg:    false,
			delta:       -100,
			expectError: false,
		},
		{
			name:        "user - credit",
			balance:     0,
			allowNeg:    false,
			delta:       50,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{
				Balance:       tt.balance,
				AllowNegative: tt.allowNeg,
			}

			err := acc.ValidateDelta(tt.delta)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccountKind_Valid(t *testing.T) {
	for _, kind := range []AccountKind{AccountKindSystem, AccountKindEscrow, AccountKindUser} {
		if !kind.Valid() {
			t.Errorf("expected %s to be valid", kind)
		}
	}

	if AccountKind("TREASURY").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}
