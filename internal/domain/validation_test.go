package domain

import (
	"errors"
	"testing"
)

const testTableID = "7f8a8f10-57d1-4a66-9d1e-0f6f09c2b51a"

func TestValidateEscrowKey(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		expectError bool
	}{
		{
			name:        "valid escrow key",
			key:         EscrowKey(testTableID),
			expectError: false,
		},
		{
			name:        "missing prefix",
			key:         "escrow:" + testTableID,
			expectError: true,
		},
		{
			name:        "malformed table id",
			key:         EscrowKey("table-1"),
			expectError: true,
		},
		{
			name:        "empty",
			key:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEscrowKey(tt.key)

			if tt.expectError {
				if !errors.Is(err, ErrInvalidTableID) {
					t.Errorf("expected ErrInvalidTableID, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateActorUserID(t *testing.T) {
	if err := ValidateActorUserID("3b61f3f1-41a4-4c5f-9f03-13a2a07cf175"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateActorUserID("not-a-uuid")
	if !errors.Is(err, ErrInvalidActorUserID) {
		t.Errorf("expected ErrInvalidActorUserID, got %v", err)
	}
}

func TestValidateEntryAmounts(t *testing.T) {
	tests := []struct {
		name    string
		amounts []int64
		wantErr bool
	}{
		{name: "balanced pair", amounts: []int64{-100, 100}},
		{name: "balanced multi", amounts: []int64{-150, 60, 60, 30}},
		{name: "empty", amounts: nil, wantErr: true},
		{name: "zero amount", amounts: []int64{0, 100, -100}, wantErr: true},
		{name: "unbalanced", amounts: []int64{-100, 99}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryAmounts(tt.amounts)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Errorf("expected ErrInvalidState, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSystemKeys(t *testing.T) {
	if !IsSystemKey(SystemKeyTreasury) {
		t.Error("treasury should be a system key")
	}

	if IsSystemKey(EscrowKey(testTableID)) {
		t.Error("escrow keys are not system keys")
	}

	if !AllowsNegative(SystemKeyTreasury) {
		t.Error("treasury must allow negative balance")
	}

	if AllowsNegative(SystemKeyRake) {
		t.Error("rake account must not allow negative balance")
	}
}

func TestCode(t *testing.T) {
	if got := Code(ErrInsufficientFunds); got != "insufficient_funds" {
		t.Errorf("expected insufficient_funds, got %s", got)
	}

	wrapped := errors.Join(errors.New("context"), ErrInvalidTableID)
	if got := Code(wrapped); got != "invalid_table_id" {
		t.Errorf("expected invalid_table_id, got %s", got)
	}

	if got := Code(errors.New("boom")); got != "internal" {
		t.Errorf("expected internal, got %s", got)
	}
}
