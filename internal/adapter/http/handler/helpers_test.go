package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/krzysztofcal/chipledger/internal/domain"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrInsufficientFunds, http.StatusConflict},
		{domain.ErrBalanceGuardFailed, http.StatusConflict},
		{domain.ErrInvalidState, http.StatusBadRequest},
		{domain.ErrInvalidTableID, http.StatusBadRequest},
		{domain.ErrInvalidBotUserID, http.StatusBadRequest},
		{domain.ErrInvalidActorUserID, http.StatusBadRequest},
		{fmt.Errorf("%w: account acc-1", domain.ErrInsufficientFunds), http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFromError(tt.err); got != tt.want {
			t.Fatalf("statusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
