package handler

import (
	"net/http"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// LedgerHandler handles transaction posting and ledger-wide operations.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// PostTransaction posts one balanced set of entries.
func (h *LedgerHandler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.PostTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.ledgerUC.PostTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.PostTransactionFromResult(result))
}

// CheckConsistency probes the ledger-wide zero-sum invariants.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyResponse{
		TotalBalance:     report.TotalBalance,
		TotalEntryAmount: report.TotalEntryAmount,
		Consistent:       report.Consistent,
	})
}
