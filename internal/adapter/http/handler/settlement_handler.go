package handler

import (
	"net/http"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// SettlementHandler handles the chip-moving poker flows.
type SettlementHandler struct {
	settlementUC *usecase.SettlementUseCase
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC *usecase.SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// SettleHand settles a finished hand: side pots, showdown, and one posting
// that pays the winners out of the table escrow.
func (h *SettlementHandler) SettleHand(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleHandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.settlementUC.SettleHand(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.SettleHandFromResult(result))
}

// CashOutSeat returns a seat's remaining chips to the player.
func (h *SettlementHandler) CashOutSeat(w http.ResponseWriter, r *http.Request) {
	var req dto.CashOutSeatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.settlementUC.CashOutSeat(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.CashOutSeatFromResult(result))
}

// BuyIn moves chips from the player's account into the table escrow.
func (h *SettlementHandler) BuyIn(w http.ResponseWriter, r *http.Request) {
	var req dto.BuyInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.settlementUC.BuyIn(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.CashOutSeatFromResult(result))
}

// TopUpBot mints chips from the treasury into a bot account.
func (h *SettlementHandler) TopUpBot(w http.ResponseWriter, r *http.Request) {
	var req dto.TopUpBotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.settlementUC.TopUpBot(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.CashOutSeatFromResult(result))
}
