package handler

import (
	"net/http"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/poker"
)

// PokerHandler exposes the stateless poker computations. These endpoints
// move no chips; game servers call them to preview pot structure and to
// build viewer-specific broadcasts.
type PokerHandler struct{}

// NewPokerHandler creates a new PokerHandler.
func NewPokerHandler() *PokerHandler {
	return &PokerHandler{}
}

// SidePots partitions per-player contributions into side pots.
func (h *PokerHandler) SidePots(w http.ResponseWriter, r *http.Request) {
	var req dto.SidePotsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pots := poker.BuildSidePots(req.ToContributions(), req.EligibleUserIDs)

	writeJSON(w, http.StatusOK, dto.SidePotsResponse{
		Pots:  pots,
		Total: poker.PotTotal(pots),
	})
}

// Showdown evaluates every player's best hand and returns the winner set.
func (h *PokerHandler) Showdown(w http.ResponseWriter, r *http.Request) {
	var req dto.ShowdownRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := poker.ComputeShowdown(req.Community, req.ToPlayerHands())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Redact filters a hand state's revealed hole cards for one viewer.
func (h *PokerHandler) Redact(w http.ResponseWriter, r *http.Request) {
	var req dto.RedactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state := poker.RedactShowdownForViewer(req.State, req.ViewerUserID, req.ActiveUserIDs)

	writeJSON(w, http.StatusOK, state)
}
