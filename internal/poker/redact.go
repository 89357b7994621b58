package poker

// Phase is the betting street of a hand.
type Phase string

const (
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
)

// HandState is the broadcastable view of a hand that callers persist and
// fan out to table viewers.
type HandState struct {
	Phase     Phase           `json:"phase"`
	Community []Card          `json:"community,omitempty"`
	Pots      []SidePot       `json:"pots,omitempty"`
	Showdown  *ShowdownResult `json:"showdown,omitempty"`
}

// RedactShowdownForViewer filters revealed hole cards for one viewer. A
// viewer who is blank or not among activeUserIDs receives a copy of the
// state with an empty revealed-cards mapping; seated viewers see the state
// unchanged. Outside the showdown phase the state passes through as-is.
// The input is never mutated and the function never fails.
func RedactShowdownForViewer(state HandState, viewerUserID string, activeUserIDs []string) HandState {
	if state.Phase != PhaseShowdown || state.Showdown == nil {
		return state
	}

	if viewerUserID == "" || activeUserIDs == nil || !containsUser(activeUserIDs, viewerUserID) {
		redacted := *state.Showdown
		redacted.RevealedHoleCardsByUserID = map[string][]Card{}
		state.Showdown = &redacted
	}

	return state
}

func containsUser(userIDs []string, userID string) bool {
	for _, id := range userIDs {
		if id == userID {
			return true
		}
	}

	return false
}
