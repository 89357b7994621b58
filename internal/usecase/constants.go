package usecase

const (
	// MaxEntriesPerTransaction bounds one posting; a full-ring settlement
	// needs at most one escrow leg plus nine player legs and a rake leg.
	MaxEntriesPerTransaction = 32
)
