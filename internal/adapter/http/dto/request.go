package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/poker"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// ChipAmount is an integral chip count. JSON numbers and numeric strings
// are both accepted; fractional values are rejected at the boundary so the
// core only ever sees whole chips.
type ChipAmount int64

// UnmarshalJSON implements json.Unmarshaler.
func (a *ChipAmount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%w: malformed amount %q", domain.ErrInvalidState, s)
	}

	if !d.IsInteger() {
		return fmt.Errorf("%w: fractional amount %q", domain.ErrInvalidState, s)
	}

	*a = ChipAmount(d.IntPart())

	return nil
}

// Contribution is a tolerant chip count used by the side-pot endpoint.
// Strings are coerced, fractions floored, and unparseable values count
// as zero.
type Contribution int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Contribution) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)

	d, err := decimal.NewFromString(s)
	if err != nil {
		*c = 0
		return nil
	}

	*c = Contribution(d.Floor().IntPart())

	return nil
}

// EntryRequest is one leg of a posted transaction.
type EntryRequest struct {
	AccountKind string                `json:"account_kind"`
	Key         string                `json:"key,omitempty"`
	UserID      string                `json:"user_id,omitempty"`
	Amount      ChipAmount            `json:"amount"`
	Metadata    *domain.EntryMetadata `json:"metadata,omitempty"`
}

// PostTransactionRequest represents a request to post a ledger transaction.
type PostTransactionRequest struct {
	UserID         *string        `json:"user_id,omitempty"`
	Type           string         `json:"type"`
	IdempotencyKey string         `json:"idempotency_key"`
	CreatedBy      string         `json:"created_by"`
	Entries        []EntryRequest `json:"entries"`
}

// ToUseCaseInput converts to use case input.
func (r *PostTransactionRequest) ToUseCaseInput() usecase.PostTransactionInput {
	entries := make([]usecase.EntryInput, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = usecase.EntryInput{
			AccountKind: domain.AccountKind(e.AccountKind),
			Key:         e.Key,
			UserID:      e.UserID,
			Amount:      int64(e.Amount),
			Metadata:    e.Metadata,
		}
	}

	return usecase.PostTransactionInput{
		UserID:         r.UserID,
		Type:           domain.TransactionType(r.Type),
		IdempotencyKey: r.IdempotencyKey,
		CreatedBy:      r.CreatedBy,
		Entries:        entries,
	}
}

// SidePotsRequest represents a request to partition contributions into
// side pots.
type SidePotsRequest struct {
	Contributions   map[string]Contribution `json:"contributions"`
	EligibleUserIDs []string                `json:"eligible_user_ids"`
}

// ToContributions converts the tolerant boundary amounts to chip counts.
func (r *SidePotsRequest) ToContributions() map[string]int64 {
	contributions := make(map[string]int64, len(r.Contributions))
	for userID, c := range r.Contributions {
		contributions[userID] = int64(c)
	}

	return contributions
}

// ShowdownPlayerRequest is one showdown participant.
type ShowdownPlayerRequest struct {
	UserID    string       `json:"user_id"`
	HoleCards []poker.Card `json:"hole_cards"`
}

// ShowdownRequest represents a request to evaluate a showdown.
type ShowdownRequest struct {
	Community []poker.Card            `json:"community"`
	Players   []ShowdownPlayerRequest `json:"players"`
}

// ToPlayerHands converts to evaluator input.
func (r *ShowdownRequest) ToPlayerHands() []poker.PlayerHand {
	players := make([]poker.PlayerHand, len(r.Players))
	for i, p := range r.Players {
		players[i] = poker.PlayerHand{UserID: p.UserID, HoleCards: p.HoleCards}
	}

	return players
}

// RedactRequest represents a request to redact a hand state for one viewer.
type RedactRequest struct {
	State         poker.HandState `json:"state"`
	ViewerUserID  string          `json:"viewer_user_id"`
	ActiveUserIDs []string        `json:"active_user_ids"`
}

// SettleHandPlayerRequest is one seat's final state in a settled hand.
type SettleHandPlayerRequest struct {
	UserID       string       `json:"user_id"`
	SeatNo       int          `json:"seat_no"`
	HoleCards    []poker.Card `json:"hole_cards,omitempty"`
	Contribution ChipAmount   `json:"contribution"`
	Folded       bool         `json:"folded"`
}

// SettleHandRequest represents a request to settle a finished hand.
type SettleHandRequest struct {
	TableID   string                    `json:"table_id"`
	HandID    string                    `json:"hand_id"`
	CreatedBy string                    `json:"created_by"`
	Community []poker.Card              `json:"community"`
	Players   []SettleHandPlayerRequest `json:"players"`
	Rake      ChipAmount                `json:"rake"`
}

// ToUseCaseInput converts to use case input.
func (r *SettleHandRequest) ToUseCaseInput() usecase.SettleHandInput {
	players := make([]usecase.HandPlayerInput, len(r.Players))
	for i, p := range r.Players {
		players[i] = usecase.HandPlayerInput{
			UserID:       p.UserID,
			SeatNo:       p.SeatNo,
			HoleCards:    p.HoleCards,
			Contribution: int64(p.Contribution),
			Folded:       p.Folded,
		}
	}

	return usecase.SettleHandInput{
		TableID:   r.TableID,
		HandID:    r.HandID,
		CreatedBy: r.CreatedBy,
		Community: r.Community,
		Players:   players,
		Rake:      int64(r.Rake),
	}
}

// CashOutSeatRequest represents a request to return a seat's chips.
type CashOutSeatRequest struct {
	TableID   string     `json:"table_id"`
	UserID    string     `json:"user_id"`
	SeatNo    int        `json:"seat_no"`
	Amount    ChipAmount `json:"amount"`
	Timeout   bool       `json:"timeout"`
	Bot       bool       `json:"bot"`
	CreatedBy string     `json:"created_by"`
}

// ToUseCaseInput converts to use case input.
func (r *CashOutSeatRequest) ToUseCaseInput() usecase.CashOutSeatInput {
	return usecase.CashOutSeatInput{
		TableID:   r.TableID,
		UserID:    r.UserID,
		SeatNo:    r.SeatNo,
		Amount:    int64(r.Amount),
		Timeout:   r.Timeout,
		Bot:       r.Bot,
		CreatedBy: r.CreatedBy,
	}
}

// BuyInRequest represents a request to move chips into a table escrow.
type BuyInRequest struct {
	TableID   string     `json:"table_id"`
	UserID    string     `json:"user_id"`
	SeatNo    int        `json:"seat_no"`
	Amount    ChipAmount `json:"amount"`
	BuyInID   string     `json:"buy_in_id"`
	CreatedBy string     `json:"created_by"`
}

// ToUseCaseInput converts to use case input.
func (r *BuyInRequest) ToUseCaseInput() usecase.BuyInInput {
	return usecase.BuyInInput{
		TableID:   r.TableID,
		UserID:    r.UserID,
		SeatNo:    r.SeatNo,
		Amount:    int64(r.Amount),
		BuyInID:   r.BuyInID,
		CreatedBy: r.CreatedBy,
	}
}

// TopUpBotRequest represents a request to mint chips into a bot account.
type TopUpBotRequest struct {
	BotUserID string     `json:"bot_user_id"`
	Amount    ChipAmount `json:"amount"`
	TopUpID   string     `json:"top_up_id"`
	CreatedBy string     `json:"created_by"`
}

// ToUseCaseInput converts to use case input.
func (r *TopUpBotRequest) ToUseCaseInput() usecase.TopUpBotInput {
	return usecase.TopUpBotInput{
		BotUserID: r.BotUserID,
		Amount:    int64(r.Amount),
		TopUpID:   r.TopUpID,
		CreatedBy: r.CreatedBy,
	}
}
