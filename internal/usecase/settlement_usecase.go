package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/metrics"
	"github.com/krzysztofcal/chipledger/internal/poker"
)

// SettlementUseCase turns the outcome of a poker hand into ledger postings.
// It owns the idempotency key scheme for table events, so the table state
// machine can retry any call safely.
type SettlementUseCase struct {
	ledger  LedgerPoster
	metrics *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(ledger LedgerPoster, m *metrics.Metrics) *SettlementUseCase {
	return &SettlementUseCase{
		ledger:  ledger,
		metrics: m,
	}
}

// HandPlayerInput is one seat's state at the end of a hand. Contribution is
// the seat's total chips put into the pot across all streets.
type HandPlayerInput struct {
	UserID       string
	SeatNo       int
	HoleCards    []poker.Card
	Contribution int64
	Folded       bool
}

// SettleHandInput describes a finished hand to settle.
type SettleHandInput struct {
	TableID   string
	HandID    string
	CreatedBy string
	Community []poker.Card
	Players   []HandPlayerInput
	Rake      int64
}

// SettleHandResult reports how the pot was split and the posting that
// realized it.
type SettleHandResult struct {
	Pots            []poker.SidePot
	Showdown        *poker.ShowdownResult
	PayoutsByUserID map[string]int64
	Rake            int64
	Transaction     *domain.Transaction
	Replayed        bool
}

// SettleHand builds side pots from the hand's contributions, runs the
// showdown when more than one seat is still in, and posts one balanced
// transaction moving the escrowed chips to the winners. The hand id scopes
// the idempotency key, so retries of the same hand settle nothing twice.
func (uc *SettlementUseCase) SettleHand(ctx context.Context, input SettleHandInput) (*SettleHandResult, error) {
	if err := validateHandInput(input); err != nil {
		return nil, err
	}

	var total int64
	for _, p := range input.Players {
		total += p.Contribution
	}

	if total <= 0 {
		return nil, fmt.Errorf("%w: hand has no pot", domain.ErrInvalidState)
	}

	if input.Rake < 0 || input.Rake >= total {
		return nil, fmt.Errorf("%w: rake %d out of range for pot %d", domain.ErrInvalidState, input.Rake, total)
	}

	contenders := make([]HandPlayerInput, 0, len(input.Players))
	for _, p := range input.Players {
		if !p.Folded {
			contenders = append(contenders, p)
		}
	}

	if len(contenders) == 0 {
		return nil, fmt.Errorf("%w: every seat folded", domain.ErrInvalidState)
	}

	distributable := total - input.Rake

	var (
		pots     []poker.SidePot
		showdown *poker.ShowdownResult
		err      error
	)

	if len(contenders) == 1 {
		// Uncontested hand, no cards are compared or revealed.
		pots = []poker.SidePot{{
			Amount:          distributable,
			EligibleUserIDs: []string{contenders[0].UserID},
			MaxContribution: contenders[0].Contribution,
		}}
	} else {
		pots, showdown, err = uc.contestedPots(input, contenders, distributable)
		if err != nil {
			return nil, err
		}
	}

	payouts, order := potPayouts(pots, showdown)

	entries := make([]EntryInput, 0, len(order)+2)
	entries = append(entries, EntryInput{
		AccountKind: domain.AccountKindEscrow,
		Key:         domain.EscrowKey(input.TableID),
		Amount:      -total,
		Metadata: &domain.EntryMetadata{
			TableID: input.TableID,
			HandID:  input.HandID,
			Reason:  "hand_settlement",
		},
	})

	for _, userID := range order {
		entries = append(entries, EntryInput{
			AccountKind: domain.AccountKindUser,
			UserID:      userID,
			Amount:      payouts[userID],
			Metadata: &domain.EntryMetadata{
				TableID: input.TableID,
				HandID:  input.HandID,
				Reason:  "pot_win",
			},
		})
	}

	if input.Rake > 0 {
		entries = append(entries, EntryInput{
			AccountKind: domain.AccountKindSystem,
			Key:         domain.SystemKeyRake,
			Amount:      input.Rake,
			Metadata: &domain.EntryMetadata{
				TableID: input.TableID,
				HandID:  input.HandID,
				Reason:  "rake",
			},
		})
	}

	posted, err := uc.ledger.PostTransaction(ctx, PostTransactionInput{
		Type:           domain.TxTypeHandSettlement,
		IdempotencyKey: fmt.Sprintf("poker:settle:%s:%s:v1", input.TableID, input.HandID),
		CreatedBy:      input.CreatedBy,
		Entries:        entries,
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil && !posted.Replayed {
		uc.metrics.HandsSettled.Inc()
		uc.metrics.SettlementAmount.Observe(float64(total))
	}

	return &SettleHandResult{
		Pots:            pots,
		Showdown:        showdown,
		PayoutsByUserID: payouts,
		Rake:            input.Rake,
		Transaction:     posted.Transaction,
		Replayed:        posted.Replayed,
	}, nil
}

// contestedPots builds the eligibility-scoped pots and runs the showdown.
// Dead money from folded seats (and any rake shortfall) lands in the first
// pot, matching table convention.
func (uc *SettlementUseCase) contestedPots(input SettleHandInput, contenders []HandPlayerInput, distributable int64) ([]poker.SidePot, *poker.ShowdownResult, error) {
	contributions := make(map[string]int64, len(contenders))
	eligible := make([]string, 0, len(contenders))
	hands := make([]poker.PlayerHand, 0, len(contenders))

	for _, p := range contenders {
		contributions[p.UserID] = p.Contribution
		eligible = append(eligible, p.UserID)
		hands = append(hands, poker.PlayerHand{UserID: p.UserID, HoleCards: p.HoleCards})
	}

	pots := poker.BuildSidePots(contributions, eligible)
	if len(pots) == 0 {
		pots = []poker.SidePot{{EligibleUserIDs: eligible}}
	}

	// The pots cover only live contributions; stretch the first pot so the
	// pot total equals the distributable escrow.
	pots[0].Amount += distributable - poker.PotTotal(pots)
	if pots[0].Amount < 0 {
		return nil, nil, fmt.Errorf("%w: rake exceeds main pot", domain.ErrInvalidState)
	}

	start := time.Now()

	showdown, err := poker.ComputeShowdown(input.Community, hands)
	if err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ShowdownDuration.Observe(time.Since(start).Seconds())
	}

	return pots, showdown, nil
}

// potPayouts splits each pot among its best-ranked eligible players. Shares
// divide evenly; an odd chip goes to the earliest winner in the pot's
// stable eligibility order. The returned order lists payees as first seen.
func potPayouts(pots []poker.SidePot, showdown *poker.ShowdownResult) (map[string]int64, []string) {
	payouts := make(map[string]int64)
	order := make([]string, 0, len(pots))

	for _, pot := range pots {
		if pot.Amount == 0 {
			continue
		}

		winners := pot.EligibleUserIDs
		if showdown != nil {
			winners = bestOfPot(pot.EligibleUserIDs, showdown)
		}

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))

		for i, userID := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}

			if amount == 0 {
				continue
			}

			if _, seen := payouts[userID]; !seen {
				order = append(order, userID)
			}
			payouts[userID] += amount
		}
	}

	return payouts, order
}

// bestOfPot returns the pot's eligible players holding its highest-ranked
// hand, preserving eligibility order.
func bestOfPot(eligible []string, showdown *poker.ShowdownResult) []string {
	var best poker.HandRank
	for _, userID := range eligible {
		if rank := showdown.HandsByUserID[userID].Rank; rank > best {
			best = rank
		}
	}

	winners := make([]string, 0, len(eligible))
	for _, userID := range eligible {
		if showdown.HandsByUserID[userID].Rank == best {
			winners = append(winners, userID)
		}
	}

	return winners
}

func validateHandInput(input SettleHandInput) error {
	if err := domain.ValidateTableID(input.TableID); err != nil {
		return err
	}

	if _, err := uuid.Parse(input.HandID); err != nil {
		return fmt.Errorf("%w: malformed hand id %q", domain.ErrInvalidState, input.HandID)
	}

	if err := domain.ValidateActorUserID(input.CreatedBy); err != nil {
		return err
	}

	if len(input.Players) == 0 {
		return fmt.Errorf("%w: hand has no players", domain.ErrInvalidState)
	}

	for _, p := range input.Players {
		if p.Contribution < 0 {
			return fmt.Errorf("%w: negative contribution for %s", domain.ErrInvalidState, p.UserID)
		}
	}

	return nil
}

// CashOutSeatInput describes chips leaving a table seat for the player's
// account. Timeout marks sweeps of idle seats; Bot validates the user id
// in the bot id space so a malformed id gets the bot-specific code.
type CashOutSeatInput struct {
	TableID   string
	UserID    string
	SeatNo    int
	Amount    int64
	Timeout   bool
	Bot       bool
	CreatedBy string
}

// CashOutSeatResult reports the posting that returned the seat's chips.
type CashOutSeatResult struct {
	Transaction *domain.Transaction
	Account     *domain.Account
	Replayed    bool
}

// CashOutSeat moves a seat's remaining chips from the table escrow back to
// the player. The idempotency key is scoped by table, user, and seat, so a
// sweep job can re-run against the same seat without double credit.
func (uc *SettlementUseCase) CashOutSeat(ctx context.Context, input CashOutSeatInput) (*CashOutSeatResult, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: cash-out amount %d", domain.ErrInvalidState, input.Amount)
	}

	if input.Bot {
		if err := domain.ValidateBotUserID(input.UserID); err != nil {
			return nil, err
		}
	} else if err := domain.ValidateActorUserID(input.UserID); err != nil {
		return nil, err
	}

	txType := domain.TxTypeTableCashOut
	keyOp := "cashout"
	reason := "leave_table"

	if input.Timeout {
		txType = domain.TxTypeTimeoutCashOut
		keyOp = "timeout_cashout"
		reason = "seat_timeout"
	}

	metadata := &domain.EntryMetadata{
		TableID: input.TableID,
		SeatNo:  input.SeatNo,
		Reason:  reason,
	}

	posted, err := uc.ledger.PostTransaction(ctx, PostTransactionInput{
		UserID:         &input.UserID,
		Type:           txType,
		IdempotencyKey: fmt.Sprintf("poker:%s:%s:%s:%d:v1", keyOp, input.TableID, input.UserID, input.SeatNo),
		CreatedBy:      input.CreatedBy,
		Entries: []EntryInput{
			{
				AccountKind: domain.AccountKindEscrow,
				Key:         domain.EscrowKey(input.TableID),
				Amount:      -input.Amount,
				Metadata:    metadata,
			},
			{
				AccountKind: domain.AccountKindUser,
				Amount:      input.Amount,
				Metadata:    metadata,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil && !posted.Replayed {
		uc.metrics.SeatsCashedOut.WithLabelValues(reason).Inc()
	}

	return &CashOutSeatResult{
		Transaction: posted.Transaction,
		Account:     posted.Account,
		Replayed:    posted.Replayed,
	}, nil
}

// BuyInInput describes a player bringing chips to a table. BuyInID makes
// repeat buy-ins at the same seat distinct events.
type BuyInInput struct {
	TableID   string
	UserID    string
	SeatNo    int
	Amount    int64
	BuyInID   string
	CreatedBy string
}

// BuyIn moves chips from the player's account into the table escrow.
func (uc *SettlementUseCase) BuyIn(ctx context.Context, input BuyInInput) (*CashOutSeatResult, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: buy-in amount %d", domain.ErrInvalidState, input.Amount)
	}

	if _, err := uuid.Parse(input.BuyInID); err != nil {
		return nil, fmt.Errorf("%w: malformed buy-in id %q", domain.ErrInvalidState, input.BuyInID)
	}

	metadata := &domain.EntryMetadata{
		TableID: input.TableID,
		SeatNo:  input.SeatNo,
		Reason:  "buy_in",
	}

	posted, err := uc.ledger.PostTransaction(ctx, PostTransactionInput{
		UserID:         &input.UserID,
		Type:           domain.TxTypeTableBuyIn,
		IdempotencyKey: fmt.Sprintf("poker:buyin:%s:%s:%s:v1", input.TableID, input.UserID, input.BuyInID),
		CreatedBy:      input.CreatedBy,
		Entries: []EntryInput{
			{
				AccountKind: domain.AccountKindUser,
				Amount:      -input.Amount,
				Metadata:    metadata,
			},
			{
				AccountKind: domain.AccountKindEscrow,
				Key:         domain.EscrowKey(input.TableID),
				Amount:      input.Amount,
				Metadata:    metadata,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &CashOutSeatResult{
		Transaction: posted.Transaction,
		Account:     posted.Account,
		Replayed:    posted.Replayed,
	}, nil
}

// TopUpBotInput describes the treasury staking a bot account.
type TopUpBotInput struct {
	BotUserID string
	Amount    int64
	TopUpID   string
	CreatedBy string
}

// TopUpBot mints chips from the treasury into a bot's account. Only the
// treasury may go negative, so this is the one flow that grows circulation.
func (uc *SettlementUseCase) TopUpBot(ctx context.Context, input TopUpBotInput) (*CashOutSeatResult, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: top-up amount %d", domain.ErrInvalidState, input.Amount)
	}

	if _, err := uuid.Parse(input.TopUpID); err != nil {
		return nil, fmt.Errorf("%w: malformed top-up id %q", domain.ErrInvalidState, input.TopUpID)
	}

	metadata := &domain.EntryMetadata{Reason: "bot_top_up"}

	posted, err := uc.ledger.PostTransaction(ctx, PostTransactionInput{
		UserID:         &input.BotUserID,
		Type:           domain.TxTypeBotTopUp,
		IdempotencyKey: fmt.Sprintf("poker:bot_topup:%s:%s:v1", input.BotUserID, input.TopUpID),
		CreatedBy:      input.CreatedBy,
		Entries: []EntryInput{
			{
				AccountKind: domain.AccountKindSystem,
				Key:         domain.SystemKeyTreasury,
				Amount:      -input.Amount,
				Metadata:    metadata,
			},
			{
				AccountKind: domain.AccountKindUser,
				Amount:      input.Amount,
				Metadata:    metadata,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &CashOutSeatResult{
		Transaction: posted.Transaction,
		Account:     posted.Account,
		Replayed:    posted.Replayed,
	}, nil
}
