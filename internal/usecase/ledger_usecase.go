package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/metrics"
)

// LedgerUseCase posts balanced chip transactions.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
	}
}

// EntryInput is one leg of a posting. SYSTEM and ESCROW legs name their
// account by key; USER legs name a user id, or default to the posting's
// top-level user id when left empty.
type EntryInput struct {
	AccountKind domain.AccountKind
	Key         string
	UserID      string
	Amount      int64
	Metadata    *domain.EntryMetadata
}

// PostTransactionInput represents input for posting a transaction.
type PostTransactionInput struct {
	UserID         *string
	Type           domain.TransactionType
	IdempotencyKey string
	CreatedBy      string
	Entries        []EntryInput
}

// PostTransactionResult is the outcome of a posting. Account is the
// top-level user's account after the posting, nil for pure system or
// escrow transfers. Replayed is true when the idempotency key had already
// been posted and the original result was returned instead.
type PostTransactionResult struct {
	Transaction *domain.Transaction
	Entries     []*domain.Entry
	Account     *domain.Account
	Replayed    bool
}

// PostTransaction atomically applies one balanced set of entries. Retries
// with the same idempotency key return the original result without any
// further balance change.
func (uc *LedgerUseCase) PostTransaction(ctx context.Context, input PostTransactionInput) (*PostTransactionResult, error) {
	start := time.Now()

	if err := uc.validate(input); err != nil {
		uc.countError(err)
		return nil, err
	}

	var result *PostTransactionResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.postOnce(ctx, input)

		return err
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	uc.observeSuccess(input, result, start)

	return result, nil
}

// validate rejects malformed input before any database round trip.
func (uc *LedgerUseCase) validate(input PostTransactionInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidState, input.Type)
	}

	if input.IdempotencyKey == "" {
		return fmt.Errorf("%w: missing idempotency key", domain.ErrInvalidState)
	}

	if err := domain.ValidateActorUserID(input.CreatedBy); err != nil {
		return err
	}

	if input.UserID != nil {
		if err := validateUserID(input.Type, *input.UserID); err != nil {
			return err
		}
	}

	if len(input.Entries) > MaxEntriesPerTransaction {
		return fmt.Errorf("%w: too many entries (%d)", domain.ErrInvalidState, len(input.Entries))
	}

	amounts := make([]int64, 0, len(input.Entries))

	for _, e := range input.Entries {
		switch e.AccountKind {
		case domain.AccountKindSystem:
			if err := domain.ValidateSystemKey(e.Key); err != nil {
				return err
			}
		case domain.AccountKindEscrow:
			if err := domain.ValidateEscrowKey(e.Key); err != nil {
				return err
			}
		case domain.AccountKindUser:
			if e.UserID == "" {
				if input.UserID == nil {
					return fmt.Errorf("%w: user entry without a user id", domain.ErrInvalidState)
				}
			} else if err := validateUserID(input.Type, e.UserID); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown account kind %q", domain.ErrInvalidState, e.AccountKind)
		}

		amounts = append(amounts, e.Amount)
	}

	return domain.ValidateEntryAmounts(amounts)
}

// postOnce runs one attempt of the posting inside a single database
// transaction. It is safe to retry; a retry that races a committed first
// attempt lands on the replay path through the idempotency key.
func (uc *LedgerUseCase) postOnce(ctx context.Context, input PostTransactionInput) (*PostTransactionResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	txn, created, err := uc.txRepo.CreateOrGet(ctx, tx, &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Type:           input.Type,
		IdempotencyKey: input.IdempotencyKey,
		UserID:         input.UserID,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	if !created {
		return uc.replay(ctx, txn)
	}

	accounts, err := uc.resolveAccounts(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	// Aggregate per-account deltas and entry counts.
	deltas := make(map[string]int64)
	counts := make(map[string]int64)

	for _, e := range input.Entries {
		key := entryAccountKey(input, e)
		deltas[key] += e.Amount
		counts[key]++
	}

	// Fail fast on the locked user accounts before touching any row. The
	// unlocked system and escrow accounts are re-checked by the guarded
	// update below.
	for key, account := range accounts {
		if account.Kind == domain.AccountKindUser {
			if err := account.ValidateDelta(deltas[key]); err != nil {
				return nil, fmt.Errorf("%w: account %s", err, account.ID)
			}
		}
	}

	applied, err := uc.applyDeltas(ctx, tx, accounts, deltas, counts, now)
	if err != nil {
		return nil, err
	}

	// Entry sequences per account run up to the post-update counter.
	nextSeq := make(map[string]int64, len(applied))
	for key, res := range applied {
		nextSeq[key] = res.EntrySeq - counts[key] + 1
	}

	entries := make([]*domain.Entry, 0, len(input.Entries))

	for _, e := range input.Entries {
		key := entryAccountKey(input, e)

		entry := &domain.Entry{
			ID:            uc.idGen.Generate(),
			TransactionID: txn.ID,
			AccountID:     accounts[key].ID,
			Amount:        e.Amount,
			Sequence:      nextSeq[key],
			Metadata:      e.Metadata,
			CreatedAt:     now,
		}
		nextSeq[key]++

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	var account *domain.Account

	if input.UserID != nil {
		key := domain.UserKey(*input.UserID)
		account = accounts[key]

		if res, ok := applied[key]; ok {
			account.Balance = res.Balance
			account.EntrySeq = res.EntrySeq
			account.UpdatedAt = now
		}
	}

	return &PostTransactionResult{
		Transaction: txn,
		Entries:     entries,
		Account:     account,
	}, nil
}

// replay returns the original result of an already-posted idempotency key.
// The open transaction holds no locks at this point; the caller's defer
// rolls it back.
func (uc *LedgerUseCase) replay(ctx context.Context, txn *domain.Transaction) (*PostTransactionResult, error) {
	entries, err := uc.entryRepo.ListByTransaction(ctx, txn.ID)
	if err != nil {
		return nil, err
	}

	var account *domain.Account

	if txn.UserID != nil {
		account, err = uc.accountRepo.GetByKey(ctx, domain.UserKey(*txn.UserID))
		if err != nil {
			return nil, err
		}
	}

	return &PostTransactionResult{
		Transaction: txn,
		Entries:     entries,
		Account:     account,
		Replayed:    true,
	}, nil
}

// resolveAccounts resolves every account the posting touches. User accounts
// are created if absent and row-locked in sorted user-id order (DEADLOCK
// PREVENTION); system and escrow accounts are resolved without locks. The
// top-level user is locked even when no entry names it, so its returned
// state is consistent with the posting.
func (uc *LedgerUseCase) resolveAccounts(ctx context.Context, tx Transaction, input PostTransactionInput) (map[string]*domain.Account, error) {
	userIDs := make(map[string]bool)
	staticKeys := make(map[string]domain.AccountKind)

	if input.UserID != nil {
		userIDs[*input.UserID] = true
	}

	for _, e := range input.Entries {
		if e.AccountKind == domain.AccountKindUser {
			uid := e.UserID
			if uid == "" {
				uid = *input.UserID
			}
			userIDs[uid] = true
		} else {
			staticKeys[e.Key] = e.AccountKind
		}
	}

	accounts := make(map[string]*domain.Account, len(userIDs)+len(staticKeys))

	sortedUserIDs := make([]string, 0, len(userIDs))
	for uid := range userIDs {
		sortedUserIDs = append(sortedUserIDs, uid)
	}
	sort.Strings(sortedUserIDs)

	for _, uid := range sortedUserIDs {
		account, err := uc.accountRepo.ResolveUserForUpdate(ctx, tx, uid, uc.idGen.Generate())
		if err != nil {
			return nil, err
		}

		accounts[account.Key] = account
	}

	sortedStatic := make([]string, 0, len(staticKeys))
	for key := range staticKeys {
		sortedStatic = append(sortedStatic, key)
	}
	sort.Strings(sortedStatic)

	for _, key := range sortedStatic {
		account, err := uc.accountRepo.ResolveByKey(ctx, tx, staticKeys[key], key, uc.idGen.Generate(), domain.AllowsNegative(key))
		if err != nil {
			return nil, err
		}

		accounts[account.Key] = account
	}

	return accounts, nil
}

// applyDeltas runs the guarded balance updates in ascending account-id
// order. A guard refusal on a debit is reported as insufficient funds;
// anything else surfaces as a guard failure.
func (uc *LedgerUseCase) applyDeltas(
	ctx context.Context,
	tx Transaction,
	accounts map[string]*domain.Account,
	deltas map[string]int64,
	counts map[string]int64,
	now time.Time,
) (map[string]*AppliedDelta, error) {
	touched := make([]*domain.Account, 0, len(deltas))

	for key := range deltas {
		account, ok := accounts[key]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}

		touched = append(touched, account)
	}

	sort.Slice(touched, func(i, j int) bool { return touched[i].ID < touched[j].ID })

	applied := make(map[string]*AppliedDelta, len(touched))

	for _, account := range touched {
		delta := deltas[account.Key]

		res, err := uc.accountRepo.ApplyDelta(ctx, tx, ApplyDeltaInput{
			AccountID:  account.ID,
			Delta:      delta,
			EntryCount: counts[account.Key],
			UpdatedAt:  now,
		})
		if err != nil {
			if errors.Is(err, domain.ErrBalanceGuardFailed) && delta < 0 && !account.AllowNegative {
				return nil, fmt.Errorf("%w: account %s", domain.ErrInsufficientFunds, account.ID)
			}

			return nil, err
		}

		applied[account.Key] = res
	}

	return applied, nil
}

func (uc *LedgerUseCase) observeSuccess(input PostTransactionInput, result *PostTransactionResult, start time.Time) {
	if uc.metrics == nil {
		return
	}

	if result.Replayed {
		uc.metrics.TransactionsReplayed.Inc()
	} else {
		uc.metrics.TransactionsPosted.WithLabelValues(string(input.Type)).Inc()

		for _, e := range result.Entries {
			amount := e.Amount
			if amount < 0 {
				amount = -amount
			}
			uc.metrics.EntryAmount.Observe(float64(amount))
		}
	}

	uc.metrics.PostDuration.Observe(time.Since(start).Seconds())
}

func (uc *LedgerUseCase) countError(err error) {
	if uc.metrics != nil {
		uc.metrics.TransactionErrors.WithLabelValues(domain.Code(err)).Inc()
	}
}

// ConsistencyReport summarizes the ledger-wide conservation check.
type ConsistencyReport struct {
	TotalBalance     int64
	TotalEntryAmount int64
	Consistent       bool
}

// CheckConsistency verifies chip conservation: account balances and entry
// amounts must each sum to zero across the whole ledger, the treasury
// carrying the negative of everything in circulation.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, totalEntryAmount, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		TotalBalance:     totalBalance,
		TotalEntryAmount: totalEntryAmount,
		Consistent:       totalBalance == 0 && totalEntryAmount == 0,
	}, nil
}

func validateUserID(txType domain.TransactionType, userID string) error {
	if txType == domain.TxTypeBotTopUp {
		return domain.ValidateBotUserID(userID)
	}

	return domain.ValidateActorUserID(userID)
}

func entryAccountKey(input PostTransactionInput, e EntryInput) string {
	if e.AccountKind == domain.AccountKindUser {
		uid := e.UserID
		if uid == "" {
			uid = *input.UserID
		}

		return domain.UserKey(uid)
	}

	return e.Key
}
