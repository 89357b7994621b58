package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/postgres/generated"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByKey retrieves an account by its natural key.
func (r *AccountRepository) GetByKey(ctx context.Context, key string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// ResolveByKey creates the account if it does not exist yet and returns it
// without a row lock. SYSTEM and ESCROW accounts are resolved this way so
// that concurrent transactions touching the same escrow or rake account do
// not serialize on a lock; the guarded delta update protects their balances.
func (r *AccountRepository) ResolveByKey(ctx context.Context, tx usecase.Transaction, kind domain.AccountKind, key, newID string, allowNegative bool) (*domain.Account, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetAccountByKey(ctx, key)
	if err == nil {
		return rowToAccount(row), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err := queries.InsertAccountIfAbsent(ctx, generated.InsertAccountIfAbsentParams{
		ID:            newID,
		Kind:          string(kind),
		Key:           key,
		Status:        string(domain.AccountStatusActive),
		AllowNegative: allowNegative,
		CreatedAt:     timeToPgTimestamptz(time.Now().UTC()),
	}); err != nil {
		return nil, err
	}

	row, err = queries.GetAccountByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return rowToAccount(row), nil
}

// ResolveUserForUpdate creates the user's chip account if it does not exist
// yet and returns it locked FOR UPDATE. Callers must resolve user accounts
// in sorted user-id order to keep lock acquisition deadlock free.
func (r *AccountRepository) ResolveUserForUpdate(ctx context.Context, tx usecase.Transaction, userID, newID string) (*domain.Account, error) {
	queries := generated.New(tx.(*Tx).PgxTx())
	key := domain.UserKey(userID)

	if err := queries.InsertAccountIfAbsent(ctx, generated.InsertAccountIfAbsentParams{
		ID:            newID,
		Kind:          string(domain.AccountKindUser),
		Key:           key,
		Status:        string(domain.AccountStatusActive),
		AllowNegative: false,
		CreatedAt:     timeToPgTimestamptz(time.Now().UTC()),
	}); err != nil {
		return nil, err
	}

	row, err := queries.GetAccountByKeyForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}

	return rowToAccount(row), nil
}

// ApplyDelta applies one guarded balance change and advances the entry
// sequence by the entry count. A zero-row update means the balance guard
// refused the change.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, input usecase.ApplyDeltaInput) (*usecase.AppliedDelta, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.ApplyAccountDelta(ctx, generated.ApplyAccountDeltaParams{
		ID:         input.AccountID,
		Delta:      input.Delta,
		EntryCount: input.EntryCount,
		UpdatedAt:  timeToPgTimestamptz(input.UpdatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceGuardFailed
		}

		return nil, err
	}

	return &usecase.AppliedDelta{
		AccountID: row.ID,
		Balance:   row.Balance,
		EntrySeq:  row.EntrySeq,
	}, nil
}

// List retrieves accounts ordered by creation time.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:            row.ID,
		Kind:          domain.AccountKind(row.Kind),
		Key:           row.Key,
		Status:        domain.AccountStatus(row.Status),
		Balance:       row.Balance,
		EntrySeq:      row.EntrySeq,
		AllowNegative: row.AllowNegative,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
