package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/postgres/generated"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// CreateOrGet inserts the transaction or, when the idempotency key already
// exists, returns the original row. When the first writer of the key has not
// committed yet, the lookup blocks on its row until it does.
func (r *TransactionRepository) CreateOrGet(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (*domain.Transaction, bool, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.InsertTransactionIfAbsent(ctx, generated.InsertTransactionIfAbsentParams{
		ID:             txn.ID,
		Type:           string(txn.Type),
		IdempotencyKey: txn.IdempotencyKey,
		UserID:         userIDToPgText(txn.UserID),
		CreatedBy:      txn.CreatedBy,
		CreatedAt:      timeToPgTimestamptz(txn.CreatedAt),
	})
	if err == nil {
		return rowToTransaction(row), true, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	row, err = queries.GetTransactionByIdempotencyKey(ctx, txn.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}

	return rowToTransaction(row), false, nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

// GetByIdempotencyKey retrieves a transaction by its idempotency key.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:             row.ID,
		Type:           domain.TransactionType(row.Type),
		IdempotencyKey: row.IdempotencyKey,
		UserID:         pgTextToUserID(row.UserID),
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt.Time,
	}
}

func userIDToPgText(userID *string) pgtype.Text {
	if userID == nil {
		return pgtype.Text{}
	}

	return pgtype.Text{String: *userID, Valid: true}
}

func pgTextToUserID(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}

	s := t.String

	return &s
}
