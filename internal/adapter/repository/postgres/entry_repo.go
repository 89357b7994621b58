package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/postgres/generated"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a new entry within the transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	return queries.InsertEntry(ctx, generated.InsertEntryParams{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		AccountID:     entry.AccountID,
		Amount:        entry.Amount,
		Sequence:      entry.Sequence,
		Metadata:      metadata,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
}

// ListByTransaction retrieves all entries of a transaction in posting order.
func (r *EntryRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows)
}

// ListByAccount retrieves entries of an account, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows)
}

func rowsToEntries(rows []generated.Entry) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func rowToEntry(row generated.Entry) (*domain.Entry, error) {
	metadata, err := unmarshalMetadata(row.Metadata)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", row.ID, err)
	}

	return &domain.Entry{
		ID:            row.ID,
		TransactionID: row.TransactionID,
		AccountID:     row.AccountID,
		Amount:        row.Amount,
		Sequence:      row.Sequence,
		Metadata:      metadata,
		CreatedAt:     row.CreatedAt.Time,
	}, nil
}

func marshalMetadata(m *domain.EntryMetadata) ([]byte, error) {
	if m == nil {
		return nil, nil
	}

	return json.Marshal(m)
}

func unmarshalMetadata(raw []byte) (*domain.EntryMetadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var m domain.EntryMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	return &m, nil
}
