package usecase

import (
	"context"

	"github.com/krzysztofcal/chipledger/internal/domain"
)

// EntryUseCase handles entry read access.
type EntryUseCase struct {
	entryRepo EntryRepository
	txRepo    TransactionRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, txRepo TransactionRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
		txRepo:    txRepo,
	}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account, newest first.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// GetTransaction retrieves a transaction with its entries.
func (uc *EntryUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.Entry, error) {
	txn, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uc.entryRepo.ListByTransaction(ctx, txn.ID)
	if err != nil {
		return nil, nil, err
	}

	return txn, entries, nil
}

// GetTransactionByIdempotencyKey retrieves a transaction by the key it was
// posted under.
func (uc *EntryUseCase) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, []*domain.Entry, error) {
	txn, err := uc.txRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uc.entryRepo.ListByTransaction(ctx, txn.ID)
	if err != nil {
		return nil, nil, err
	}

	return txn, entries, nil
}
