package usecase

import (
	"context"

	"github.com/krzysztofcal/chipledger/internal/domain"
)

// AccountUseCase handles account read access. Accounts are never created
// directly; they materialize lazily when a posting first touches them.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
	}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountByKey retrieves an account by its key.
func (uc *AccountUseCase) GetAccountByKey(ctx context.Context, key string) (*domain.Account, error) {
	return uc.accountRepo.GetByKey(ctx, key)
}

// GetUserAccount retrieves a user's chip account.
func (uc *AccountUseCase) GetUserAccount(ctx context.Context, userID string) (*domain.Account, error) {
	if err := domain.ValidateActorUserID(userID); err != nil {
		return nil, err
	}

	return uc.accountRepo.GetByKey(ctx, domain.UserKey(userID))
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}
