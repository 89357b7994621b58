package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/usecase"
	"github.com/krzysztofcal/chipledger/internal/usecase/mocks"
)

func TestAccountUseCase_GetUserAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccountRepository(ctrl)
	uc := usecase.NewAccountUseCase(repo)

	want := &domain.Account{
		ID:   "acc-1",
		Kind: domain.AccountKindUser,
		Key:  domain.UserKey(testUserID),
	}
	repo.EXPECT().
		GetByKey(gomock.Any(), domain.UserKey(testUserID)).
		Return(want, nil)

	got, err := uc.GetUserAccount(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("GetUserAccount() error = %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("GetUserAccount() = %v, want %v", got.ID, want.ID)
	}
}

func TestAccountUseCase_GetUserAccountRejectsMalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccountRepository(ctrl)
	uc := usecase.NewAccountUseCase(repo)

	_, err := uc.GetUserAccount(context.Background(), "not-a-uuid")
	if !errors.Is(err, domain.ErrInvalidActorUserID) {
		t.Fatalf("GetUserAccount() error = %v, want invalid actor user id", err)
	}
}

func TestAccountUseCase_GetUserAccountNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccountRepository(ctrl)
	uc := usecase.NewAccountUseCase(repo)

	repo.EXPECT().
		GetByKey(gomock.Any(), domain.UserKey(testUserID)).
		Return(nil, domain.ErrAccountNotFound)

	_, err := uc.GetUserAccount(context.Background(), testUserID)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("GetUserAccount() error = %v, want account not found", err)
	}
}

func TestAccountUseCase_ListAccountsClampsLimit(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.ListAccountsInput
		wantLimit int
	}{
		{"zero limit defaults", usecase.ListAccountsInput{Limit: 0}, 20},
		{"negative limit defaults", usecase.ListAccountsInput{Limit: -5}, 20},
		{"oversized limit clamps", usecase.ListAccountsInput{Limit: 500}, 100},
		{"in-range limit passes through", usecase.ListAccountsInput{Limit: 50, Offset: 10}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockAccountRepository(ctrl)
			uc := usecase.NewAccountUseCase(repo)

			repo.EXPECT().
				List(gomock.Any(), tt.wantLimit, tt.input.Offset).
				Return([]*domain.Account{}, nil)

			if _, err := uc.ListAccounts(context.Background(), tt.input); err != nil {
				t.Fatalf("ListAccounts() error = %v", err)
			}
		})
	}
}
