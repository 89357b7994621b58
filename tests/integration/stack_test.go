package integration

import (
	"context"
	"testing"
	"time"

	"github.com/krzysztofcal/chipledger/internal/adapter/repository/postgres"
	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/usecase"
	"github.com/krzysztofcal/chipledger/tests/testutil"
)

// ledgerStack wires the real postgres repositories into the use cases the
// same way cmd/server does.
type ledgerStack struct {
	accountRepo  *postgres.AccountRepository
	ledgerUC     *usecase.LedgerUseCase
	settlementUC *usecase.SettlementUseCase
	accountUC    *usecase.AccountUseCase
	entryUC      *usecase.EntryUseCase
}

func newLedgerStack(testDB *testutil.TestDB) *ledgerStack {
	pool := testDB.Pool

	accountRepo := postgres.NewAccountRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(3, 5*time.Second, nil)

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txRepo, entryRepo, ledgerRepo, idGen, retrier, nil)

	return &ledgerStack{
		accountRepo:  accountRepo,
		ledgerUC:     ledgerUC,
		settlementUC: usecase.NewSettlementUseCase(ledgerUC, nil),
		accountUC:    usecase.NewAccountUseCase(accountRepo),
		entryUC:      usecase.NewEntryUseCase(entryRepo, txRepo),
	}
}

// fundUser mints chips to a user's account through a treasury top-up.
func (s *ledgerStack) fundUser(ctx context.Context, t *testing.T, userID, topUpID string, amount int64) {
	t.Helper()

	_, err := s.settlementUC.TopUpBot(ctx, usecase.TopUpBotInput{
		BotUserID: userID,
		Amount:    amount,
		TopUpID:   topUpID,
		CreatedBy: userID,
	})
	if err != nil {
		t.Fatalf("failed to fund user %s: %v", userID, err)
	}
}

func (s *ledgerStack) userBalance(ctx context.Context, t *testing.T, userID string) int64 {
	t.Helper()

	account, err := s.accountRepo.GetByKey(ctx, domain.UserKey(userID))
	if err != nil {
		t.Fatalf("failed to load account for user %s: %v", userID, err)
	}

	return account.Balance
}

func (s *ledgerStack) escrowBalance(ctx context.Context, t *testing.T, tableID string) int64 {
	t.Helper()

	account, err := s.accountRepo.GetByKey(ctx, domain.EscrowKey(tableID))
	if err != nil {
		t.Fatalf("failed to load escrow for table %s: %v", tableID, err)
	}

	return account.Balance
}

// assertConsistent fails the test when chip conservation is violated.
func (s *ledgerStack) assertConsistent(ctx context.Context, t *testing.T) {
	t.Helper()

	report, err := s.ledgerUC.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}

	if !report.Consistent {
		t.Errorf("ledger inconsistent: total balance %d, total entry amount %d",
			report.TotalBalance, report.TotalEntryAmount)
	}
}
