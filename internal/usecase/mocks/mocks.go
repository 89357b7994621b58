package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// NopTransaction is a no-op database transaction for unit tests.
type NopTransaction struct{}

func (NopTransaction) Commit(ctx context.Context) error   { return nil }
func (NopTransaction) Rollback(ctx context.Context) error { return nil }

// NopTxManager hands out no-op transactions.
type NopTxManager struct{}

func (NopTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return NopTransaction{}, nil
}

// SeqIDGenerator generates deterministic sequential ids.
type SeqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *SeqIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++

	const digits = "0123456789"
	id := ""
	for n := g.next; n > 0; n /= 10 {
		id = string(digits[n%10]) + id
	}

	return "id-" + id
}

// PassRetrier runs the operation once without retrying.
type PassRetrier struct{}

func (PassRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MemoryLedger is an in-memory implementation of the account, transaction,
// entry, and ledger repositories for unit tests. It applies changes
// immediately and does not model rollback, so failure-path tests should
// assert on errors raised before the first write.
type MemoryLedger struct {
	mu            sync.Mutex
	accountsByID  map[string]*domain.Account
	accountsByKey map[string]*domain.Account
	txnsByID      map[string]*domain.Transaction
	txnsByKey     map[string]*domain.Transaction
	entries       []*domain.Entry
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accountsByID:  make(map[string]*domain.Account),
		accountsByKey: make(map[string]*domain.Account),
		txnsByID:      make(map[string]*domain.Transaction),
		txnsByKey:     make(map[string]*domain.Transaction),
	}
}

// SeedAccount inserts an account with the given balance.
func (l *MemoryLedger) SeedAccount(account *domain.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accountsByID[account.ID] = account
	l.accountsByKey[account.Key] = account
}

func (l *MemoryLedger) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accountsByID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	copied := *account
	return &copied, nil
}

func (l *MemoryLedger) GetByKey(ctx context.Context, key string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accountsByKey[key]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	copied := *account
	return &copied, nil
}

func (l *MemoryLedger) ResolveByKey(ctx context.Context, tx usecase.Transaction, kind domain.AccountKind, key, newID string, allowNegative bool) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.resolveLocked(kind, key, newID, allowNegative), nil
}

func (l *MemoryLedger) ResolveUserForUpdate(ctx context.Context, tx usecase.Transaction, userID, newID string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.resolveLocked(domain.AccountKindUser, domain.UserKey(userID), newID, false), nil
}

func (l *MemoryLedger) resolveLocked(kind domain.AccountKind, key, newID string, allowNegative bool) *domain.Account {
	if account, ok := l.accountsByKey[key]; ok {
		copied := *account
		return &copied
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:            newID,
		Kind:          kind,
		Key:           key,
		Status:        domain.AccountStatusActive,
		AllowNegative: allowNegative,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.accountsByID[newID] = account
	l.accountsByKey[key] = account

	copied := *account
	return &copied
}

func (l *MemoryLedger) ApplyDelta(ctx context.Context, tx usecase.Transaction, input usecase.ApplyDeltaInput) (*usecase.AppliedDelta, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accountsByID[input.AccountID]
	if !ok {
		return nil, domain.ErrBalanceGuardFailed
	}

	if input.Delta < 0 && !account.AllowNegative && account.Balance+input.Delta < 0 {
		return nil, domain.ErrBalanceGuardFailed
	}

	account.Balance += input.Delta
	account.EntrySeq += input.EntryCount
	account.UpdatedAt = input.UpdatedAt

	return &usecase.AppliedDelta{
		AccountID: account.ID,
		Balance:   account.Balance,
		EntrySeq:  account.EntrySeq,
	}, nil
}

func (l *MemoryLedger) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts := make([]*domain.Account, 0, len(l.accountsByID))
	for _, account := range l.accountsByID {
		copied := *account
		accounts = append(accounts, &copied)
	}

	return accounts, nil
}

// Transactions returns the ledger viewed as a TransactionRepository. The
// account and transaction repositories both expose GetByID, so the
// transaction side lives behind its own type.
func (l *MemoryLedger) Transactions() TransactionStore {
	return TransactionStore{l}
}

// TransactionStore adapts MemoryLedger to the TransactionRepository
// interface.
type TransactionStore struct {
	*MemoryLedger
}

func (s TransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.GetTransactionByID(ctx, id)
}

func (l *MemoryLedger) CreateOrGet(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (*domain.Transaction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.txnsByKey[txn.IdempotencyKey]; ok {
		copied := *existing
		return &copied, false, nil
	}

	copied := *txn
	l.txnsByID[txn.ID] = &copied
	l.txnsByKey[txn.IdempotencyKey] = &copied

	result := copied
	return &result, true, nil
}

func (l *MemoryLedger) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	txn, ok := l.txnsByID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	copied := *txn
	return &copied, nil
}

func (l *MemoryLedger) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	txn, ok := l.txnsByKey[key]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	copied := *txn
	return &copied, nil
}

func (l *MemoryLedger) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := *entry
	l.entries = append(l.entries, &copied)

	return nil
}

func (l *MemoryLedger) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []*domain.Entry
	for _, entry := range l.entries {
		if entry.TransactionID == transactionID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}

	return entries, nil
}

func (l *MemoryLedger) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []*domain.Entry
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].AccountID == accountID {
			copied := *l.entries[i]
			entries = append(entries, &copied)
		}
	}

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]

	if limit < len(entries) {
		entries = entries[:limit]
	}

	return entries, nil
}

func (l *MemoryLedger) CheckConsistency(ctx context.Context) (int64, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var totalBalance, totalEntryAmount int64

	for _, account := range l.accountsByID {
		totalBalance += account.Balance
	}
	for _, entry := range l.entries {
		totalEntryAmount += entry.Amount
	}

	return totalBalance, totalEntryAmount, nil
}
