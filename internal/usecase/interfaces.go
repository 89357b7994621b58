package usecase

import (
	"context"
	"time"

	"github.com/krzysztofcal/chipledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByKey(ctx context.Context, key string) (*domain.Account, error)
	// ResolveByKey creates the account if absent and returns it without a
	// row lock. Used for SYSTEM and ESCROW accounts.
	ResolveByKey(ctx context.Context, tx Transaction, kind domain.AccountKind, key, newID string, allowNegative bool) (*domain.Account, error)
	// ResolveUserForUpdate creates the user account if absent and returns
	// it locked FOR UPDATE for the duration of the transaction.
	ResolveUserForUpdate(ctx context.Context, tx Transaction, userID, newID string) (*domain.Account, error)
	// ApplyDelta applies one guarded balance change and advances the
	// account's entry sequence. It fails with ErrBalanceGuardFailed when
	// the guard refuses the row.
	ApplyDelta(ctx context.Context, tx Transaction, input ApplyDeltaInput) (*AppliedDelta, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// ApplyDeltaInput is one account's balance change within a transaction.
type ApplyDeltaInput struct {
	AccountID  string
	Delta      int64
	EntryCount int64
	UpdatedAt  time.Time
}

// AppliedDelta reports the account state after a guarded update.
type AppliedDelta struct {
	AccountID string
	Balance   int64
	EntrySeq  int64
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	// CreateOrGet inserts the transaction or, when its idempotency key
	// already exists, returns the original row. The second result is true
	// when the row was created by this call.
	CreateOrGet(ctx context.Context, tx Transaction, txn *domain.Transaction) (*domain.Transaction, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalEntryAmount int64, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient database errors. Operations
// must be safe to retry; PostTransaction is, through its idempotency key.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// LedgerPoster is the narrow ledger surface the settlement layer posts
// through.
type LedgerPoster interface {
	PostTransaction(ctx context.Context, input PostTransactionInput) (*PostTransactionResult, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles response replay storage for the HTTP adapter.
// This is best-effort only; the authoritative idempotency lives in the
// ledger's unique constraint.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
