package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krzysztofcal/chipledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency sums all account balances and all entry amounts. Both
// must be zero on a consistent ledger.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalBalance, totalEntryAmount int64, err error) {
	q := generated.New(r.pool)

	result, err := q.CheckLedgerConsistency(ctx)
	if err != nil {
		return 0, 0, err
	}

	return result.TotalBalance, result.TotalEntryAmount, nil
}
