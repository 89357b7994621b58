package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator mints account, transaction, and entry ids. ULIDs sort by
// creation time, which keeps the id-ordered balance updates close to
// insertion order.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
