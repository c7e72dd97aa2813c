package postgres

import "github.com/oklog/ulid/v2"

// ULIDGenerator issues lexicographically sortable ledger entry IDs, so the
// insertion order of entries is recoverable from the ID alone.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a fresh ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
