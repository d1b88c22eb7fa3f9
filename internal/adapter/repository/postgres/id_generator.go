package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID. ULIDs sort lexicographically by creation
// time, which keeps the entry ordering tiebreaker stable.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
