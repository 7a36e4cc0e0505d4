package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates the 26-character entity IDs stored in the
// VARCHAR(26) primary keys.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new lexicographically sortable ID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
