// Package idgen provides identifier generators for comments and replies.
package idgen

import (
	"github.com/google/uuid"

	"github.com/runoshun/crew-talk/internal/domain"
)

// UUIDGenerator returns time-ordered UUIDv7 identifiers with an optional prefix.
type UUIDGenerator struct {
	Prefix string
}

// New creates a UUIDGenerator with the given prefix.
func New(prefix string) *UUIDGenerator {
	return &UUIDGenerator{Prefix: prefix}
}

// NewID returns a new identifier.
// It falls back to a random UUID if the v7 clock source fails.
func (g *UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return g.Prefix + id.String()
}

// Ensure UUIDGenerator implements IDGenerator.
var _ domain.IDGenerator = (*UUIDGenerator)(nil)
