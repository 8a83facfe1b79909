package trustchain

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces attempt tokens used to correlate log lines for
// one (commit, parent) verification attempt.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 attempt tokens.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for deterministic tests.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order and
// panics when exhausted, to fail fast on test misconfiguration.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
