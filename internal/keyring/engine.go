package keyring

import (
	"context"

	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

// Keyring is an ephemeral, attempt-scoped trust store.
//
// The attempt that created a keyring owns it exclusively; it is never
// reused across attempts or commits. Close must be called on every exit
// path and must be safe to call more than once.
type Keyring interface {
	// Import adds one piece of exported key material to the store.
	Import(ctx context.Context, key []byte) error

	// Verify checks signature over payload using only the keys imported
	// into this keyring, and returns the resulting status events. A
	// failed verification is not an error: the classification travels
	// in the events. An error means verification could not be invoked.
	Verify(ctx context.Context, payload, signature []byte) ([]status.Event, error)

	// Close discards the store and releases its resources.
	Close() error
}

// Engine creates isolated keyrings.
type Engine interface {
	NewKeyring(ctx context.Context) (Keyring, error)
}
