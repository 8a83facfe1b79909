package trustchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sebschrader/gpg-verify-update-hook/internal/gitobj"
	"github.com/sebschrader/gpg-verify-update-hook/internal/keyring"
)

// ErrNoKeyDirectory is returned when the configured key directory does not
// resolve to a directory entry in the consulted commit's tree.
var ErrNoKeyDirectory = errors.New("key directory not present in commit")

// Loader populates ephemeral keyrings from a commit's key directory.
type Loader struct {
	store  gitobj.Store
	engine keyring.Engine
}

// NewLoader creates a loader reading key material through store and
// importing it through engine.
func NewLoader(store gitobj.Store, engine keyring.Engine) *Loader {
	return &Loader{store: store, engine: engine}
}

// Load enumerates every blob transitively under dir in the commit's tree
// and imports each into a freshly created keyring. A blob that fails to
// import is logged and skipped; the rest are still processed.
//
// The caller owns the returned keyring and must Close it. On error no
// keyring is leaked.
func (l *Loader) Load(ctx context.Context, commit plumbing.Hash, dir string) (keyring.Keyring, error) {
	kind, err := l.store.KindAt(ctx, commit, dir)
	if err != nil {
		return nil, err
	}
	if kind != gitobj.EntryDir {
		return nil, fmt.Errorf("commit %s, path %q: %w", commit, dir, ErrNoKeyDirectory)
	}

	ring, err := l.engine.NewKeyring(ctx)
	if err != nil {
		return nil, fmt.Errorf("create keyring: %w", err)
	}

	paths, err := l.store.ListBlobs(ctx, commit, dir)
	if err != nil {
		ring.Close()
		return nil, err
	}

	for _, path := range paths {
		data, err := l.store.BlobBytes(ctx, commit, path)
		if err != nil {
			ring.Close()
			return nil, err
		}
		if err := ring.Import(ctx, data); err != nil {
			slog.Warn("skipping key blob that failed to import",
				"commit", commit.String(),
				"path", path,
				"error", err,
			)
			continue
		}
		slog.Debug("imported key material",
			"commit", commit.String(),
			"path", path,
		)
	}

	return ring, nil
}
