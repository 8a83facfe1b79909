package trustchain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sebschrader/gpg-verify-update-hook/internal/gitobj"
	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

// Attempt records the outcome of checking one parent's key set.
type Attempt struct {
	Parent  plumbing.Hash
	Verdict status.Verdict

	// MissingKeyID is set when the attempt failed because the signer's
	// key was not among the parent's committed keys.
	MissingKeyID string
}

// WalkResult aggregates the attempts made for one commit.
type WalkResult struct {
	// TrustedParent is the parent whose key set validated the
	// signature; zero unless Verified reports true.
	TrustedParent plumbing.Hash
	Attempts      []Attempt
}

// Verified reports whether any parent's key set validated the commit.
func (r WalkResult) Verified() bool {
	return r.TrustedParent != plumbing.ZeroHash
}

// Walker tries a commit's parents in recorded order until one of their key
// directories validates the signature (OR semantics).
type Walker struct {
	store  gitobj.Store
	loader *Loader
	tokens TokenGenerator
}

// NewWalker creates a walker loading key material via loader.
func NewWalker(store gitobj.Store, loader *Loader, tokens TokenGenerator) *Walker {
	return &Walker{store: store, loader: loader, tokens: tokens}
}

// Walk verifies (payload, signature) of commit against the key directory
// of each parent, in the given order, stopping at the first success. It
// returns the per-parent verdicts either way; errors are reserved for
// infrastructure failures, not failed verification.
func (w *Walker) Walk(ctx context.Context, commit plumbing.Hash, parents []plumbing.Hash, payload, signature []byte, keyDir string) (WalkResult, error) {
	var result WalkResult

	for i, parent := range parents {
		token := w.tokens.Generate()
		slog.Info("trying parent",
			"attempt", token,
			"commit", commit.String(),
			"parent", parent.String(),
			"ordinal", i+1,
		)

		res, err := w.tryParent(ctx, parent, payload, signature, keyDir)
		if err != nil {
			return result, err
		}

		attempt := Attempt{
			Parent:       parent,
			Verdict:      res.Verdict,
			MissingKeyID: res.MissingKeyID,
		}
		result.Attempts = append(result.Attempts, attempt)

		if res.Verdict == status.Verified {
			slog.Info("commit verified",
				"attempt", token,
				"commit", commit.String(),
				"parent", parent.String(),
				"signer", res.SignerIdentity,
				"key", res.SignerKeyID,
			)
			result.TrustedParent = parent
			return result, nil
		}

		slog.Info("parent attempt failed",
			"attempt", token,
			"commit", commit.String(),
			"parent", parent.String(),
			"verdict", res.Verdict.String(),
		)
	}

	return result, nil
}

// tryParent runs one isolated attempt: fresh keyring, verify, classify.
// The keyring is destroyed before returning on every path.
func (w *Walker) tryParent(ctx context.Context, parent plumbing.Hash, payload, signature []byte, keyDir string) (status.Result, error) {
	ring, err := w.loader.Load(ctx, parent, keyDir)
	if errors.Is(err, ErrNoKeyDirectory) {
		return status.Result{Verdict: status.NoKeyDirectory}, nil
	}
	if err != nil {
		return status.Result{}, err
	}
	defer ring.Close()

	events, err := ring.Verify(ctx, payload, signature)
	if err != nil {
		return status.Result{}, err
	}

	return status.Interpret(events), nil
}
