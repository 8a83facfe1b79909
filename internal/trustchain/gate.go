package trustchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sebschrader/gpg-verify-update-hook/internal/gitobj"
	"github.com/sebschrader/gpg-verify-update-hook/internal/keyring"
	"github.com/sebschrader/gpg-verify-update-hook/internal/sigblock"
)

// RefUpdate is the (name, old, new) triple git hands an update hook.
// plumbing.ZeroHash is the distinguished "no such value": a zero Old means
// the reference is being created, a zero New means it is being deleted.
type RefUpdate struct {
	Name string
	Old  plumbing.Hash
	New  plumbing.Hash
}

// Gate evaluates one reference update against the chain of trust.
//
// The push is all-or-nothing: the first commit in the introduced range
// that cannot be verified rejects the whole update, and no later commit is
// evaluated.
type Gate struct {
	store  gitobj.Store
	walker *Walker
	keyDir string
}

// NewGate wires a gate over store, verifying with engine and reading key
// material from opts.KeyDir.
func NewGate(store gitobj.Store, engine keyring.Engine, opts gitobj.Options, tokens TokenGenerator) *Gate {
	loader := NewLoader(store, engine)
	return &Gate{
		store:  store,
		walker: NewWalker(store, loader, tokens),
		keyDir: opts.KeyDir,
	}
}

// VerifyUpdate computes the commit range the update introduces and drives
// the walker over each commit. The returned report covers every commit
// evaluated before the first failure; err is nil exactly when the push is
// acceptable.
func (g *Gate) VerifyUpdate(ctx context.Context, ref RefUpdate) (*Report, error) {
	report := &Report{Ref: ref}

	// Deleting a reference introduces nothing.
	if ref.New == plumbing.ZeroHash {
		slog.Info("reference deletion, nothing to verify", "ref", ref.Name)
		return report, nil
	}

	exclude, err := g.exclusionHeads(ctx, ref)
	if err != nil {
		return report, err
	}

	commits, err := g.commitRange(ctx, ref.New, exclude)
	if err != nil {
		return report, err
	}
	slog.Info("computed commit range",
		"ref", ref.Name,
		"commits", len(commits),
	)

	for _, id := range commits {
		cr, err := g.verifyCommit(ctx, id)
		if cr != nil {
			report.Commits = append(report.Commits, *cr)
		}
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// verifyCommit gates a single commit: it must have at least one parent and
// an embedded signature, and some parent's key set must validate it.
func (g *Gate) verifyCommit(ctx context.Context, id plumbing.Hash) (*CommitReport, error) {
	raw, err := g.store.CommitRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, signature, err := sigblock.Extract(raw)
	if errors.Is(err, sigblock.ErrNoSignature) {
		return nil, &VerifyError{Code: ErrCodeNoSignature, Commit: id}
	}
	if err != nil {
		return nil, err
	}

	parents, err := g.store.Parents(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		// The root of the chain of trust is trusted by convention and
		// must already be present; a pushed parentless commit has no
		// ancestor key directory to validate against.
		return nil, &VerifyError{Code: ErrCodeNoParents, Commit: id}
	}

	result, err := g.walker.Walk(ctx, id, parents, payload, signature, g.keyDir)
	if err != nil {
		return nil, err
	}

	cr := &CommitReport{
		Commit:        id,
		TrustedParent: result.TrustedParent,
		Attempts:      result.Attempts,
	}
	if !result.Verified() {
		return cr, &VerifyError{Code: ErrCodeUnverifiable, Commit: id, Attempts: result.Attempts}
	}
	return cr, nil
}

// exclusionHeads returns the reference values whose ancestries are already
// known. For an updated reference that is exactly the old value; for a
// created reference it is every other reference known at the start of the
// evaluation (snapshot taken once, not re-read mid-traversal).
func (g *Gate) exclusionHeads(ctx context.Context, ref RefUpdate) ([]plumbing.Hash, error) {
	if ref.Old != plumbing.ZeroHash {
		return []plumbing.Hash{ref.Old}, nil
	}

	refs, err := g.store.Refs(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot known refs: %w", err)
	}
	var heads []plumbing.Hash
	for _, known := range refs {
		if known.Name == ref.Name {
			continue
		}
		heads = append(heads, known.Hash)
	}
	return heads, nil
}

// commitRange returns the commits reachable from tip but not from any
// exclusion head. The breadth-first walk from the tip is reversed so
// ancestors are verified before their descendants; the order is
// deterministic for a given input so retries are reproducible.
func (g *Gate) commitRange(ctx context.Context, tip plumbing.Hash, exclude []plumbing.Hash) ([]plumbing.Hash, error) {
	excluded := make(map[plumbing.Hash]bool)

	// Mark everything reachable from the exclusion heads. A head that
	// does not resolve to a commit (an annotated tag, a reference into
	// truncated history) only narrows the exclusion, so it is skipped
	// with a warning rather than failing the push.
	queue := append([]plumbing.Hash(nil), exclude...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if excluded[id] {
			continue
		}
		excluded[id] = true

		parents, err := g.store.Parents(ctx, id)
		if err != nil {
			slog.Warn("skipping unresolvable exclusion head",
				"id", id.String(),
				"error", err,
			)
			continue
		}
		queue = append(queue, parents...)
	}

	var commits []plumbing.Hash
	seen := make(map[plumbing.Hash]bool)
	queue = []plumbing.Hash{tip}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] || excluded[id] {
			continue
		}
		seen[id] = true
		commits = append(commits, id)

		parents, err := g.store.Parents(ctx, id)
		if err != nil {
			return nil, err
		}
		queue = append(queue, parents...)
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}
