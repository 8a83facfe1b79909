package trustchain

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschrader/gpg-verify-update-hook/internal/testutil"
)

func newGateFixture(store *testutil.FakeStore, engine *testutil.FakeEngine) *Gate {
	return &Gate{
		store:  store,
		walker: newWalker(store, engine),
		keyDir: "keys",
	}
}

// chainStore builds base <- c1 <- c2, with base carrying the key
// directory and both descendants signed.
func chainStore(t *testing.T) (*testutil.FakeStore, *testutil.FakeEngine, []plumbing.Hash) {
	t.Helper()
	store := testutil.NewFakeStore()
	base := testutil.Hash("base")
	c1 := testutil.Hash("c1")
	c2 := testutil.Hash("c2")

	store.AddCommit(base, nil, testutil.CommitObject(nil, "base", ""))
	store.AddCommit(c1, []plumbing.Hash{base}, testutil.CommitObject([]plumbing.Hash{base}, "c1", "SIG"))
	store.AddCommit(c2, []plumbing.Hash{c1}, testutil.CommitObject([]plumbing.Hash{c1}, "c2", "SIG"))
	store.AddBlob(base, "keys/dev.asc", []byte("KEY-DEV"))
	store.AddBlob(c1, "keys/dev.asc", []byte("KEY-DEV"))

	engine := testutil.NewFakeEngine()
	engine.Accept["KEY-DEV"] = "SIG\n"
	return store, engine, []plumbing.Hash{base, c1, c2}
}

func TestGate_LinearChainAccepted(t *testing.T) {
	store, engine, chain := chainStore(t)
	base, c1, c2 := chain[0], chain[1], chain[2]

	gate := newGateFixture(store, engine)
	report, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/main", Old: base, New: c2,
	})
	require.NoError(t, err)

	// Ancestors first.
	require.Len(t, report.Commits, 2)
	assert.Equal(t, c1, report.Commits[0].Commit)
	assert.Equal(t, base, report.Commits[0].TrustedParent)
	assert.Equal(t, c2, report.Commits[1].Commit)
	assert.Equal(t, c1, report.Commits[1].TrustedParent)
}

func TestGate_UnsignedCommitStopsEvaluation(t *testing.T) {
	store := testutil.NewFakeStore()
	base := testutil.Hash("base")
	c1 := testutil.Hash("c1")
	c2 := testutil.Hash("c2")
	c3 := testutil.Hash("c3")

	store.AddCommit(base, nil, testutil.CommitObject(nil, "base", ""))
	store.AddCommit(c1, []plumbing.Hash{base}, testutil.CommitObject([]plumbing.Hash{base}, "c1", "SIG"))
	store.AddCommit(c2, []plumbing.Hash{c1}, testutil.CommitObject([]plumbing.Hash{c1}, "c2", ""))
	store.AddCommit(c3, []plumbing.Hash{c2}, testutil.CommitObject([]plumbing.Hash{c2}, "c3", "SIG"))
	store.AddBlob(base, "keys/dev.asc", []byte("KEY-DEV"))
	store.AddBlob(c1, "keys/dev.asc", []byte("KEY-DEV"))
	store.AddBlob(c2, "keys/dev.asc", []byte("KEY-DEV"))

	engine := testutil.NewFakeEngine()
	engine.Accept["KEY-DEV"] = "SIG\n"

	gate := newGateFixture(store, engine)
	report, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/main", Old: base, New: c3,
	})

	verr, ok := AsVerifyError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoSignature, verr.Code)
	assert.Equal(t, c2, verr.Commit)

	// The commit above the failure was never even read.
	assert.Equal(t, 1, store.RawReads[c1])
	assert.Zero(t, store.RawReads[c3])

	// Only the commit that passed before the failure is reported.
	require.Len(t, report.Commits, 1)
	assert.Equal(t, c1, report.Commits[0].Commit)
}

func TestGate_UnverifiableCommitRejected(t *testing.T) {
	store := testutil.NewFakeStore()
	base := testutil.Hash("base")
	rogue := testutil.Hash("rogue")

	store.AddCommit(base, nil, testutil.CommitObject(nil, "base", ""))
	store.AddCommit(rogue, []plumbing.Hash{base}, testutil.CommitObject([]plumbing.Hash{base}, "rogue", "ROGUE-SIG"))
	store.AddBlob(base, "keys/dev.asc", []byte("KEY-DEV"))

	engine := testutil.NewFakeEngine()
	engine.Accept["KEY-DEV"] = "SIG\n"

	gate := newGateFixture(store, engine)
	report, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/main", Old: base, New: rogue,
	})

	verr, ok := AsVerifyError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnverifiable, verr.Code)
	assert.Equal(t, rogue, verr.Commit)
	require.Len(t, verr.Attempts, 1)

	// The failing commit still appears in the report with its attempts.
	require.Len(t, report.Commits, 1)
	assert.Equal(t, plumbing.ZeroHash, report.Commits[0].TrustedParent)
}

func TestGate_RootCommitRejected(t *testing.T) {
	store := testutil.NewFakeStore()
	root := testutil.Hash("root")
	store.AddCommit(root, nil, testutil.CommitObject(nil, "root", "SIG"))

	gate := newGateFixture(store, testutil.NewFakeEngine())
	_, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/main", Old: plumbing.ZeroHash, New: root,
	})

	verr, ok := AsVerifyError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoParents, verr.Code)
	assert.Equal(t, root, verr.Commit)
}

func TestGate_DeletionAccepted(t *testing.T) {
	store := testutil.NewFakeStore()
	gate := newGateFixture(store, testutil.NewFakeEngine())

	report, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/gone", Old: testutil.Hash("tip"), New: plumbing.ZeroHash,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Commits)
}

func TestGate_CreatedRefExcludesOtherRefs(t *testing.T) {
	// A branch creation with a zero old value must not re-verify history
	// already reachable from the repository's other references.
	store, engine, chain := chainStore(t)
	base, c1, c2 := chain[0], chain[1], chain[2]
	store.SetRef("refs/heads/main", c1)

	gate := newGateFixture(store, engine)
	report, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/feature", Old: plumbing.ZeroHash, New: c2,
	})
	require.NoError(t, err)

	require.Len(t, report.Commits, 1)
	assert.Equal(t, c2, report.Commits[0].Commit)
	assert.Zero(t, store.RawReads[base])
	assert.Zero(t, store.RawReads[c1])
}

func TestGate_CreatedRefWithNoOtherRefsWalksToRoot(t *testing.T) {
	store, engine, chain := chainStore(t)
	root := chain[0]

	gate := newGateFixture(store, engine)
	_, err := gate.VerifyUpdate(context.Background(), RefUpdate{
		Name: "refs/heads/main", Old: plumbing.ZeroHash, New: chain[2],
	})

	// With nothing to exclude, the walk reaches the unsigned base
	// commit and the push is rejected there.
	verr, ok := AsVerifyError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoSignature, verr.Code)
	assert.Equal(t, root, verr.Commit)
}

func TestGate_EvaluationIsRepeatable(t *testing.T) {
	store, engine, chain := chainStore(t)
	base, c2 := chain[0], chain[2]

	gate := newGateFixture(store, engine)
	update := RefUpdate{Name: "refs/heads/main", Old: base, New: c2}

	first, err := gate.VerifyUpdate(context.Background(), update)
	require.NoError(t, err)
	second, err := gate.VerifyUpdate(context.Background(), update)
	require.NoError(t, err)

	assert.Equal(t, first.Commits, second.Commits)
}
