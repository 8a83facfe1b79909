package gitobj

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
)

// EntryKind classifies what a path resolves to inside a commit's tree.
type EntryKind int

const (
	// EntryNone means the path does not exist in the tree.
	EntryNone EntryKind = iota
	// EntryBlob means the path is a file entry.
	EntryBlob
	// EntryDir means the path is a directory (subtree) entry.
	EntryDir
)

// Ref is one known reference and the object it points at.
type Ref struct {
	Name string
	Hash plumbing.Hash
}

// Store is the object-database query interface consumed by the trust
// chain. Implementations must be deterministic: repeated calls with the
// same repository state return identical results in identical order.
type Store interface {
	// CommitRaw returns the raw serialized bytes of a commit object,
	// exactly as "git cat-file commit" would print them.
	CommitRaw(ctx context.Context, id plumbing.Hash) ([]byte, error)

	// Parents returns the commit's parent ids in recorded order.
	Parents(ctx context.Context, id plumbing.Hash) ([]plumbing.Hash, error)

	// KindAt reports what kind of entry path resolves to within the
	// commit's tree. A missing path is (EntryNone, nil), not an error.
	KindAt(ctx context.Context, commit plumbing.Hash, path string) (EntryKind, error)

	// ListBlobs returns the paths of all file entries transitively under
	// dir within the commit's tree, in lexical order.
	ListBlobs(ctx context.Context, commit plumbing.Hash, dir string) ([]string, error)

	// BlobBytes returns the contents of the blob at path within the
	// commit's tree.
	BlobBytes(ctx context.Context, commit plumbing.Hash, path string) ([]byte, error)

	// Refs returns all known hash references, sorted by name.
	Refs(ctx context.Context) ([]Ref, error)
}
