package testutil

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sebschrader/gpg-verify-update-hook/internal/gitobj"
)

// Hash derives a deterministic fake commit id from a seed string.
func Hash(seed string) plumbing.Hash {
	return plumbing.Hash(sha1.Sum([]byte(seed)))
}

// FakeCommit is one commit in the fake store.
type FakeCommit struct {
	Raw     []byte
	Parents []plumbing.Hash
	Blobs   map[string][]byte // path -> contents
}

// FakeStore is an in-memory gitobj.Store with a builder API.
type FakeStore struct {
	commits map[plumbing.Hash]*FakeCommit
	refs    map[string]plumbing.Hash

	// RawReads counts CommitRaw calls per commit, letting tests assert
	// which commits were actually examined.
	RawReads map[plumbing.Hash]int
}

// NewFakeStore returns an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		commits:  make(map[plumbing.Hash]*FakeCommit),
		refs:     make(map[string]plumbing.Hash),
		RawReads: make(map[plumbing.Hash]int),
	}
}

// AddCommit registers a commit with the given raw object bytes.
func (s *FakeStore) AddCommit(id plumbing.Hash, parents []plumbing.Hash, raw []byte) {
	s.commits[id] = &FakeCommit{
		Raw:     raw,
		Parents: parents,
		Blobs:   make(map[string][]byte),
	}
}

// AddBlob attaches a blob to a commit's tree at path.
func (s *FakeStore) AddBlob(commit plumbing.Hash, path string, data []byte) {
	s.commits[commit].Blobs[path] = data
}

// SetRef records a known reference.
func (s *FakeStore) SetRef(name string, id plumbing.Hash) {
	s.refs[name] = id
}

func (s *FakeStore) CommitRaw(ctx context.Context, id plumbing.Hash) ([]byte, error) {
	c, ok := s.commits[id]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", id)
	}
	s.RawReads[id]++
	return c.Raw, nil
}

func (s *FakeStore) Parents(ctx context.Context, id plumbing.Hash) ([]plumbing.Hash, error) {
	c, ok := s.commits[id]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", id)
	}
	return append([]plumbing.Hash(nil), c.Parents...), nil
}

func (s *FakeStore) KindAt(ctx context.Context, commit plumbing.Hash, path string) (gitobj.EntryKind, error) {
	c, ok := s.commits[commit]
	if !ok {
		return gitobj.EntryNone, fmt.Errorf("commit %s not found", commit)
	}
	if _, ok := c.Blobs[path]; ok {
		return gitobj.EntryBlob, nil
	}
	for p := range c.Blobs {
		if strings.HasPrefix(p, path+"/") {
			return gitobj.EntryDir, nil
		}
	}
	return gitobj.EntryNone, nil
}

func (s *FakeStore) ListBlobs(ctx context.Context, commit plumbing.Hash, dir string) ([]string, error) {
	c, ok := s.commits[commit]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", commit)
	}
	var paths []string
	for p := range c.Blobs {
		if strings.HasPrefix(p, dir+"/") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *FakeStore) BlobBytes(ctx context.Context, commit plumbing.Hash, path string) ([]byte, error) {
	c, ok := s.commits[commit]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", commit)
	}
	data, ok := c.Blobs[path]
	if !ok {
		return nil, fmt.Errorf("blob %q not found in commit %s", path, commit)
	}
	return data, nil
}

func (s *FakeStore) Refs(ctx context.Context) ([]gitobj.Ref, error) {
	var refs []gitobj.Ref
	for name, id := range s.refs {
		refs = append(refs, gitobj.Ref{Name: name, Hash: id})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// CommitObject renders raw commit-object bytes in git's serialization,
// embedding signature as a gpgsig header when non-empty.
func CommitObject(parents []plumbing.Hash, message, signature string) []byte {
	var b strings.Builder
	b.WriteString("tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n")
	for _, p := range parents {
		fmt.Fprintf(&b, "parent %s\n", p)
	}
	b.WriteString("author A U Thor <author@example.com> 1700000000 +0000\n")
	b.WriteString("committer A U Thor <author@example.com> 1700000000 +0000\n")
	if signature != "" {
		lines := strings.Split(signature, "\n")
		fmt.Fprintf(&b, "gpgsig %s\n", lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(&b, " %s\n", line)
		}
	}
	b.WriteString("\n")
	b.WriteString(message)
	b.WriteString("\n")
	return []byte(b.String())
}
