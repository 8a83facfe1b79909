package gitobj

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository adapts a go-git repository to the Store interface.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository at gitDir. The directory may be a bare
// repository or a worktree's .git directory, as handed to an update hook
// via $GIT_DIR.
func Open(gitDir string) (*Repository, error) {
	repo, err := git.PlainOpen(gitDir)
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", gitDir, err)
	}
	return &Repository{repo: repo}, nil
}

// NewRepository wraps an already opened go-git repository.
func NewRepository(repo *git.Repository) *Repository {
	return &Repository{repo: repo}
}

func (r *Repository) CommitRaw(ctx context.Context, id plumbing.Hash) ([]byte, error) {
	obj, err := r.repo.Storer.EncodedObject(plumbing.CommitObject, id)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	rd, err := obj.Reader()
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	defer rd.Close()
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	return raw, nil
}

func (r *Repository) Parents(ctx context.Context, id plumbing.Hash) ([]plumbing.Hash, error) {
	commit, err := object.GetCommit(r.repo.Storer, id)
	if err != nil {
		return nil, fmt.Errorf("resolve commit %s: %w", id, err)
	}
	return append([]plumbing.Hash(nil), commit.ParentHashes...), nil
}

func (r *Repository) KindAt(ctx context.Context, commit plumbing.Hash, p string) (EntryKind, error) {
	tree, err := r.treeOf(commit)
	if err != nil {
		return EntryNone, err
	}
	entry, err := tree.FindEntry(p)
	if err != nil {
		if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return EntryNone, nil
		}
		return EntryNone, fmt.Errorf("resolve %q in commit %s: %w", p, commit, err)
	}
	if entry.Mode == filemode.Dir {
		return EntryDir, nil
	}
	return EntryBlob, nil
}

func (r *Repository) ListBlobs(ctx context.Context, commit plumbing.Hash, dir string) ([]string, error) {
	tree, err := r.treeOf(commit)
	if err != nil {
		return nil, err
	}
	sub, err := tree.Tree(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory %q in commit %s: %w", dir, commit, err)
	}

	walker := object.NewTreeWalker(sub, true, nil)
	defer walker.Close()

	var paths []string
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walk %q in commit %s: %w", dir, commit, err)
		}
		if entry.Mode.IsFile() {
			paths = append(paths, path.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Repository) BlobBytes(ctx context.Context, commit plumbing.Hash, p string) ([]byte, error) {
	c, err := object.GetCommit(r.repo.Storer, commit)
	if err != nil {
		return nil, fmt.Errorf("resolve commit %s: %w", commit, err)
	}
	file, err := c.File(p)
	if err != nil {
		return nil, fmt.Errorf("read blob %q in commit %s: %w", p, commit, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read blob %q in commit %s: %w", p, commit, err)
	}
	return []byte(contents), nil
}

func (r *Repository) Refs(ctx context.Context) ([]Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("enumerate references: %w", err)
	}
	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		refs = append(refs, Ref{Name: ref.Name().String(), Hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate references: %w", err)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (r *Repository) treeOf(commit plumbing.Hash) (*object.Tree, error) {
	c, err := object.GetCommit(r.repo.Storer, commit)
	if err != nil {
		return nil, fmt.Errorf("resolve commit %s: %w", commit, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve tree of commit %s: %w", commit, err)
	}
	return tree, nil
}
