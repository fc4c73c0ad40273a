package gitlib

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrRevisionNotFound is returned when a revision does not name a commit.
var ErrRevisionNotFound = errors.New("revision not found")

// DefaultRevision is resolved when no revision is given.
const DefaultRevision = "HEAD"

// Repository wraps a libgit2 repository.
// It is not safe for concurrent use; callers keep it on one OS thread.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens the git repository at path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the path the repository was opened with.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// ResolveCommit resolves a revision expression (HEAD, a branch, a tag, a
// hash prefix, main~2 ...) and peels it to a commit. Tags are followed.
func (r *Repository) ResolveCommit(revision string) (*Commit, error) {
	if revision == "" {
		revision = DefaultRevision
	}

	obj, err := r.repo.RevparseSingle(revision)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRevisionNotFound, revision, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a commit: %w", ErrRevisionNotFound, revision, err)
	}
	defer peeled.Free()

	commit, err := peeled.AsCommit()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRevisionNotFound, revision, err)
	}

	return &Commit{commit: commit}, nil
}

// LookupTree returns the tree with the given hash.
func (r *Repository) LookupTree(hash Hash) (*Tree, error) {
	tree, err := r.repo.LookupTree(hash.toOid())
	if err != nil {
		return nil, fmt.Errorf("lookup tree: %w", err)
	}

	return &Tree{tree: tree}, nil
}

// Commit wraps a libgit2 commit.
type Commit struct {
	commit *git2go.Commit
}

// Hash returns the commit hash.
func (c *Commit) Hash() Hash {
	return HashFromOid(c.commit.Id())
}

// Tree returns the root tree of the commit.
func (c *Commit) Tree() (*Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get commit tree: %w", err)
	}

	return &Tree{tree: tree}, nil
}

// Free releases the commit resources.
func (c *Commit) Free() {
	if c.commit != nil {
		c.commit.Free()
		c.commit = nil
	}
}
