package gitlib

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"strings"
)

// Enumerator lists the files tracked at a revision of a repository on disk.
// Each call opens its own libgit2 handle, so one Enumerator may serve
// concurrent runs.
type Enumerator struct {
	path string
}

// NewEnumerator returns an Enumerator for the repository at repoPath.
func NewEnumerator(repoPath string) *Enumerator {
	return &Enumerator{path: repoPath}
}

// Enumerate resolves revision to a commit and calls fn with the path of
// every blob in its tree, depth first. Submodules are skipped. A non-empty
// scope keeps only paths equal to or below one of its entries. Enumeration
// stops at the first error from fn or at context cancellation.
func (e *Enumerator) Enumerate(ctx context.Context, revision string, scope []string, fn func(path string) error) error {
	// libgit2 state is per thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	repo, err := OpenRepository(e.path)
	if err != nil {
		return err
	}
	defer repo.Free()

	commit, err := repo.ResolveCommit(revision)
	if err != nil {
		return err
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return err
	}
	defer tree.Free()

	w := &walker{ctx: ctx, repo: repo, scope: newPathScope(scope), fn: fn}

	return w.walk(tree, "")
}

type walker struct {
	ctx   context.Context //nolint:containedctx // lives for one Enumerate call.
	repo  *Repository
	scope pathScope
	fn    func(path string) error
}

func (w *walker) walk(tree *Tree, prefix string) error {
	count := tree.EntryCount()

	for i := range count {
		entry := tree.EntryByIndex(i)
		if entry == nil {
			continue
		}

		err := w.visit(entry, prefix)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) visit(entry *TreeEntry, prefix string) error {
	name := entry.Name()
	if prefix != "" {
		name = prefix + "/" + name
	}

	switch {
	case entry.IsBlob():
		if !w.scope.contains(name) {
			return nil
		}

		err := w.ctx.Err()
		if err != nil {
			return err
		}

		return w.fn(name)
	case entry.IsTree():
		if !w.scope.reaches(name) {
			return nil
		}

		subtree, err := w.repo.LookupTree(entry.Hash())
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		defer subtree.Free()

		return w.walk(subtree, name)
	default:
		// Submodule gitlinks have no blame of their own.
		return nil
	}
}

// pathScope is a set of repository-relative path prefixes. The empty scope
// contains every path.
type pathScope []string

func newPathScope(entries []string) pathScope {
	scope := make(pathScope, 0, len(entries))

	for _, entry := range entries {
		cleaned := path.Clean(strings.Trim(entry, "/"))
		if cleaned == "." {
			return nil
		}

		scope = append(scope, cleaned)
	}

	return scope
}

// contains reports whether p is equal to or below a scope entry.
func (s pathScope) contains(p string) bool {
	if len(s) == 0 {
		return true
	}

	for _, prefix := range s {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}

	return false
}

// reaches reports whether directory dir may hold paths in scope.
func (s pathScope) reaches(dir string) bool {
	if s.contains(dir) {
		return true
	}

	for _, prefix := range s {
		if strings.HasPrefix(prefix, dir+"/") {
			return true
		}
	}

	return false
}
