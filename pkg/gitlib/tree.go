package gitlib

import (
	git2go "github.com/libgit2/git2go/v34"
)

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
}

// Hash returns the tree hash.
func (t *Tree) Hash() Hash {
	return HashFromOid(t.tree.Id())
}

// EntryCount returns the number of entries in the tree.
func (t *Tree) EntryCount() uint64 {
	return t.tree.EntryCount()
}

// EntryByIndex returns the tree entry at the given index, or nil.
func (t *Tree) EntryByIndex(i uint64) *TreeEntry {
	entry := t.tree.EntryByIndex(i)
	if entry == nil {
		return nil
	}

	return &TreeEntry{entry: entry}
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}

// TreeEntry wraps a libgit2 tree entry.
type TreeEntry struct {
	entry *git2go.TreeEntry
}

// Name returns the entry name.
func (e *TreeEntry) Name() string {
	return e.entry.Name
}

// Hash returns the entry object hash.
func (e *TreeEntry) Hash() Hash {
	return HashFromOid(e.entry.Id)
}

// IsBlob reports whether the entry is a file (regular, executable or symlink).
func (e *TreeEntry) IsBlob() bool {
	return e.entry.Type == git2go.ObjectBlob
}

// IsTree reports whether the entry is a subdirectory.
func (e *TreeEntry) IsTree() bool {
	return e.entry.Type == git2go.ObjectTree
}

// IsSubmodule reports whether the entry is a gitlink.
func (e *TreeEntry) IsSubmodule() bool {
	return e.entry.Type == git2go.ObjectCommit
}
