package gitlib_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"

	"github.com/drafnel/git-blame-stats/pkg/gitlib"
)

// testRepo wraps a libgit2 repository built on disk for a test.
type testRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &testRepo{t: t, path: dir, native: repo}
}

// createFile writes a file in the working directory.
func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	full := filepath.Join(tr.path, name)

	require.NoError(tr.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(tr.t, os.WriteFile(full, []byte(content), 0o644))
}

func (tr *testRepo) deleteFile(name string) {
	tr.t.Helper()

	require.NoError(tr.t, os.Remove(filepath.Join(tr.path, name)))
}

func (tr *testRepo) signature() *git2go.Signature {
	return &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}
}

// commit stages the working directory and commits it on HEAD.
func (tr *testRepo) commit(message string) gitlib.Hash {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	require.NoError(tr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(tr.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(tr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	return tr.commitTree(message, tree)
}

func (tr *testRepo) commitTree(message string, tree *git2go.Tree) gitlib.Hash {
	tr.t.Helper()

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	sig := tr.signature()

	oid, err := tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return gitlib.HashFromOid(oid)
}

// addSubmodule commits a gitlink named name on top of HEAD.
func (tr *testRepo) addSubmodule(name string, target gitlib.Hash) {
	tr.t.Helper()

	head, err := tr.native.Head()
	require.NoError(tr.t, err)

	defer head.Free()

	headCommit, err := tr.native.LookupCommit(head.Target())
	require.NoError(tr.t, err)

	defer headCommit.Free()

	headTree, err := headCommit.Tree()
	require.NoError(tr.t, err)

	defer headTree.Free()

	builder, err := tr.native.TreeBuilderFromTree(headTree)
	require.NoError(tr.t, err)

	defer builder.Free()

	oid, err := git2go.NewOid(target.String())
	require.NoError(tr.t, err)

	require.NoError(tr.t, builder.Insert(name, oid, git2go.FilemodeCommit))

	treeID, err := builder.Write()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	tr.commitTree("add submodule", tree)
}

func (tr *testRepo) tag(name string, target gitlib.Hash) {
	tr.t.Helper()

	oid, err := git2go.NewOid(target.String())
	require.NoError(tr.t, err)

	commit, err := tr.native.LookupCommit(oid)
	require.NoError(tr.t, err)

	defer commit.Free()

	_, err = tr.native.Tags.CreateLightweight(name, commit, false)
	require.NoError(tr.t, err)
}
