package ownership //nolint:testpackage // testing internal implementation.

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drafnel/git-blame-stats/pkg/blame"
)

func twoFileSource() *fakeSource {
	return newFakeSource().
		with("a.txt", hunk{commitC1, "alice", 3}).
		with("b.txt", hunk{commitC1, "alice", 2}, hunk{commitC2, "bob", 1})
}

func TestPool_TwoFilesTwoWorkers(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt", "b.txt"}}, twoFileSource(), PoolConfig{Workers: 2})
	require.NoError(t, err)

	got, stats, err := pool.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, AuthorMap{
		"alice": {"a.txt": 3, "b.txt": 2},
		"bob":   {"b.txt": 1},
	}, got)
	assert.Equal(t, map[string]int{"alice": 5, "bob": 1}, AuthorTotals(got))
	assert.Equal(t, 6, GrandTotal(got))

	assert.Equal(t, 2, stats.Workers)
	assert.Equal(t, 2, stats.Queued)
	assert.Equal(t, 2, stats.Attributed)
	assert.Equal(t, 3, stats.Records)
	assert.Zero(t, stats.Excluded)
	assert.Len(t, stats.PerWorker, 2)
}

func TestPool_ResultIndependentOfWorkerCount(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	paths := make([]string, 0, 40)

	for i := range 40 {
		path := fmt.Sprintf("dir/file%02d.go", i)
		paths = append(paths, path)
		src.with(path,
			hunk{commitC1, "alice", i%3 + 1},
			hunk{commitC2, "bob", i%5 + 1},
			hunk{commitC1, "alice", 1},
		)
	}

	var reference AuthorMap

	for _, workers := range []int{1, 2, 3, 8, 64} {
		pool, err := NewPool(&fakeEnumerator{paths: paths}, src, PoolConfig{Workers: workers})
		require.NoError(t, err)

		got, stats, err := pool.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 40, stats.Attributed, "workers=%d", workers)

		if reference == nil {
			reference = got

			continue
		}

		assert.Equal(t, reference, got, "workers=%d", workers)
	}
}

func TestPool_ZeroFiles(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(&fakeEnumerator{}, newFakeSource(), PoolConfig{Workers: 4})
	require.NoError(t, err)

	got, stats, err := pool.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Zero(t, GrandTotal(got))
	assert.Zero(t, stats.Attributed)
}

func TestPool_FilterSkipsExcludedPaths(t *testing.T) {
	t.Parallel()

	src := twoFileSource()

	filter, err := NewFilter(`^b\.txt$`, false)
	require.NoError(t, err)

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt", "b.txt"}}, src, PoolConfig{Workers: 2, Filter: filter})
	require.NoError(t, err)

	got, stats, err := pool.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, AuthorMap{"alice": {"a.txt": 3}}, got)
	assert.Equal(t, []string{"a.txt"}, src.openedPaths())
	assert.Equal(t, 1, stats.Queued)
	assert.Equal(t, 1, stats.Excluded)
}

func TestPool_EverythingExcluded(t *testing.T) {
	t.Parallel()

	filter, err := NewFilter(`\.txt$`, false)
	require.NoError(t, err)

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt", "b.txt"}}, twoFileSource(), PoolConfig{Workers: 3, Filter: filter})
	require.NoError(t, err)

	got, _, err := pool.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPool_AttributionFailureFailsRun(t *testing.T) {
	t.Parallel()

	src := twoFileSource()
	src.closeErr["b.txt"] = blame.ErrAttributionFailed

	paths := []string{"a.txt", "b.txt"}
	for i := range 20 {
		path := fmt.Sprintf("more%d.txt", i)
		paths = append(paths, path)
		src.with(path, hunk{commitC3, "carol", 1})
	}

	for _, workers := range []int{1, 2, 7} {
		pool, err := NewPool(&fakeEnumerator{paths: paths}, src, PoolConfig{Workers: workers})
		require.NoError(t, err)

		got, stats, err := pool.Run(context.Background())
		require.ErrorIs(t, err, blame.ErrAttributionFailed, "workers=%d", workers)
		assert.Nil(t, got)
		assert.Zero(t, stats.Attributed)
	}
}

func TestPool_EnumerationFailureFailsRun(t *testing.T) {
	t.Parallel()

	errWalk := errors.New("walk failed")

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt"}, err: errWalk}, twoFileSource(), PoolConfig{Workers: 2})
	require.NoError(t, err)

	got, _, err := pool.Run(context.Background())
	require.ErrorIs(t, err, errWalk)
	assert.Nil(t, got)
}

func TestPool_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt", "b.txt"}}, twoFileSource(), PoolConfig{Workers: 2})
	require.NoError(t, err)

	got, _, err := pool.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestPool_IdentityEmail(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt", "b.txt"}}, twoFileSource(),
		PoolConfig{Workers: 2, Identity: IdentityEmail})
	require.NoError(t, err)

	got, _, err := pool.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, got.Authors())
}

func TestNewPool_Workers(t *testing.T) {
	t.Parallel()

	_, err := NewPool(&fakeEnumerator{}, newFakeSource(), PoolConfig{Workers: -1})
	require.ErrorIs(t, err, ErrInvalidWorkers)

	pool, err := NewPool(&fakeEnumerator{}, newFakeSource(), PoolConfig{})
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), pool.Workers())

	pool, err = NewPool(&fakeEnumerator{}, newFakeSource(), PoolConfig{Workers: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, pool.Workers())
}

func TestPool_MoreWorkersThanFiles(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(&fakeEnumerator{paths: []string{"a.txt"}}, twoFileSource(), PoolConfig{Workers: 16})
	require.NoError(t, err)

	got, stats, err := pool.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, AuthorMap{"alice": {"a.txt": 3}}, got)

	sum := 0
	for _, done := range stats.PerWorker {
		sum += done
	}

	assert.Equal(t, 1, sum)
}
