// Package ownership aggregates git blame attribution into per-author,
// per-file line counts using a pool of workers with private accumulators.
package ownership

import (
	"github.com/drafnel/git-blame-stats/pkg/alg/mapx"
)

// AuthorMap maps author -> file path -> lines owned.
//
// During a run each worker owns one AuthorMap exclusively. The merged map is
// written once by Merge and only read afterwards.
type AuthorMap map[string]map[string]int

// NewAuthorMap returns an empty AuthorMap.
func NewAuthorMap() AuthorMap {
	return make(AuthorMap)
}

// Add credits lines of path to author.
func (m AuthorMap) Add(author, path string, lines int) {
	m.slot(author, path)
	m[author][path] += lines
}

// slot makes sure m[author][path] exists.
func (m AuthorMap) slot(author, path string) {
	files, ok := m[author]
	if !ok {
		files = make(map[string]int)
		m[author] = files
	}

	if _, ok = files[path]; !ok {
		files[path] = 0
	}
}

// Lines returns the lines of path owned by author.
func (m AuthorMap) Lines(author, path string) int {
	return m[author][path]
}

// Authors returns the author names in sorted order.
func (m AuthorMap) Authors() []string {
	if len(m) == 0 {
		return []string{}
	}

	return mapx.SortedKeys(m)
}

// Files returns every file path that has at least one owner, sorted.
func (m AuthorMap) Files() []string {
	seen := make(map[string]struct{})

	for _, files := range m {
		for path := range files {
			seen[path] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return []string{}
	}

	return mapx.SortedKeys(seen)
}

// Clone returns a deep copy.
func (m AuthorMap) Clone() AuthorMap {
	if m == nil {
		return NewAuthorMap()
	}

	return AuthorMap(mapx.CloneNested(map[string]map[string]int(m)))
}
