package ownership

import "github.com/drafnel/git-blame-stats/pkg/alg/mapx"

// Merge sums worker maps into a new AuthorMap. For every (author, file) the
// result holds the sum over all inputs, so the order of maps is irrelevant.
// Inputs are not modified and share no inner maps with the result.
func Merge(maps ...AuthorMap) AuthorMap {
	merged := NewAuthorMap()

	for _, m := range maps {
		for author, files := range m {
			dst, ok := merged[author]
			if !ok {
				dst = make(map[string]int, len(files))
				merged[author] = dst
			}

			mapx.MergeAdditive(dst, files)
		}
	}

	return merged
}
