package ownership

import "github.com/drafnel/git-blame-stats/pkg/alg/mapx"

// AuthorTotals returns the lines owned by each author across all files.
func AuthorTotals(m AuthorMap) map[string]int {
	totals := make(map[string]int, len(m))

	for author, files := range m {
		totals[author] = mapx.Sum(files)
	}

	return totals
}

// FileTotals returns the lines of each file summed over its owners.
func FileTotals(m AuthorMap) map[string]int {
	totals := make(map[string]int)

	for _, files := range m {
		for path, lines := range files {
			totals[path] += lines
		}
	}

	return totals
}

// GrandTotal returns the lines attributed across the whole map.
func GrandTotal(m AuthorMap) int {
	return mapx.Sum(AuthorTotals(m))
}

// FilesPerAuthor returns how many files each author owns lines in.
func FilesPerAuthor(m AuthorMap) map[string]int {
	counts := make(map[string]int, len(m))

	for author, files := range m {
		counts[author] = len(files)
	}

	return counts
}

// AuthorsPerFile returns how many authors own lines in each file.
func AuthorsPerFile(m AuthorMap) map[string]int {
	counts := make(map[string]int)

	for _, files := range m {
		for path := range files {
			counts[path]++
		}
	}

	return counts
}
