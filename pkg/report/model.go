// Package report turns a merged author map into ranked views and renders
// them as text, tables, JSON, YAML or an HTML chart page.
package report

import (
	"path"

	"github.com/src-d/enry/v2"

	"github.com/drafnel/git-blame-stats/pkg/alg/mapx"
	"github.com/drafnel/git-blame-stats/pkg/ownership"
)

// UnknownAuthor is displayed for lines git attributed to an empty author.
const UnknownAuthor = "(unknown)"

// OtherLanguage groups files enry cannot classify.
const OtherLanguage = "Other"

// Options selects what Build projects.
type Options struct {
	Revision string
	View     View
	// Limit caps the number of ranked rows; zero keeps all of them.
	Limit int
}

// Report is one view of an attribution run. Only the row slice belonging
// to View is populated. Totals always cover the whole map, even when rows
// were cut by Options.Limit.
type Report struct {
	Revision     string        `json:"revision"            yaml:"revision"`
	View         View          `json:"view"                yaml:"view"`
	Authors      []AuthorRow   `json:"authors,omitempty"   yaml:"authors,omitempty"`
	Files        []FileRow     `json:"files,omitempty"     yaml:"files,omitempty"`
	Matrix       []MatrixRow   `json:"matrix,omitempty"    yaml:"matrix,omitempty"`
	Languages    []LanguageRow `json:"languages,omitempty" yaml:"languages,omitempty"`
	TotalLines   int           `json:"total_lines"         yaml:"total_lines"`
	TotalFiles   int           `json:"total_files"         yaml:"total_files"`
	TotalAuthors int           `json:"total_authors"       yaml:"total_authors"`
	Omitted      int           `json:"omitted_rows"        yaml:"omitted_rows"`
}

// AuthorRow is one line of the authors view.
type AuthorRow struct {
	Author string  `json:"author" yaml:"author"`
	Lines  int     `json:"lines"  yaml:"lines"`
	Files  int     `json:"files"  yaml:"files"`
	Share  float64 `json:"share"  yaml:"share"`
}

// FileRow is one line of the files view.
type FileRow struct {
	Path     string  `json:"path"      yaml:"path"`
	TopOwner string  `json:"top_owner" yaml:"top_owner"`
	Lines    int     `json:"lines"     yaml:"lines"`
	Authors  int     `json:"authors"   yaml:"authors"`
	TopShare float64 `json:"top_share" yaml:"top_share"`
}

// MatrixRow lists every file one author owns lines in, sorted by path.
type MatrixRow struct {
	Author string      `json:"author" yaml:"author"`
	Files  []FileLines `json:"files"  yaml:"files"`
	Lines  int         `json:"lines"  yaml:"lines"`
}

// FileLines is a matrix cell.
type FileLines struct {
	Path  string `json:"path"  yaml:"path"`
	Lines int    `json:"lines" yaml:"lines"`
}

// LanguageRow is one language with its per-author breakdown.
type LanguageRow struct {
	Language string        `json:"language" yaml:"language"`
	Authors  []AuthorLines `json:"authors"  yaml:"authors"`
	Lines    int           `json:"lines"    yaml:"lines"`
	Files    int           `json:"files"    yaml:"files"`
	Share    float64       `json:"share"    yaml:"share"`
}

// AuthorLines is one author's lines within a language.
type AuthorLines struct {
	Author string `json:"author" yaml:"author"`
	Lines  int    `json:"lines"  yaml:"lines"`
}

// Build projects m into the view named by opts. m is not modified.
func Build(m ownership.AuthorMap, opts Options) *Report {
	view := opts.View
	if view == "" {
		view = ViewAuthors
	}

	fileTotals := ownership.FileTotals(m)

	rep := &Report{
		Revision:     opts.Revision,
		View:         view,
		TotalLines:   ownership.GrandTotal(m),
		TotalFiles:   len(fileTotals),
		TotalAuthors: len(m),
	}

	switch view {
	case ViewFiles:
		rep.Files, rep.Omitted = limit(fileRows(m, fileTotals), opts.Limit)
	case ViewMatrix:
		rep.Matrix, rep.Omitted = limit(matrixRows(m), opts.Limit)
	case ViewLanguages:
		rep.Languages, rep.Omitted = limit(languageRows(m, rep.TotalLines), opts.Limit)
	default:
		rep.Authors, rep.Omitted = limit(authorRows(m, rep.TotalLines), opts.Limit)
	}

	return rep
}

// DisplayAuthor maps the empty author to UnknownAuthor.
func DisplayAuthor(author string) string {
	if author == "" {
		return UnknownAuthor
	}

	return author
}

// LanguageOf classifies path by its file name.
func LanguageOf(filePath string) string {
	lang := enry.GetLanguage(path.Base(filePath), nil)
	if lang == "" {
		return OtherLanguage
	}

	return lang
}

func authorRows(m ownership.AuthorMap, total int) []AuthorRow {
	totals := ownership.AuthorTotals(m)
	rows := make([]AuthorRow, 0, len(totals))

	for _, author := range mapx.SortedByValueDesc(totals) {
		rows = append(rows, AuthorRow{
			Author: DisplayAuthor(author),
			Lines:  totals[author],
			Files:  len(m[author]),
			Share:  share(totals[author], total),
		})
	}

	return rows
}

func fileRows(m ownership.AuthorMap, fileTotals map[string]int) []FileRow {
	owners := make(map[string]map[string]int, len(fileTotals))

	for author, files := range m {
		for filePath, lines := range files {
			if owners[filePath] == nil {
				owners[filePath] = make(map[string]int)
			}

			owners[filePath][author] = lines
		}
	}

	rows := make([]FileRow, 0, len(fileTotals))

	for _, filePath := range mapx.SortedByValueDesc(fileTotals) {
		ranked := mapx.SortedByValueDesc(owners[filePath])
		top := ranked[0]

		rows = append(rows, FileRow{
			Path:     filePath,
			Lines:    fileTotals[filePath],
			Authors:  len(ranked),
			TopOwner: DisplayAuthor(top),
			TopShare: share(owners[filePath][top], fileTotals[filePath]),
		})
	}

	return rows
}

func matrixRows(m ownership.AuthorMap) []MatrixRow {
	rows := make([]MatrixRow, 0, len(m))

	for _, author := range m.Authors() {
		files := m[author]
		row := MatrixRow{
			Author: DisplayAuthor(author),
			Files:  make([]FileLines, 0, len(files)),
			Lines:  mapx.Sum(files),
		}

		for _, filePath := range mapx.SortedKeys(files) {
			row.Files = append(row.Files, FileLines{Path: filePath, Lines: files[filePath]})
		}

		rows = append(rows, row)
	}

	return rows
}

func languageRows(m ownership.AuthorMap, total int) []LanguageRow {
	byLang := make(map[string]map[string]int)
	filesByLang := make(map[string]map[string]struct{})

	for author, files := range m {
		for filePath, lines := range files {
			lang := LanguageOf(filePath)

			if byLang[lang] == nil {
				byLang[lang] = make(map[string]int)
				filesByLang[lang] = make(map[string]struct{})
			}

			byLang[lang][author] += lines
			filesByLang[lang][filePath] = struct{}{}
		}
	}

	langTotals := make(map[string]int, len(byLang))
	for lang, authors := range byLang {
		langTotals[lang] = mapx.Sum(authors)
	}

	rows := make([]LanguageRow, 0, len(byLang))

	for _, lang := range mapx.SortedByValueDesc(langTotals) {
		authors := byLang[lang]
		row := LanguageRow{
			Language: lang,
			Authors:  make([]AuthorLines, 0, len(authors)),
			Lines:    langTotals[lang],
			Files:    len(filesByLang[lang]),
			Share:    share(langTotals[lang], total),
		}

		for _, author := range mapx.SortedByValueDesc(authors) {
			row.Authors = append(row.Authors, AuthorLines{Author: DisplayAuthor(author), Lines: authors[author]})
		}

		rows = append(rows, row)
	}

	return rows
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(part) / float64(total)
}

func limit[T any](rows []T, n int) ([]T, int) {
	if n <= 0 || len(rows) <= n {
		return rows, 0
	}

	return rows[:n], len(rows) - n
}
