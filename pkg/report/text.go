package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/drafnel/git-blame-stats/pkg/terminal"
)

// Column widths of the text format.
const (
	colLines   = 9
	colShare   = 6
	colCount   = 7
	colOwner   = 16
	colBar     = 20
	minNameCol = 12
	textIndent = "  "
)

var viewTitles = map[View]string{
	ViewAuthors:   "OWNERSHIP BY AUTHOR",
	ViewFiles:     "OWNERSHIP BY FILE",
	ViewMatrix:    "AUTHOR x FILE",
	ViewLanguages: "OWNERSHIP BY LANGUAGE",
}

type textWriter struct {
	w     *bufio.Writer
	term  terminal.Config
	width int
}

func (t *textWriter) line(format string, args ...any) {
	fmt.Fprintf(t.w, format+"\n", args...)
}

func renderText(w io.Writer, rep *Report, term terminal.Config) error {
	width := term.Width
	if width <= 0 {
		width = terminal.DefaultWidth
	}

	t := &textWriter{w: bufio.NewWriter(w), term: term, width: width}

	t.line("%s", terminal.DrawHeader(viewTitles[rep.View], rep.Revision, width))
	t.line("%sLines %s   Files %s   Authors %s", textIndent,
		comma(rep.TotalLines), comma(rep.TotalFiles), comma(rep.TotalAuthors))
	t.line("%s", terminal.DrawSeparator(width))

	if rep.TotalLines == 0 && rep.TotalAuthors == 0 {
		t.line("%s%s", textIndent, term.Colorize("No lines attributed.", terminal.ColorGray))
	}

	switch rep.View {
	case ViewFiles:
		t.files(rep.Files)
	case ViewMatrix:
		t.matrix(rep.Matrix)
	case ViewLanguages:
		t.languages(rep.Languages)
	default:
		t.authors(rep.Authors)
	}

	if rep.Omitted > 0 {
		t.line("%s%s", textIndent, term.Colorize(fmt.Sprintf("… %d more", rep.Omitted), terminal.ColorGray))
	}

	err := t.w.Flush()
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

func (t *textWriter) nameCol(fixed int) int {
	return max(minNameCol, t.width-len(textIndent)-fixed)
}

func (t *textWriter) shareCell(share float64) string {
	return t.term.Colorize(terminal.PadLeft(percent(share), colShare), terminal.ColorForShare(share))
}

func (t *textWriter) authors(rows []AuthorRow) {
	name := t.nameCol(colLines + colShare + colBar + colCount + 4)

	for _, row := range rows {
		t.line("%s%s %s %s %s %s", textIndent,
			terminal.Fit(row.Author, name),
			terminal.PadLeft(comma(row.Lines), colLines),
			t.shareCell(row.Share),
			terminal.DrawBar(row.Share, colBar),
			terminal.PadLeft(fmt.Sprintf("%d f", row.Files), colCount),
		)
	}
}

func (t *textWriter) files(rows []FileRow) {
	name := t.nameCol(colLines + colCount + colOwner + colShare + 4)

	for _, row := range rows {
		t.line("%s%s %s %s %s %s", textIndent,
			terminal.PadRight(terminal.TruncateLeft(row.Path, name), name),
			terminal.PadLeft(comma(row.Lines), colLines),
			terminal.PadLeft(fmt.Sprintf("%d a", row.Authors), colCount),
			terminal.Fit(row.TopOwner, colOwner),
			t.shareCell(row.TopShare),
		)
	}
}

func (t *textWriter) matrix(rows []MatrixRow) {
	name := t.nameCol(colLines + len(textIndent) + 1)

	for _, row := range rows {
		t.line("%s%s %s", textIndent,
			t.term.Colorize(terminal.Fit(row.Author, name+len(textIndent)), terminal.ColorBold),
			terminal.PadLeft(comma(row.Lines), colLines))

		for _, cell := range row.Files {
			t.line("%s%s%s %s", textIndent, textIndent,
				terminal.PadRight(terminal.TruncateLeft(cell.Path, name), name),
				terminal.PadLeft(comma(cell.Lines), colLines))
		}
	}
}

// languageAuthors caps the per-language author breakdown in text output.
const languageAuthors = 3

func (t *textWriter) languages(rows []LanguageRow) {
	name := t.nameCol(colLines + colShare + colBar + colCount + 4)

	for _, row := range rows {
		t.line("%s%s %s %s %s %s", textIndent,
			t.term.Colorize(terminal.Fit(row.Language, name), terminal.ColorBlue),
			terminal.PadLeft(comma(row.Lines), colLines),
			t.shareCell(row.Share),
			terminal.DrawBar(row.Share, colBar),
			terminal.PadLeft(fmt.Sprintf("%d f", row.Files), colCount),
		)

		shown := row.Authors[:min(len(row.Authors), languageAuthors)]
		parts := make([]string, 0, len(shown))

		for _, a := range shown {
			parts = append(parts, fmt.Sprintf("%s %s", a.Author, comma(a.Lines)))
		}

		if rest := len(row.Authors) - len(shown); rest > 0 {
			parts = append(parts, fmt.Sprintf("+%d", rest))
		}

		t.line("%s%s%s", textIndent, textIndent,
			t.term.Colorize(terminal.Truncate(strings.Join(parts, ", "), t.width-2*len(textIndent)), terminal.ColorGray))
	}
}
