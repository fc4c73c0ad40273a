package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drafnel/git-blame-stats/pkg/ownership"
	"github.com/drafnel/git-blame-stats/pkg/report"
)

func sampleMap() ownership.AuthorMap {
	return ownership.AuthorMap{
		"alice": {"a.txt": 3, "b.txt": 2},
		"bob":   {"b.txt": 1},
	}
}

func TestBuild_Authors(t *testing.T) {
	t.Parallel()

	rep := report.Build(sampleMap(), report.Options{Revision: "HEAD"})

	assert.Equal(t, report.ViewAuthors, rep.View)
	assert.Equal(t, 6, rep.TotalLines)
	assert.Equal(t, 2, rep.TotalFiles)
	assert.Equal(t, 2, rep.TotalAuthors)

	require.Len(t, rep.Authors, 2)
	assert.Equal(t, report.AuthorRow{Author: "alice", Lines: 5, Files: 2, Share: 5.0 / 6}, rep.Authors[0])
	assert.Equal(t, report.AuthorRow{Author: "bob", Lines: 1, Files: 1, Share: 1.0 / 6}, rep.Authors[1])
	assert.Nil(t, rep.Files)
}

func TestBuild_AuthorsTieBrokenByName(t *testing.T) {
	t.Parallel()

	rep := report.Build(ownership.AuthorMap{
		"zed":  {"a": 2},
		"amy":  {"b": 2},
		"mike": {"c": 5},
	}, report.Options{})

	names := make([]string, 0, len(rep.Authors))
	for _, row := range rep.Authors {
		names = append(names, row.Author)
	}

	assert.Equal(t, []string{"mike", "amy", "zed"}, names)
}

func TestBuild_Files(t *testing.T) {
	t.Parallel()

	rep := report.Build(sampleMap(), report.Options{View: report.ViewFiles})

	require.Len(t, rep.Files, 2)
	assert.Equal(t, report.FileRow{Path: "a.txt", Lines: 3, Authors: 1, TopOwner: "alice", TopShare: 1}, rep.Files[0])
	assert.Equal(t, report.FileRow{Path: "b.txt", Lines: 3, Authors: 2, TopOwner: "alice", TopShare: 2.0 / 3}, rep.Files[1])
}

func TestBuild_Matrix(t *testing.T) {
	t.Parallel()

	rep := report.Build(sampleMap(), report.Options{View: report.ViewMatrix})

	assert.Equal(t, []report.MatrixRow{
		{Author: "alice", Lines: 5, Files: []report.FileLines{{Path: "a.txt", Lines: 3}, {Path: "b.txt", Lines: 2}}},
		{Author: "bob", Lines: 1, Files: []report.FileLines{{Path: "b.txt", Lines: 1}}},
	}, rep.Matrix)
}

func TestBuild_Languages(t *testing.T) {
	t.Parallel()

	rep := report.Build(ownership.AuthorMap{
		"alice": {"main.go": 10, "pkg/util.go": 5, "style.css": 2},
		"bob":   {"main.go": 3, "script.py": 4},
	}, report.Options{View: report.ViewLanguages})

	require.Len(t, rep.Languages, 3)

	goRow := rep.Languages[0]
	assert.Equal(t, "Go", goRow.Language)
	assert.Equal(t, 18, goRow.Lines)
	assert.Equal(t, 2, goRow.Files)
	assert.Equal(t, []report.AuthorLines{{Author: "alice", Lines: 15}, {Author: "bob", Lines: 3}}, goRow.Authors)

	assert.Equal(t, "Python", rep.Languages[1].Language)
	assert.Equal(t, "CSS", rep.Languages[2].Language)

	sum := 0
	for _, row := range rep.Languages {
		sum += row.Lines
	}

	assert.Equal(t, rep.TotalLines, sum)
}

func TestLanguageOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Go", report.LanguageOf("cmd/tool/main.go"))
	assert.Equal(t, report.OtherLanguage, report.LanguageOf("data/blob.unknownext"))
}

func TestBuild_LimitKeepsTotals(t *testing.T) {
	t.Parallel()

	rep := report.Build(ownership.AuthorMap{
		"a": {"x": 4},
		"b": {"y": 3},
		"c": {"z": 2},
	}, report.Options{Limit: 2})

	assert.Len(t, rep.Authors, 2)
	assert.Equal(t, 1, rep.Omitted)
	assert.Equal(t, 9, rep.TotalLines)
	assert.Equal(t, 3, rep.TotalAuthors)

	rep = report.Build(sampleMap(), report.Options{Limit: 10})
	assert.Len(t, rep.Authors, 2)
	assert.Zero(t, rep.Omitted)
}

func TestBuild_UnknownAuthor(t *testing.T) {
	t.Parallel()

	rep := report.Build(ownership.AuthorMap{"": {"a": 1}}, report.Options{})

	require.Len(t, rep.Authors, 1)
	assert.Equal(t, report.UnknownAuthor, rep.Authors[0].Author)
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	for _, view := range []report.View{report.ViewAuthors, report.ViewFiles, report.ViewMatrix, report.ViewLanguages} {
		rep := report.Build(ownership.NewAuthorMap(), report.Options{View: view})

		assert.Zero(t, rep.TotalLines, "view %s", view)
		assert.Zero(t, rep.TotalFiles, "view %s", view)
		assert.Zero(t, rep.Omitted, "view %s", view)
	}
}

func TestBuild_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	m := sampleMap()
	before := m.Clone()

	report.Build(m, report.Options{View: report.ViewLanguages})
	report.Build(m, report.Options{View: report.ViewFiles})

	assert.Equal(t, before, m)
}

func TestParseFormatAndView(t *testing.T) {
	t.Parallel()

	f, err := report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, report.FormatText, f)

	f, err = report.ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, f)

	_, err = report.ParseFormat("xml")
	require.ErrorIs(t, err, report.ErrUnknownFormat)

	v, err := report.ParseView("")
	require.NoError(t, err)
	assert.Equal(t, report.ViewAuthors, v)

	v, err = report.ParseView("matrix")
	require.NoError(t, err)
	assert.Equal(t, report.ViewMatrix, v)

	_, err = report.ParseView("commits")
	require.ErrorIs(t, err, report.ErrUnknownView)
}
