package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

func renderTable(w io.Writer, rep *Report) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	switch rep.View {
	case ViewFiles:
		tbl.AppendHeader(table.Row{"File", "Lines", "Authors", "Top owner", "Owner share"})

		for _, row := range rep.Files {
			tbl.AppendRow(table.Row{row.Path, comma(row.Lines), row.Authors, row.TopOwner, percent(row.TopShare)})
		}

		tbl.AppendFooter(table.Row{"Total", comma(rep.TotalLines), rep.TotalAuthors, "", ""})
	case ViewMatrix:
		tbl.AppendHeader(table.Row{"Author", "File", "Lines"})

		for _, row := range rep.Matrix {
			for _, cell := range row.Files {
				tbl.AppendRow(table.Row{row.Author, cell.Path, comma(cell.Lines)})
			}
		}

		tbl.AppendFooter(table.Row{"Total", fmt.Sprintf("%d files", rep.TotalFiles), comma(rep.TotalLines)})
		tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	case ViewLanguages:
		tbl.AppendHeader(table.Row{"Language", "Lines", "Share", "Files", "Top author"})

		for _, row := range rep.Languages {
			top := ""
			if len(row.Authors) > 0 {
				top = row.Authors[0].Author
			}

			tbl.AppendRow(table.Row{row.Language, comma(row.Lines), percent(row.Share), row.Files, top})
		}

		tbl.AppendFooter(table.Row{"Total", comma(rep.TotalLines), "", rep.TotalFiles, ""})
	default:
		tbl.AppendHeader(table.Row{"Author", "Lines", "Share", "Files"})

		for _, row := range rep.Authors {
			tbl.AppendRow(table.Row{row.Author, comma(row.Lines), percent(row.Share), row.Files})
		}

		tbl.AppendFooter(table.Row{"Total", comma(rep.TotalLines), "", rep.TotalFiles})
	}

	if rep.Omitted > 0 {
		tbl.SetCaption("%d more rows not shown", rep.Omitted)
	}

	tbl.Render()

	return nil
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}

func percent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}
