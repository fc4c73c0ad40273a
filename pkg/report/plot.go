package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/drafnel/git-blame-stats/pkg/alg/mapx"
)

const (
	plotStackName = "lines"
	fullZoomPct   = 100
	maxSeries     = 10
	othersName    = "Others"
)

type series struct {
	name   string
	values []int
}

func renderPlot(w io.Writer, rep *Report) error {
	bar := buildChart(rep)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func buildChart(rep *Report) *charts.Bar {
	var (
		labels []string
		data   []series
		xName  string
	)

	switch rep.View {
	case ViewFiles:
		xName = "File"
		lines := make([]int, 0, len(rep.Files))

		for _, row := range rep.Files {
			labels = append(labels, row.Path)
			lines = append(lines, row.Lines)
		}

		data = []series{{name: "Lines", values: lines}}
	case ViewMatrix:
		xName = "Author"
		labels, data = matrixSeries(rep.Matrix)
	case ViewLanguages:
		xName = "Language"
		labels, data = languageSeries(rep.Languages)
	default:
		xName = "Author"
		lines := make([]int, 0, len(rep.Authors))

		for _, row := range rep.Authors {
			labels = append(labels, row.Author)
			lines = append(lines, row.Lines)
		}

		data = []series{{name: "Lines", values: lines}}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    viewTitles[rep.View],
			Subtitle: fmt.Sprintf("%s, %s lines in %d files", rep.Revision, comma(rep.TotalLines), rep.TotalFiles),
			Left:     "2%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(len(data) > 1),
			Type: "scroll",
			Top:  "5px",
			Left: "40%",
		}),
		charts.WithGridOpts(opts.Grid{
			Top:    "15%",
			Bottom: "15%",
			Left:   "5%",
			Right:  "5%",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: fullZoomPct}, opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lines"}),
	)
	bar.SetXAxis(labels)

	for _, s := range data {
		points := make([]opts.BarData, len(s.values))
		for i, v := range s.values {
			points[i] = opts.BarData{Value: v}
		}

		bar.AddSeries(s.name, points, charts.WithBarChartOpts(opts.BarChart{Stack: plotStackName}))
	}

	return bar
}

// matrixSeries stacks each author's files, keeping the maxSeries largest
// files overall as their own series.
func matrixSeries(rows []MatrixRow) ([]string, []series) {
	totals := make(map[string]int)

	for _, row := range rows {
		for _, cell := range row.Files {
			totals[cell.Path] += cell.Lines
		}
	}

	labels := make([]string, len(rows))
	cells := make([]map[string]int, len(rows))

	for i, row := range rows {
		labels[i] = row.Author
		cells[i] = make(map[string]int, len(row.Files))

		for _, cell := range row.Files {
			cells[i][cell.Path] = cell.Lines
		}
	}

	return labels, stack(totals, cells)
}

// languageSeries stacks each language by author.
func languageSeries(rows []LanguageRow) ([]string, []series) {
	totals := make(map[string]int)
	labels := make([]string, len(rows))
	cells := make([]map[string]int, len(rows))

	for i, row := range rows {
		labels[i] = row.Language
		cells[i] = make(map[string]int, len(row.Authors))

		for _, a := range row.Authors {
			totals[a.Author] += a.Lines
			cells[i][a.Author] = a.Lines
		}
	}

	return labels, stack(totals, cells)
}

func stack(totals map[string]int, cells []map[string]int) []series {
	ranked := mapx.SortedByValueDesc(totals)
	top := ranked[:min(len(ranked), maxSeries)]

	out := make([]series, 0, len(top)+1)
	kept := make(map[string]struct{}, len(top))

	for _, name := range top {
		kept[name] = struct{}{}
		values := make([]int, len(cells))

		for i, c := range cells {
			values[i] = c[name]
		}

		out = append(out, series{name: name, values: values})
	}

	if len(ranked) > len(top) {
		values := make([]int, len(cells))

		for i, c := range cells {
			for name, lines := range c {
				if _, ok := kept[name]; !ok {
					values[i] += lines
				}
			}
		}

		out = append(out, series{name: othersName, values: values})
	}

	return out
}
