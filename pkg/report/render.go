package report

import (
	"fmt"
	"io"

	"github.com/drafnel/git-blame-stats/pkg/terminal"
)

// Render writes rep to w in format. term only affects FormatText.
func Render(w io.Writer, rep *Report, format Format, term terminal.Config) error {
	switch format {
	case FormatText, "":
		return renderText(w, rep, term)
	case FormatTable:
		return renderTable(w, rep)
	case FormatJSON:
		return renderJSON(w, rep)
	case FormatYAML:
		return renderYAML(w, rep)
	case FormatPlot:
		return renderPlot(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
