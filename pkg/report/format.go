package report

import (
	"errors"
	"fmt"
)

// Sentinel errors for unknown renderer selections.
var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrUnknownView   = errors.New("unknown report view")
)

// Format selects the output encoding.
type Format string

// Formats.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatPlot  Format = "plot"
)

// View selects which projection of the author map is reported.
type View string

// Views.
const (
	ViewAuthors   View = "authors"
	ViewFiles     View = "files"
	ViewMatrix    View = "matrix"
	ViewLanguages View = "languages"
)

// ParseFormat validates a format name; "" means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatTable, FormatJSON, FormatYAML, FormatPlot:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseView validates a view name; "" means ViewAuthors.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case "":
		return ViewAuthors, nil
	case ViewAuthors, ViewFiles, ViewMatrix, ViewLanguages:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}
