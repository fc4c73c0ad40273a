// Package terminal draws headers, bars and aligned columns for the text report.
package terminal

import (
	"os"
	"strconv"
)

// Width bounds.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 160
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig reads COLUMNS and NO_COLOR from the environment.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth returns COLUMNS clamped to [MinWidth, MaxWidth], or
// DefaultWidth when COLUMNS is unset or not a number.
func DetectWidth() int {
	width, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil {
		return DefaultWidth
	}

	return max(MinWidth, min(width, MaxWidth))
}
