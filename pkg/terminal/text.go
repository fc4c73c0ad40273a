package terminal

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// DisplayWidth counts runes; author names are frequently non-ASCII.
func DisplayWidth(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most width runes, ending in Ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if DisplayWidth(s) <= width {
		return s
	}

	runes := []rune(s)

	return string(runes[:width-1]) + Ellipsis
}

// TruncateLeft keeps the last width runes of s, which for paths is the file name.
func TruncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if DisplayWidth(s) <= width {
		return s
	}

	runes := []rune(s)

	return Ellipsis + string(runes[len(runes)-width+1:])
}

// PadRight pads s with spaces to width runes.
func PadRight(s string, width int) string {
	n := DisplayWidth(s)
	if n >= width {
		return s
	}

	return s + strings.Repeat(" ", width-n)
}

// PadLeft right-aligns s in width runes.
func PadLeft(s string, width int) string {
	n := DisplayWidth(s)
	if n >= width {
		return s
	}

	return strings.Repeat(" ", width-n) + s
}

// Fit truncates then pads s to exactly width runes.
func Fit(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}
