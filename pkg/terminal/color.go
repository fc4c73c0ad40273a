package terminal

// Color is an ANSI foreground color.
type Color int

// Colors.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorGray
	ColorBold
)

const ansiReset = "\033[0m"

var ansiCodes = map[Color]string{
	ColorGreen:  "\033[32m",
	ColorYellow: "\033[33m",
	ColorRed:    "\033[31m",
	ColorBlue:   "\033[34m",
	ColorGray:   "\033[90m",
	ColorBold:   "\033[1m",
}

// Share thresholds for ColorForShare.
const (
	ShareDominant = 0.5
	ShareMajor    = 0.2
)

// Colorize wraps text in the ANSI sequence for color unless NoColor is set.
func (c Config) Colorize(text string, color Color) string {
	code, ok := ansiCodes[color]
	if c.NoColor || !ok {
		return text
	}

	return code + text + ansiReset
}

// ColorForShare picks a color for an ownership share in [0, 1]: red for a
// dominant owner, yellow for a major one, green otherwise.
func ColorForShare(share float64) Color {
	switch {
	case share >= ShareDominant:
		return ColorRed
	case share >= ShareMajor:
		return ColorYellow
	default:
		return ColorGreen
	}
}
