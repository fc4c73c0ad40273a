package terminal

import "strings"

// Box drawing characters.
const (
	BoxHorizontal       = "─"
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// Bar characters.
const (
	BarFilled = "█"
	BarEmpty  = "░"
)

const headerPadding = 1

// DrawSeparator draws a thin horizontal rule.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(BoxHorizontal, width)
}

// DrawHeader draws a heavy box holding title on the left and right on the right.
//
//	┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
//	┃ OWNERSHIP               HEAD ┃
//	┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, right string, width int) string {
	const borders = 2

	minWidth := DisplayWidth(title) + DisplayWidth(right) + borders + 2*headerPadding + 1
	width = max(width, minWidth)

	inner := width - borders
	content := inner - 2*headerPadding
	gap := content - DisplayWidth(title) - DisplayWidth(right)

	pad := strings.Repeat(" ", headerPadding)
	line := BoxHeavyVertical + pad + title + strings.Repeat(" ", gap) + right + pad + BoxHeavyVertical
	rule := strings.Repeat(BoxHeavyHorizontal, inner)

	return BoxHeavyTopLeft + rule + BoxHeavyTopRight + "\n" +
		line + "\n" +
		BoxHeavyBottomLeft + rule + BoxHeavyBottomRight
}

// DrawBar draws a bar of width cells with value (clamped to [0, 1]) filled.
// DrawBar(0.7, 10) returns "███████░░░".
func DrawBar(value float64, width int) string {
	if width <= 0 {
		return ""
	}

	value = max(0, min(value, 1))
	filled := int(value*float64(width) + 0.5)

	return strings.Repeat(BarFilled, filled) + strings.Repeat(BarEmpty, width-filled)
}
