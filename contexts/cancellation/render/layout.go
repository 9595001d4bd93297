package render

import "math"

// MinLineHeight is the smallest line height an adaptive cell may shrink to.
const MinLineHeight = 3.8

// WrappedLines returns how many lines a text of the given rendered width
// occupies inside a cell of the given width. Empty text still occupies one
// line. Widths are measured in the output encoding, not in Unicode.
func WrappedLines(textWidth, cellWidth float64) int {
	if textWidth <= 0 {
		return 1
	}
	lines := int(math.Ceil(textWidth / cellWidth))
	if lines < 1 {
		return 1
	}
	return lines
}

// AdaptiveHeight computes the per-line height for an adaptive cell: the
// nominal single-line height is divided across the wrapped lines, floored,
// and never drops below MinLineHeight.
func AdaptiveHeight(nominal float64, lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	return math.Max(MinLineHeight, math.Floor(nominal/float64(lines)))
}
