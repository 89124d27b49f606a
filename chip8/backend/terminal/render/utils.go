package render

// HalfBlock returns the character drawing two vertically stacked cells in a
// single terminal cell, foreground being the lit color.
func HalfBlock(top, bottom uint8) rune {
	switch {
	case top != 0 && bottom != 0:
		return '█'
	case top != 0:
		return '▀'
	case bottom != 0:
		return '▄'
	default:
		return ' '
	}
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}
