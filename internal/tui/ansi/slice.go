package ansi

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ClipToWidth truncates string to at most w visual columns without ellipsis.
func ClipToWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return ansi.Truncate(s, w, "")
}

// PadExact pads or truncates s to exactly w columns (ANSI-aware).
func PadExact(s string, w int) string {
	if w <= 0 {
		return ""
	}
	vw := VisualWidth(s)
	if vw > w {
		return ansi.Truncate(s, w, "…")
	}
	return s + strings.Repeat(" ", w-vw)
}

// TruncateToWidth truncates to width with ellipsis if needed.
func TruncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
