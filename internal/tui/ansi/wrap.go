package ansi

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// WrapLine word-wraps a single line to the given width, breaking words that
// are longer than a line. ANSI codes are preserved.
func WrapLine(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	wrapped := ansi.Wrap(s, width, "")
	return strings.Split(wrapped, "\n")
}

// WrapLines wraps every line of a multi-line string.
func WrapLines(lines []string, width int) []string {
	result := make([]string, 0, len(lines)*2)
	for _, line := range lines {
		result = append(result, WrapLine(line, width)...)
	}
	return result
}

// WrapText splits s on newlines and wraps each line.
func WrapText(s string, width int) []string {
	return WrapLines(strings.Split(s, "\n"), width)
}
