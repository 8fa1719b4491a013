// Package ansi holds width-aware string helpers for styled terminal text.
package ansi

import "github.com/charmbracelet/x/ansi"

// Strip removes all ANSI escape sequences from the string.
func Strip(s string) string {
	return ansi.Strip(s)
}

// VisualWidth returns the number of terminal cells s occupies, excluding ANSI
// codes and counting wide runes as two.
func VisualWidth(s string) int {
	return ansi.StringWidth(s)
}
