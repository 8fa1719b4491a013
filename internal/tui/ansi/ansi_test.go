package ansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisualWidthIgnoresEscapes(t *testing.T) {
	styled := "\x1b[31mred\x1b[0m"
	assert.Equal(t, 3, VisualWidth(styled))
	assert.Equal(t, "red", Strip(styled))
}

func TestPadExact(t *testing.T) {
	assert.Equal(t, "ab   ", PadExact("ab", 5))
	assert.Equal(t, "abcd…", PadExact("abcdefgh", 5))
	assert.Equal(t, "", PadExact("abc", 0))
}

func TestClipAndTruncate(t *testing.T) {
	assert.Equal(t, "abc", ClipToWidth("abcdef", 3))
	assert.Equal(t, "", ClipToWidth("abc", 0))
	assert.Equal(t, "ab…", TruncateToWidth("abcdef", 3))
}

func TestWrapText(t *testing.T) {
	lines := WrapText("one two three\nfour", 7)
	assert.Equal(t, []string{"one two", "three", "four"}, lines)
	for _, l := range WrapLine("supercalifragilistic", 5) {
		assert.LessOrEqual(t, VisualWidth(l), 5)
	}
	assert.Equal(t, []string{""}, WrapLine("x", 0))
}
