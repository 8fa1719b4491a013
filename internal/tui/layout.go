package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/interpretive-systems/futuresight/internal/theme"
)

// Layout manages screen layout calculations.
type Layout struct {
	width     int
	height    int
	leftWidth int
}

// NewLayout creates a new layout manager.
func NewLayout() *Layout {
	return &Layout{}
}

// SetSize updates the layout dimensions and resets the left pane to its
// default share.
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.leftWidth = width * 2 / 5
}

// SetExpanded widens the right pane for the expanded visualization panel.
func (l *Layout) SetExpanded(expanded bool) {
	if expanded {
		l.leftWidth = l.width / 4
	} else {
		l.leftWidth = l.width * 2 / 5
	}
}

// Width returns the total width.
func (l *Layout) Width() int {
	return l.width
}

// Height returns the total height.
func (l *Layout) Height() int {
	return l.height
}

// LeftWidth returns the left pane width.
func (l *Layout) LeftWidth() int {
	if l.leftWidth < 20 {
		return 20
	}
	return l.leftWidth
}

// RightWidth returns the right pane width.
func (l *Layout) RightWidth() int {
	rightW := l.width - l.LeftWidth() - 1 // 1 for divider
	if rightW < 1 {
		rightW = 1
	}
	return rightW
}

// ContentHeight returns the height available for content.
func (l *Layout) ContentHeight(overlayHeight int) int {
	// top bar + top rule + bottom rule + bottom bar + overlays
	h := l.height - 4 - overlayHeight
	if h < 1 {
		h = 1
	}
	return h
}

// RenderFrame renders the main frame with top bar, rules, and content. A nil
// rightLines renders leftLines across the full width.
func (l *Layout) RenderFrame(
	topLeft, topRight string,
	leftLines, rightLines []string,
	overlayLines []string,
	bottomBar string,
	th theme.Theme,
) string {
	var b strings.Builder

	b.WriteString(l.renderTopBar(topLeft, topRight))
	b.WriteByte('\n')
	b.WriteString(th.DividerText(strings.Repeat("─", l.width)))
	b.WriteByte('\n')

	contentHeight := l.ContentHeight(len(overlayLines))
	if rightLines == nil {
		for i := 0; i < contentHeight; i++ {
			var line string
			if i < len(leftLines) {
				line = leftLines[i]
			}
			b.WriteString(padToWidth(line, l.width))
			if i < contentHeight-1 {
				b.WriteByte('\n')
			}
		}
	} else {
		leftW := l.LeftWidth()
		rightW := l.RightWidth()
		sep := th.DividerText("│")
		for i := 0; i < contentHeight; i++ {
			var left, right string
			if i < len(leftLines) {
				left = leftLines[i]
			}
			if i < len(rightLines) {
				right = rightLines[i]
			}
			b.WriteString(padToWidth(left, leftW))
			b.WriteString(sep)
			b.WriteString(padToWidth(right, rightW))
			if i < contentHeight-1 {
				b.WriteByte('\n')
			}
		}
	}

	if len(overlayLines) > 0 {
		b.WriteByte('\n')
		for i, line := range overlayLines {
			b.WriteString(padToWidth(line, l.width))
			if i < len(overlayLines)-1 {
				b.WriteByte('\n')
			}
		}
	}

	b.WriteByte('\n')
	b.WriteString(th.DividerText(strings.Repeat("─", l.width)))
	b.WriteByte('\n')
	b.WriteString(bottomBar)

	return b.String()
}

func (l *Layout) renderTopBar(left, right string) string {
	rightW := lipgloss.Width(right)
	if rightW >= l.width {
		return ansi.Truncate(right, l.width, "…")
	}

	avail := l.width - rightW - 1
	if lipgloss.Width(left) > avail {
		left = ansi.Truncate(left, avail, "…")
	} else if lipgloss.Width(left) < avail {
		left = left + strings.Repeat(" ", avail-lipgloss.Width(left))
	}

	return left + " " + right
}

func padToWidth(s string, w int) string {
	width := lipgloss.Width(s)
	if width == w {
		return s
	}
	if width < w {
		return s + strings.Repeat(" ", w-width)
	}
	return ansi.Truncate(s, w, "…")
}
