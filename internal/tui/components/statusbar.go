package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/interpretive-systems/futuresight/internal/theme"
)

// StatusBar manages the bottom status bar.
type StatusBar struct {
	hints    string
	notice   string
	info     string
	infoOK   bool
	activity string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetHints sets the key hints shown when there is no notice.
func (s *StatusBar) SetHints(h string) {
	s.hints = h
}

// SetNotice sets a blocking validation message. It replaces the hints.
func (s *StatusBar) SetNotice(n string) {
	s.notice = n
}

// SetInfo sets a transient message, such as an export path. ok selects the
// success or error color.
func (s *StatusBar) SetInfo(i string, ok bool) {
	s.info = i
	s.infoOK = ok
}

// SetActivity sets the right-hand activity text, typically a spinner and
// the names of in-flight requests.
func (s *StatusBar) SetActivity(a string) {
	s.activity = a
}

// Render renders the status bar.
func (s *StatusBar) Render(width int, th theme.Theme) string {
	leftText := th.Muted(s.hints)
	switch {
	case s.notice != "":
		leftText = th.ErrorText("! " + s.notice)
	case s.info != "":
		leftText = th.Status(s.infoOK, s.info)
	}

	right := th.Muted(s.activity)

	// Ensure right part is always visible
	rightW := lipgloss.Width(right)
	if rightW >= width {
		return ansi.Truncate(right, width, "…")
	}

	avail := width - rightW - 1
	leftRendered := leftText
	if lipgloss.Width(leftRendered) > avail {
		leftRendered = ansi.Truncate(leftRendered, avail, "…")
	} else if lipgloss.Width(leftRendered) < avail {
		leftRendered = leftRendered + strings.Repeat(" ", avail-lipgloss.Width(leftRendered))
	}

	return leftRendered + " " + right
}
