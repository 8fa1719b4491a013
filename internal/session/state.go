// Package session holds the client state shared by the upload, chart and chat
// flows. Every change goes through a named transition; callers read state
// through accessors and never assign fields directly.
//
// A Session is not safe for concurrent use. All transitions run on one
// goroutine (the Bubble Tea update loop or a CLI main goroutine); network
// calls happen elsewhere and report back through the Complete* transitions.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/interpretive-systems/futuresight/internal/acquire"
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"go.uber.org/zap"
)

// Tab is a top-level view.
type Tab int

const (
	TabUpload Tab = iota
	TabDashboard
	TabInsights
	TabAbout
)

var tabNames = [...]string{"upload", "dashboard", "insights", "about"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("tab(%d)", int(t))
	}
	return tabNames[t]
}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	return []Tab{TabUpload, TabDashboard, TabInsights, TabAbout}
}

// ParseTab maps a tab name to its Tab.
func ParseTab(s string) (Tab, error) {
	for i, name := range tabNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Tab(i), nil
		}
	}
	return TabUpload, fmt.Errorf("unknown tab %q", s)
}

// UIState is the flag set the views render from.
type UIState struct {
	ActiveTab     Tab
	DarkMode      bool
	Uploading     bool
	Generating    bool
	SendingChat   bool
	ExpandedChart bool
	ShowSettings  bool
}

// Status is the outcome line of the last upload or chart attempt.
type Status struct {
	Success bool
	Message string
}

// Options configures a Session.
type Options struct {
	// ClearStagedOnUpload drops the staged file once its upload succeeds.
	ClearStagedOnUpload bool
	// Themes persists the dark mode preference. Nil keeps it in memory.
	Themes ThemeStore
	Logger *zap.Logger
	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Session is the client state record.
type Session struct {
	opts   Options
	logger *zap.Logger

	ui     UIState
	notice string

	drag   acquire.DragTracker
	staged *acquire.CandidateFile

	uploadEpoch  uint64
	uploadResult *Status
	dataset      *analysis.DatasetDescriptor

	chartEpoch  uint64
	chart       *analysis.ChartResult
	chartStatus *Status

	history      []ChatEntry
	pendingChats int
}

// New creates a session. The dark mode flag is restored from opts.Themes.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	s := &Session{opts: opts, logger: opts.Logger}
	if opts.Themes != nil {
		s.ui.DarkMode = opts.Themes.LoadDarkMode()
	}
	return s
}

// UI returns a copy of the UI flags.
func (s *Session) UI() UIState { return s.ui }

// Notice is the last blocking validation message, if any.
func (s *Session) Notice() string { return s.notice }

// ClearNotice dismisses the validation notice.
func (s *Session) ClearNotice() { s.notice = "" }

func (s *Session) setNotice(msg string) {
	s.notice = msg
	s.logger.Debug("Validation notice", zap.String("notice", msg))
}

// SetTab switches the active view.
func (s *Session) SetTab(t Tab) {
	if t < TabUpload || t > TabAbout {
		return
	}
	s.ui.ActiveTab = t
}

// NextTab cycles forward through the tabs.
func (s *Session) NextTab() {
	s.ui.ActiveTab = (s.ui.ActiveTab + 1) % Tab(len(tabNames))
}

// PrevTab cycles backward through the tabs.
func (s *Session) PrevTab() {
	n := Tab(len(tabNames))
	s.ui.ActiveTab = (s.ui.ActiveTab + n - 1) % n
}

// ToggleExpandedChart resizes the visualization panel on the upload tab.
// It does nothing on other tabs.
func (s *Session) ToggleExpandedChart() {
	if s.ui.ActiveTab != TabUpload {
		return
	}
	s.ui.ExpandedChart = !s.ui.ExpandedChart
}

// ToggleSettings opens or closes the settings overlay.
func (s *Session) ToggleSettings() {
	s.ui.ShowSettings = !s.ui.ShowSettings
}
