package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/interpretive-systems/futuresight/internal/theme"
	"github.com/interpretive-systems/futuresight/internal/tui/components"
	"go.uber.org/zap"
)

// State holds all application state that lives outside the session record:
// geometry, widgets and transient messages.
type State struct {
	Session *session.Session
	Backend Backend
	Logger  *zap.Logger

	// Environment
	APIURL    string
	PrefsPath string
	ExportDir string
	Now       func() time.Time

	// UI State
	Width    int
	Height   int
	ShowHelp bool
	Info     string
	InfoOK   bool

	// Widgets
	Picker     filepicker.Model
	Prompt     textinput.Model
	ChatInput  textinput.Model
	Transcript viewport.Model
	Spinner    spinner.Model

	// Components
	StatusBar *components.StatusBar
	ChartView *components.ChartView
	ChatView  *components.ChatView

	// Theme
	Theme theme.Theme

	historyLen int
}

// NewState creates initial application state.
func NewState(opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir = "."
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	picker := filepicker.New()
	picker.CurrentDirectory = startDir
	picker.AllowedTypes = []string{".csv", ".xlsx", ".xls"}
	picker.AutoHeight = false
	picker.ShowPermissions = false

	prompt := newInput("Describe the chart you want, e.g. monthly revenue as a bar chart", 500)
	chat := newInput("Ask a question about your data", 1000)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &State{
		Session:    opts.Session,
		Backend:    opts.Backend,
		Logger:     logger,
		APIURL:     opts.APIURL,
		PrefsPath:  opts.PrefsPath,
		ExportDir:  exportDir,
		Now:        now,
		Picker:     picker,
		Prompt:     prompt,
		ChatInput:  chat,
		Transcript: viewport.New(0, 0),
		Spinner:    sp,
		StatusBar:  components.NewStatusBar(),
		ChartView:  components.NewChartView(),
		ChatView:   components.NewChatView(),
		Theme:      theme.For(opts.Session.UI().DarkMode),
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = "› "
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}
