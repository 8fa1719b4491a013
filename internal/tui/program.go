// Package tui is the terminal front end: a Bubble Tea program with upload,
// dashboard, insights and about tabs over a session.Session.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/interpretive-systems/futuresight/internal/acquire"
	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/interpretive-systems/futuresight/internal/theme"
	"go.uber.org/zap"
)

// Options configures the program.
type Options struct {
	Session *session.Session
	Backend Backend
	Logger  *zap.Logger
	// StartDir is where the pick dialog opens.
	StartDir string
	// ExportDir receives exported chart images.
	ExportDir string
	APIURL    string
	PrefsPath string
	Now       func() time.Time
}

// Program is the main TUI program.
type Program struct {
	state      *State
	layout     *Layout
	keyHandler *KeyHandler
}

// New creates a program over opts.Session.
func New(opts Options) Program {
	return Program{
		state:      NewState(opts),
		layout:     NewLayout(),
		keyHandler: NewKeyHandler(),
	}
}

// Run instantiates and runs the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// Init implements tea.Model.
func (p Program) Init() tea.Cmd {
	p.state.Logger.Info("TUI started", zap.String("api", p.state.APIURL))
	p.syncFocus()
	return p.state.Picker.Init()
}

// Update implements tea.Model.
func (p Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := p.update(msg)
	p.refresh()
	return p, cmd
}

func (p Program) update(msg tea.Msg) tea.Cmd {
	s := p.state
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width = msg.Width
		s.Height = msg.Height
		p.layout.SetSize(msg.Width, msg.Height)
		p.layout.SetExpanded(s.Session.UI().ExpandedChart)
		p.resize()
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)

	case spinner.TickMsg:
		if !p.busy() {
			return nil
		}
		var cmd tea.Cmd
		s.Spinner, cmd = s.Spinner.Update(msg)
		return cmd

	case uploadDoneMsg:
		if s.Session.CompleteUpload(msg.ticket, msg.desc, msg.err) {
			s.Logger.Debug("Upload applied", zap.Bool("ok", msg.err == nil))
		}
		return nil

	case chartDoneMsg:
		if s.Session.CompleteChart(msg.ticket, msg.result, msg.err) {
			s.Logger.Debug("Chart applied", zap.Bool("ok", msg.err == nil))
		}
		return nil

	case chatDoneMsg:
		s.Session.CompleteChat(msg.ticket, msg.reply, msg.err)
		return nil

	case exportDoneMsg:
		if msg.err != nil {
			s.Logger.Warn("Chart export failed", zap.Error(msg.err))
			p.flash(fmt.Sprintf("Export failed: %v", msg.err), false)
			return nil
		}
		s.Logger.Info("Chart exported", zap.String("path", msg.path))
		p.flash("Chart saved to "+msg.path, true)
		return nil
	}

	// Directory listings and other picker-internal messages.
	var cmd tea.Cmd
	s.Picker, cmd = s.Picker.Update(msg)
	return cmd
}

func (p Program) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := p.state
	ui := s.Session.UI()

	if msg.Paste && ui.ActiveTab == session.TabUpload && !ui.ShowSettings {
		p.dropPasted(string(msg.Runes))
		return nil
	}

	action, n := p.keyHandler.Handle(msg, p.focus())
	switch action {
	case ActionQuit:
		s.Logger.Info("TUI quit")
		return tea.Quit
	case ActionToggleHelp:
		s.ShowHelp = !s.ShowHelp
		p.resize()
	case ActionNextTab:
		s.Session.NextTab()
		p.syncFocus()
	case ActionPrevTab:
		s.Session.PrevTab()
		p.syncFocus()
	case ActionSelectTab:
		s.Session.SetTab(session.Tab(n))
		p.syncFocus()
	case ActionToggleTheme:
		if err := s.Session.ToggleTheme(); err != nil {
			p.flash("Theme preference could not be saved", false)
		}
		s.Theme = theme.For(s.Session.UI().DarkMode)
	case ActionToggleSettings:
		s.Session.ToggleSettings()
		p.syncFocus()
		p.resize()
	case ActionDismiss:
		return p.dismiss(msg)
	case ActionUpload:
		return p.startUpload()
	case ActionToggleExpanded:
		s.Session.ToggleExpandedChart()
		p.layout.SetExpanded(s.Session.UI().ExpandedChart)
		p.resize()
	case ActionExport:
		return p.startExport()
	case ActionSubmit:
		switch ui.ActiveTab {
		case session.TabDashboard:
			return p.startChart()
		case session.TabInsights:
			return p.startChat()
		}
	case ActionPageUp:
		s.Transcript.PageUp()
	case ActionPageDown:
		s.Transcript.PageDown()
	case ActionNone:
		return p.forward(msg)
	}
	return nil
}

// dismiss closes the topmost overlay or message. With nothing to close, esc
// goes to the focused widget.
func (p Program) dismiss(msg tea.KeyMsg) tea.Cmd {
	s := p.state
	switch {
	case s.Session.UI().ShowSettings:
		s.Session.ToggleSettings()
		p.syncFocus()
		p.resize()
	case s.ShowHelp:
		s.ShowHelp = false
		p.resize()
	case s.Session.Notice() != "":
		s.Session.ClearNotice()
	case s.Info != "":
		p.flash("", true)
	default:
		return p.forward(msg)
	}
	return nil
}

// forward passes a key to the focused widget.
func (p Program) forward(msg tea.KeyMsg) tea.Cmd {
	s := p.state
	var cmd tea.Cmd
	switch p.focus() {
	case FocusPicker:
		s.Picker, cmd = s.Picker.Update(msg)
		if ok, path := s.Picker.DidSelectFile(msg); ok {
			_ = s.Session.Stage(acquire.FromPath(path))
		} else if ok, path := s.Picker.DidSelectDisabledFile(msg); ok {
			_ = s.Session.Stage(acquire.FromPath(path))
		}
	case FocusInput:
		if s.Session.UI().ActiveTab == session.TabDashboard {
			s.Prompt, cmd = s.Prompt.Update(msg)
		} else {
			s.ChatInput, cmd = s.ChatInput.Update(msg)
		}
	}
	return cmd
}

// dropPasted treats pasted text on the upload tab as a dropped file path.
func (p Program) dropPasted(raw string) {
	s := p.state
	s.Session.Drag(acquire.DragEnter)
	if err := s.Session.Drop(acquire.FromDrop(raw)); err != nil {
		s.Logger.Debug("Dropped file rejected", zap.Error(err))
	}
}

func (p Program) startUpload() tea.Cmd {
	s := p.state
	if s.Session.UI().Uploading {
		return nil
	}
	t, err := s.Session.BeginUpload()
	if err != nil {
		return nil
	}
	return tea.Batch(s.Spinner.Tick, uploadFile(s.Backend, t))
}

func (p Program) startChart() tea.Cmd {
	s := p.state
	if s.Session.UI().Generating {
		return nil
	}
	t, err := s.Session.BeginChart(s.Prompt.Value())
	if err != nil {
		return nil
	}
	return tea.Batch(s.Spinner.Tick, generateChart(s.Backend, t))
}

func (p Program) startChat() tea.Cmd {
	s := p.state
	if s.Session.UI().SendingChat {
		return nil
	}
	t, ok := s.Session.BeginChat(s.ChatInput.Value())
	if !ok {
		return nil
	}
	s.ChatInput.Reset()
	return tea.Batch(s.Spinner.Tick, sendChat(s.Backend, t))
}

func (p Program) startExport() tea.Cmd {
	s := p.state
	res := s.Session.Chart()
	if res == nil {
		p.flash("No chart to export", false)
		return nil
	}
	return exportChart(res, s.ExportDir, s.Now())
}

func (p Program) flash(msg string, ok bool) {
	p.state.Info = msg
	p.state.InfoOK = ok
}

func (p Program) busy() bool {
	ui := p.state.Session.UI()
	return ui.Uploading || ui.Generating || ui.SendingChat
}

func (p Program) focus() Focus {
	ui := p.state.Session.UI()
	if ui.ShowSettings {
		return FocusSettings
	}
	switch ui.ActiveTab {
	case session.TabUpload:
		return FocusPicker
	case session.TabDashboard, session.TabInsights:
		return FocusInput
	default:
		return FocusNone
	}
}

// syncFocus focuses the text input of the active tab.
func (p Program) syncFocus() {
	s := p.state
	s.Prompt.Blur()
	s.ChatInput.Blur()
	if p.focus() != FocusInput {
		return
	}
	switch s.Session.UI().ActiveTab {
	case session.TabDashboard:
		s.Prompt.Focus()
	case session.TabInsights:
		s.ChatInput.Focus()
	}
}

// resize fits the widgets to the layout.
func (p Program) resize() {
	s := p.state
	if s.Width == 0 {
		return
	}
	h := p.layout.ContentHeight(len(p.overlayLines()))

	pickerH := h - uploadChromeLines
	if pickerH < 3 {
		pickerH = 3
	}
	s.Picker.SetHeight(pickerH)

	s.Prompt.Width = s.Width - 4
	s.ChatInput.Width = s.Width - 4

	s.Transcript.Width = s.Width
	s.Transcript.Height = h - insightsChromeLines
	if s.Transcript.Height < 1 {
		s.Transcript.Height = 1
	}
}

// refresh pushes session state into the components after every update.
func (p Program) refresh() {
	s := p.state
	ui := s.Session.UI()

	var busy string
	if ui.Generating {
		busy = s.Spinner.View() + " Generating chart…"
	}
	s.ChartView.SetBusy(busy)
	s.ChartView.SetStatus(s.Session.ChartStatus())
	s.ChartView.SetResult(s.Session.Chart())

	history := s.Session.History()
	var thinking string
	if ui.SendingChat {
		thinking = s.Spinner.View() + " Thinking…"
	}
	atBottom := s.Transcript.AtBottom()
	s.Transcript.SetContent(s.ChatView.Render(history, s.Transcript.Width, thinking, s.Theme))
	if len(history) != s.historyLen || atBottom {
		s.Transcript.GotoBottom()
	}
	s.historyLen = len(history)

	s.StatusBar.SetHints(hintsFor(ui))
	s.StatusBar.SetNotice(s.Session.Notice())
	s.StatusBar.SetInfo(s.Info, s.InfoOK)
	s.StatusBar.SetActivity(p.activity())
}

func (p Program) activity() string {
	ui := p.state.Session.UI()
	var parts []string
	if ui.Uploading {
		parts = append(parts, "uploading")
	}
	if ui.Generating {
		parts = append(parts, "generating")
	}
	if ui.SendingChat {
		parts = append(parts, "thinking")
	}
	if len(parts) == 0 {
		return ""
	}
	return p.state.Spinner.View() + " " + strings.Join(parts, ", ")
}

// View implements tea.Model.
func (p Program) View() string {
	s := p.state
	if s.Width == 0 || s.Height == 0 {
		return "Loading..."
	}
	th := s.Theme

	overlay := p.overlayLines()
	h := p.layout.ContentHeight(len(overlay))

	var left, right []string
	switch s.Session.UI().ActiveTab {
	case session.TabUpload:
		left = p.uploadLeftLines(p.layout.LeftWidth(), h)
		right = p.uploadRightLines(p.layout.RightWidth(), h)
	case session.TabDashboard:
		left = p.dashboardLines(s.Width, h)
	case session.TabInsights:
		left = p.insightsLines()
	default:
		left = p.aboutLines()
	}

	return p.layout.RenderFrame(
		th.Title("Future Sight")+" "+th.Muted(s.APIURL),
		p.tabBar(),
		left, right,
		overlay,
		s.StatusBar.Render(s.Width, th),
		th,
	)
}
