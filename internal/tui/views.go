package tui

import (
	"fmt"
	"strings"

	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/interpretive-systems/futuresight/internal/tui/components"
)

// Lines of the upload and insights tabs that are not the picker or the
// transcript.
const (
	uploadChromeLines   = 7
	insightsChromeLines = 3
)

var tabLabels = map[session.Tab]string{
	session.TabUpload:    "Upload",
	session.TabDashboard: "Dashboard",
	session.TabInsights:  "Insights",
	session.TabAbout:     "About",
}

func (p Program) tabBar() string {
	th := p.state.Theme
	active := p.state.Session.UI().ActiveTab
	var parts []string
	for _, t := range session.Tabs() {
		if t == active {
			parts = append(parts, th.ActiveTab(tabLabels[t]))
		} else {
			parts = append(parts, th.InactiveTab(tabLabels[t]))
		}
	}
	return strings.Join(parts, "")
}

func hintsFor(ui session.UIState) string {
	if ui.ShowSettings {
		return "d: toggle dark mode • esc: close"
	}
	switch ui.ActiveTab {
	case session.TabUpload:
		return "enter: pick • ctrl+u: upload • ctrl+e: expand chart • tab: next view • ?: help • q: quit"
	case session.TabDashboard:
		return "enter: generate • ctrl+x: export • tab: next view • ctrl+c: quit"
	case session.TabInsights:
		return "enter: send • pgup/pgdn: scroll • tab: next view • ctrl+c: quit"
	default:
		return "tab: next view • ctrl+t: theme • ctrl+o: settings • q: quit"
	}
}

func (p Program) uploadLeftLines(width, height int) []string {
	s := p.state
	th := s.Theme
	ui := s.Session.UI()

	lines := []string{th.Title("Upload data")}
	if s.Session.Dragging() {
		lines = append(lines, th.Accent("Drop the file to stage it"))
	} else {
		lines = append(lines, th.Muted("Pick a CSV or Excel file, or drop one here"))
	}
	lines = append(lines, "")

	pickerH := height - uploadChromeLines
	if pickerH < 3 {
		pickerH = 3
	}
	picker := strings.Split(strings.TrimRight(s.Picker.View(), "\n"), "\n")
	if len(picker) > pickerH {
		picker = picker[:pickerH]
	}
	lines = append(lines, picker...)
	lines = append(lines, "")

	lines = append(lines, components.StagedLines(s.Session.Staged(), width, th)...)
	switch {
	case ui.Uploading:
		lines = append(lines, th.Accent(s.Spinner.View()+" Uploading…"))
	case s.Session.CanUpload():
		lines = append(lines, th.Accent("[ Upload ]")+th.Muted(" ctrl+u"))
	default:
		lines = append(lines, th.Muted("[ Upload ]"))
	}
	if res := s.Session.UploadResult(); res != nil {
		lines = append(lines, th.Status(res.Success, res.Message))
	}
	return lines
}

func (p Program) uploadRightLines(width, height int) []string {
	s := p.state
	th := s.Theme
	ui := s.Session.UI()

	dataset := components.DatasetLines(s.Session.Dataset(), width, th)
	if dataset == nil {
		dataset = []string{th.Muted("Upload a file to see its columns and sample rows.")}
	}

	s.ChartView.SetExpanded(ui.ExpandedChart)
	visual := append([]string{th.Title("Visualization")}, s.ChartView.Render(width, 0, th)...)

	var lines []string
	if ui.ExpandedChart {
		lines = append(visual, "")
		lines = append(lines, dataset...)
	} else {
		lines = append(dataset, "")
		lines = append(lines, visual...)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

func (p Program) dashboardLines(width, height int) []string {
	s := p.state
	th := s.Theme

	lines := []string{th.Title("Generate a chart")}
	if s.Session.HasDataset() {
		d := s.Session.Dataset()
		lines = append(lines, th.Muted(fmt.Sprintf("Dataset: %d columns, %d rows", d.ColumnCount, d.RowCount)))
	} else {
		lines = append(lines, th.Muted("Upload a dataset first (alt+1)."))
	}
	lines = append(lines, "", s.Prompt.View(), "")

	s.ChartView.SetExpanded(true)
	lines = append(lines, s.ChartView.Render(width, height-len(lines), th)...)
	return lines
}

func (p Program) insightsLines() []string {
	s := p.state
	th := s.Theme

	var context string
	if s.Session.HasDataset() {
		context = th.Muted("Answers use your dataset's columns and sample rows.")
	} else {
		context = th.Muted("No dataset uploaded. Answers will be general.")
	}
	lines := []string{context}
	lines = append(lines, strings.Split(s.Transcript.View(), "\n")...)
	lines = append(lines, "", s.ChatInput.View())
	return lines
}

func (p Program) aboutLines() []string {
	th := p.state.Theme
	return []string{
		th.Title("About Future Sight"),
		"",
		"Upload a CSV or Excel file, describe the chart you want in plain",
		"language, and ask questions about your data. The analysis service",
		"does the work; this client stages files, sends requests and shows",
		"the results.",
		"",
		th.Muted("Service: ") + p.state.APIURL,
		"",
		th.Title("Views"),
		"  Upload     pick or drop a file, upload it, inspect the dataset",
		"  Dashboard  generate a chart from a prompt, export it with ctrl+x",
		"  Insights   chat about the uploaded dataset",
		"",
		th.Muted("Press ? on this view or the upload view for key bindings."),
	}
}

func (p Program) overlayLines() []string {
	s := p.state
	switch {
	case s.Session.UI().ShowSettings:
		return p.settingsOverlayLines()
	case s.ShowHelp:
		return p.helpOverlayLines()
	}
	return nil
}

func (p Program) settingsOverlayLines() []string {
	s := p.state
	th := s.Theme
	dark := "off"
	if s.Session.UI().DarkMode {
		dark = "on"
	}
	prefsPath := s.PrefsPath
	if prefsPath == "" {
		prefsPath = "(not persisted)"
	}
	return []string{
		th.DividerText(strings.Repeat("─", s.Width)),
		th.Title("Settings"),
		fmt.Sprintf("  Dark mode     %s  %s", th.Accent(dark), th.Muted("(d to toggle)")),
		fmt.Sprintf("  Preferences   %s", prefsPath),
		fmt.Sprintf("  Service       %s", s.APIURL),
	}
}

func (p Program) helpOverlayLines() []string {
	th := p.state.Theme
	return []string{
		th.DividerText(strings.Repeat("─", p.state.Width)),
		th.Title("Keys"),
		"  tab / shift+tab   next / previous view      alt+1..4  jump to view",
		"  enter             pick, generate or send    ctrl+u    upload staged file",
		"  ctrl+e            expand visualization      ctrl+x    export chart",
		"  ctrl+t            toggle dark mode          ctrl+o    settings",
		"  esc               close or dismiss          q         quit (upload, about)",
	}
}
