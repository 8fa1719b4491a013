package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyHandler(t *testing.T) {
	k := NewKeyHandler()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		focus  Focus
		action KeyAction
		n      int
	}{
		{"ctrl+c always quits", tea.KeyMsg{Type: tea.KeyCtrlC}, FocusInput, ActionQuit, 0},
		{"q quits from the picker", runes("q"), FocusPicker, ActionQuit, 0},
		{"q is text in an input", runes("q"), FocusInput, ActionNone, 0},
		{"q closes settings", runes("q"), FocusSettings, ActionDismiss, 0},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, FocusInput, ActionNextTab, 0},
		{"shift+tab", tea.KeyMsg{Type: tea.KeyShiftTab}, FocusPicker, ActionPrevTab, 0},
		{"alt+2", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true}, FocusInput, ActionSelectTab, 1},
		{"f4", tea.KeyMsg{Type: tea.KeyF4}, FocusPicker, ActionSelectTab, 3},
		{"enter submits an input", tea.KeyMsg{Type: tea.KeyEnter}, FocusInput, ActionSubmit, 0},
		{"enter goes to the picker", tea.KeyMsg{Type: tea.KeyEnter}, FocusPicker, ActionNone, 0},
		{"u uploads from the picker", runes("u"), FocusPicker, ActionUpload, 0},
		{"u is text in an input", runes("u"), FocusInput, ActionNone, 0},
		{"d toggles theme in settings", runes("d"), FocusSettings, ActionToggleTheme, 0},
		{"pgup scrolls the transcript", tea.KeyMsg{Type: tea.KeyPgUp}, FocusInput, ActionPageUp, 0},
		{"ctrl+x exports", tea.KeyMsg{Type: tea.KeyCtrlX}, FocusInput, ActionExport, 0},
		{"paste is never an action", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Paste: true}, FocusPicker, ActionNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, n := k.Handle(tt.msg, tt.focus)
			if action != tt.action || n != tt.n {
				t.Fatalf("Handle(%q) = (%d, %d), want (%d, %d)", tt.msg.String(), action, n, tt.action, tt.n)
			}
		})
	}
}
