package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyAction represents an action triggered by a key press.
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionQuit
	ActionToggleHelp
	ActionNextTab
	ActionPrevTab
	ActionSelectTab
	ActionToggleTheme
	ActionToggleSettings
	ActionDismiss
	ActionUpload
	ActionToggleExpanded
	ActionExport
	ActionSubmit
	ActionPageUp
	ActionPageDown
)

// Focus is the widget that receives plain keys.
type Focus int

const (
	FocusNone Focus = iota
	FocusPicker
	FocusInput
	FocusSettings
)

// KeyHandler maps key presses to actions. Keys that map to ActionNone are
// passed on to the focused widget.
type KeyHandler struct{}

// NewKeyHandler creates a new key handler.
func NewKeyHandler() *KeyHandler {
	return &KeyHandler{}
}

// Handle processes a key message and returns the action. For
// ActionSelectTab the int is the tab index.
func (k *KeyHandler) Handle(msg tea.KeyMsg, focus Focus) (KeyAction, int) {
	if msg.Paste {
		return ActionNone, 0
	}
	key := msg.String()

	switch key {
	case "ctrl+c":
		return ActionQuit, 0
	case "tab":
		return ActionNextTab, 0
	case "shift+tab":
		return ActionPrevTab, 0
	case "alt+1", "f1":
		return ActionSelectTab, 0
	case "alt+2", "f2":
		return ActionSelectTab, 1
	case "alt+3", "f3":
		return ActionSelectTab, 2
	case "alt+4", "f4":
		return ActionSelectTab, 3
	case "ctrl+t":
		return ActionToggleTheme, 0
	case "ctrl+o":
		return ActionToggleSettings, 0
	case "ctrl+u":
		return ActionUpload, 0
	case "ctrl+e":
		return ActionToggleExpanded, 0
	case "ctrl+x":
		return ActionExport, 0
	case "esc":
		return ActionDismiss, 0
	}

	switch focus {
	case FocusInput:
		switch key {
		case "enter":
			return ActionSubmit, 0
		case "pgup":
			return ActionPageUp, 0
		case "pgdown":
			return ActionPageDown, 0
		}
	case FocusSettings:
		switch key {
		case "d", " ", "enter":
			return ActionToggleTheme, 0
		case "q":
			return ActionDismiss, 0
		}
	case FocusPicker, FocusNone:
		switch key {
		case "q":
			return ActionQuit, 0
		case "?":
			return ActionToggleHelp, 0
		case "u":
			if focus == FocusPicker {
				return ActionUpload, 0
			}
		}
	}
	return ActionNone, 0
}
