// Package theme defines the dark and light color palettes.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines customizable colors for rendering.
type Theme struct {
	Name           string `json:"name"`
	AccentColor    string `json:"accentColor"`
	MutedColor     string `json:"mutedColor"`
	SuccessColor   string `json:"successColor"`
	ErrorColor     string `json:"errorColor"`
	DividerColor   string `json:"dividerColor"`
	UserColor      string `json:"userColor"`
	AssistantColor string `json:"assistantColor"`
	BarColor       string `json:"barColor"`
	ActiveTabFg    string `json:"activeTabFg"`
	ActiveTabBg    string `json:"activeTabBg"`
}

// Dark is the palette used when dark mode is on.
func Dark() Theme {
	return Theme{
		Name:           "dark",
		AccentColor:    "141",
		MutedColor:     "244",
		SuccessColor:   "42",
		ErrorColor:     "203",
		DividerColor:   "240",
		UserColor:      "75",
		AssistantColor: "183",
		BarColor:       "99",
		ActiveTabFg:    "230",
		ActiveTabBg:    "62",
	}
}

// Light is the default palette.
func Light() Theme {
	return Theme{
		Name:           "light",
		AccentColor:    "55",
		MutedColor:     "243",
		SuccessColor:   "28",
		ErrorColor:     "160",
		DividerColor:   "250",
		UserColor:      "25",
		AssistantColor: "90",
		BarColor:       "62",
		ActiveTabFg:    "255",
		ActiveTabBg:    "55",
	}
}

// DefaultTheme is the palette used before any preference is stored.
func DefaultTheme() Theme {
	return Light()
}

// For returns the palette for the given dark mode flag.
func For(dark bool) Theme {
	if dark {
		return Dark()
	}
	return Light()
}

// GlamourStyle names the glamour standard style matching the palette.
func (t Theme) GlamourStyle() string {
	if t.Name == "dark" {
		return "dark"
	}
	return "light"
}

func (t Theme) fg(c, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(s)
}

func (t Theme) Accent(s string) string { return t.fg(t.AccentColor, s) }

func (t Theme) Muted(s string) string { return t.fg(t.MutedColor, s) }

func (t Theme) SuccessText(s string) string { return t.fg(t.SuccessColor, s) }

func (t Theme) ErrorText(s string) string { return t.fg(t.ErrorColor, s) }

func (t Theme) DividerText(s string) string { return t.fg(t.DividerColor, s) }

func (t Theme) UserText(s string) string { return t.fg(t.UserColor, s) }

func (t Theme) AssistantText(s string) string { return t.fg(t.AssistantColor, s) }

func (t Theme) Bar(s string) string { return t.fg(t.BarColor, s) }

// Title renders a bold accent heading.
func (t Theme) Title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.AccentColor)).Render(s)
}

// Status renders s in the success or error color.
func (t Theme) Status(ok bool, s string) string {
	if ok {
		return t.SuccessText(s)
	}
	return t.ErrorText(s)
}

// ActiveTab renders the label of the selected tab.
func (t Theme) ActiveTab(s string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.ActiveTabFg)).
		Background(lipgloss.Color(t.ActiveTabBg)).
		Padding(0, 1).
		Render(s)
}

// InactiveTab renders the label of an unselected tab.
func (t Theme) InactiveTab(s string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MutedColor)).
		Padding(0, 1).
		Render(s)
}
