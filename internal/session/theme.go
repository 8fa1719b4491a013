package session

import "go.uber.org/zap"

// ThemeStore persists the dark mode preference across restarts.
type ThemeStore interface {
	// LoadDarkMode returns the stored flag, false when absent or unreadable.
	LoadDarkMode() bool
	SaveDarkMode(v bool) error
}

// ToggleTheme flips dark mode and persists it. A persistence error is
// returned but the in-memory toggle stands.
func (s *Session) ToggleTheme() error {
	return s.SetDarkMode(!s.ui.DarkMode)
}

// SetDarkMode sets dark mode and persists it.
func (s *Session) SetDarkMode(v bool) error {
	s.ui.DarkMode = v
	if s.opts.Themes == nil {
		return nil
	}
	if err := s.opts.Themes.SaveDarkMode(v); err != nil {
		s.logger.Error("Failed to persist theme preference", zap.Bool("dark", v), zap.Error(err))
		return err
	}
	return nil
}
