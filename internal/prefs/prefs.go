package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prefs represents persisted UI preferences.
type Prefs struct {
	DarkMode    bool
	DarkModeSet bool
}

const keyDarkMode = "futuresight.darkMode"

// Store keeps preferences as flat keys in a YAML file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path. The file is created on
// first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is <user config dir>/futuresight/prefs.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "futuresight", "prefs.yaml")
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load reads preferences. Missing or unparsable values read as unset.
func (s *Store) Load() Prefs {
	var p Prefs
	if v, ok := s.get(keyDarkMode); ok {
		p.DarkModeSet = true
		p.DarkMode = parseBool(v)
	}
	return p
}

// LoadDarkMode returns the dark mode preference, false when unset.
func (s *Store) LoadDarkMode() bool {
	return s.Load().DarkMode
}

// SaveDarkMode persists the dark mode preference.
func (s *Store) SaveDarkMode(v bool) error {
	return s.set(keyDarkMode, boolStr(v))
}

func (s *Store) read() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	kv := make(map[string]string, len(raw))
	for k, v := range raw {
		kv[k] = fmt.Sprint(v)
	}
	return kv, nil
}

func (s *Store) get(key string) (string, bool) {
	kv, err := s.read()
	if err != nil {
		return "", false
	}
	v, ok := kv[key]
	return strings.TrimSpace(v), ok
}

func (s *Store) set(key, value string) error {
	kv, err := s.read()
	if err != nil {
		// An unreadable file is replaced rather than blocking the save.
		kv = map[string]string{}
	}
	kv[key] = value

	b, err := yaml.Marshal(kv)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write prefs %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write prefs %s: %w", key, err)
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
