package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// View modes.
const (
	ViewModeGrid = "grid"
	ViewModeList = "list"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const prefsFileName = "prefs.json"

// Preferences is the slice of store state that survives restarts.
type Preferences struct {
	Theme         string `json:"theme"`
	ViewMode      string `json:"viewMode"`
	ShowFavorites bool   `json:"showFavorites"`
}

func defaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, ViewMode: ViewModeGrid}
}

func prefsPath(dir string) string {
	return filepath.Join(dir, prefsFileName)
}

// Prefs returns a copy of the current preferences.
func (s *Store) Prefs() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetTheme updates the theme and persists the preferences.
func (s *Store) SetTheme(theme string) error {
	return s.setPrefs(func(p *Preferences) { p.Theme = theme })
}

// SetViewMode updates the view mode and persists the preferences.
func (s *Store) SetViewMode(mode string) error {
	return s.setPrefs(func(p *Preferences) { p.ViewMode = mode })
}

// SetShowFavorites updates the favorites filter and persists the
// preferences.
func (s *Store) SetShowFavorites(show bool) error {
	return s.setPrefs(func(p *Preferences) { p.ShowFavorites = show })
}

func (s *Store) setPrefs(fn func(*Preferences)) error {
	var snapshot Preferences
	s.mutate(func() {
		fn(&s.prefs)
		snapshot = s.prefs
	})
	return writePrefs(s.prefsPath, snapshot)
}

// loadPrefs reads the persisted preferences. A missing file keeps the
// defaults; a corrupt file is logged and discarded.
func (s *Store) loadPrefs() error {
	data, err := os.ReadFile(s.prefsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading preferences: %w", err)
	}
	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Warn("discarding corrupt preferences file", "path", s.prefsPath, "error", err)
		return nil
	}
	if p.Theme == "" {
		p.Theme = ThemeLight
	}
	if p.ViewMode == "" {
		p.ViewMode = ViewModeGrid
	}
	s.prefs = p
	return nil
}

// writePrefs writes the preferences atomically: temp file in the same
// directory, fsync, then rename over the target.
func writePrefs(path string, p Preferences) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp preferences file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing preferences: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}
