// File: hotelier/prefs/prefs.go
package prefs

import (
	"encoding/json"
	"sync"

	"hotelier/storage"
)

// Theme is the guest's display preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type persisted struct {
	Theme Theme `json:"theme"`
}

// Manager holds UI preferences. The stored preference may be "system", which
// defers to the host's dark-mode signal at resolve time.
type Manager struct {
	mu    sync.Mutex
	theme Theme
	store storage.Store
}

// NewManager loads the persisted preference; a missing or corrupt blob
// falls back to system.
func NewManager(store storage.Store) *Manager {
	m := &Manager{theme: ThemeSystem, store: store}
	if data, err := store.Load(storage.KeyPreferences); err == nil {
		var saved persisted
		if json.Unmarshal(data, &saved) == nil {
			switch saved.Theme {
			case ThemeLight, ThemeDark, ThemeSystem:
				m.theme = saved.Theme
			}
		}
	}
	return m
}

// Theme returns the stored preference.
func (m *Manager) Theme() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

// SetTheme stores a preference. Unknown values normalize to system.
func (m *Manager) SetTheme(t Theme) {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		t = ThemeSystem
	}
	m.mu.Lock()
	m.theme = t
	m.mu.Unlock()
	if data, err := json.Marshal(persisted{Theme: t}); err == nil {
		_ = m.store.Save(storage.KeyPreferences, data)
	}
}

// Resolve maps the preference to a concrete theme: explicit choices win,
// system follows the host's dark-mode signal.
func (m *Manager) Resolve(systemDark bool) Theme {
	switch m.Theme() {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		if systemDark {
			return ThemeDark
		}
		return ThemeLight
	}
}
