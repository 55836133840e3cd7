// Package config persists application settings as a single JSON document
// with exclusive-write discipline and defaults merged on load.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	appName          = "wispr"
	settingsFileName = "settings.json"
)

// Settings holds the persisted configuration. Fields absent from the saved
// file keep their defaults, so settings introduced by later versions
// backfill automatically.
type Settings struct {
	FlowBarEnabled      bool   `json:"flow_bar_enabled"`
	SoundEffectsEnabled bool   `json:"sound_effects_enabled"`
	CurrentModel        string `json:"current_model"`
	Hotkey              string `json:"hotkey"`
	Language            string `json:"language"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		FlowBarEnabled:      true,
		SoundEffectsEnabled: true,
		CurrentModel:        "base",
		Hotkey:              "ctrl+win",
		Language:            "en",
	}
}

// Store is the settings persistent store. All mutations are read-modify-write
// under the store's lock followed by a whole-file rewrite. Only same-process
// concurrency is arbitrated; cross-process consistency relies on there being
// a single designated writer.
type Store struct {
	path string

	mu       sync.Mutex
	settings Settings
}

// DefaultPath returns the settings file path under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, settingsFileName), nil
}

// Open loads the settings at path, falling back to defaults when the file is
// missing or unreadable.
func Open(path string) *Store {
	return &Store{path: path, settings: Load(path)}
}

// Load reads and merges the settings file over the defaults. A missing or
// corrupt file yields exactly the defaults; a partial file keeps its saved
// values and backfills the rest.
func Load(path string) Settings {
	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("read settings", "path", path, "error", err)
		}
		return settings
	}
	// Unmarshal over the defaults: present keys win, absent keys keep
	// their default values.
	if err := json.Unmarshal(data, &settings); err != nil {
		slog.Warn("settings file corrupt, using defaults", "path", path, "error", err)
		return Defaults()
	}
	return settings
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Mutate applies fn to the settings under the store lock and rewrites the
// file. The in-memory snapshot stays authoritative when the write fails; the
// next successful mutation retries the write naturally.
func (s *Store) Mutate(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
	return s.save()
}

// SetCurrentModel persists the active model name.
func (s *Store) SetCurrentModel(model string) error {
	return s.Mutate(func(st *Settings) { st.CurrentModel = model })
}

// SetSoundEffectsEnabled persists the tone-feedback toggle.
func (s *Store) SetSoundEffectsEnabled(enabled bool) error {
	return s.Mutate(func(st *Settings) { st.SoundEffectsEnabled = enabled })
}

// SetFlowBarEnabled persists the status-indicator toggle.
func (s *Store) SetFlowBarEnabled(enabled bool) error {
	return s.Mutate(func(st *Settings) { st.FlowBarEnabled = enabled })
}

// SetHotkey persists the push-to-talk combo spec. The monitor picks it up on
// the next restart.
func (s *Store) SetHotkey(spec string) error {
	return s.Mutate(func(st *Settings) { st.Hotkey = spec })
}

// Reset restores the defaults and persists them.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = Defaults()
	return s.save()
}

// save must be called with s.mu held.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create config dir: %w", err)
	}
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}
