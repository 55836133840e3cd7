// Package stats tracks transcription totals and history with JSON
// persistence. The daemon is the single writer; the viewer process only
// re-loads the file and treats it as eventually consistent.
package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	appName       = "wispr"
	statsFileName = "stats.json"

	// maxHistory caps the history list; the oldest records drop first.
	maxHistory = 100
)

// Record is one persisted transcription history entry. Records are never
// mutated after creation.
type Record struct {
	Timestamp    string  `json:"timestamp"`
	Text         string  `json:"text"`
	WordCount    int     `json:"word_count"`
	AudioSeconds float64 `json:"audio_duration"`
	Model        string  `json:"model"`
}

// Snapshot is the full persisted state: running totals plus the newest-first
// history.
type Snapshot struct {
	TotalWords         int      `json:"total_words"`
	TotalTranscription int      `json:"total_transcriptions"`
	TotalAudioSeconds  float64  `json:"total_audio_seconds"`
	History            []Record `json:"history"`
	CurrentModel       string   `json:"current_model"`
}

func defaults() Snapshot {
	return Snapshot{History: []Record{}, CurrentModel: "base"}
}

// Store is the stats persistent store. Every mutation updates the aggregate
// totals and the history together under the store lock, then rewrites the
// whole file.
type Store struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	snap Snapshot
}

// DefaultPath returns the stats file path under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("stats: get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, statsFileName), nil
}

// Open loads the stats at path, falling back to an empty snapshot when the
// file is missing or unreadable.
func Open(path string) *Store {
	return &Store{path: path, now: time.Now, snap: Load(path)}
}

// Load reads the stats file. Missing or corrupt files yield the empty
// defaults; readers in other processes call this periodically instead of
// caching.
func Load(path string) Snapshot {
	snap := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("read stats", "path", path, "error", err)
		}
		return snap
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("stats file corrupt, starting fresh", "path", path, "error", err)
		return defaults()
	}
	if snap.History == nil {
		snap.History = []Record{}
	}
	return snap
}

// Add records a successful transcription: one new history entry plus the
// aggregate updates, committed together. Empty or whitespace-only text is
// never recorded. The audio duration is rounded to 0.1 s in the record while
// the total accumulates the exact value.
func (s *Store) Add(text string, audioSeconds float64, model string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	wordCount := len(strings.Fields(text))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.TotalWords += wordCount
	s.snap.TotalTranscription++
	s.snap.TotalAudioSeconds += audioSeconds

	record := Record{
		Timestamp:    s.now().Format(time.RFC3339),
		Text:         text,
		WordCount:    wordCount,
		AudioSeconds: math.Round(audioSeconds*10) / 10,
		Model:        model,
	}
	s.snap.History = append([]Record{record}, s.snap.History...)
	if len(s.snap.History) > maxHistory {
		s.snap.History = s.snap.History[:maxHistory]
	}

	return s.save()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	snap.History = append([]Record(nil), s.snap.History...)
	return snap
}

// SetModel persists the currently selected model.
func (s *Store) SetModel(model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.CurrentModel = model
	return s.save()
}

// ClearHistory drops the history list but keeps the totals.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.History = []Record{}
	return s.save()
}

// Reset zeroes everything except the current model selection.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	model := s.snap.CurrentModel
	s.snap = defaults()
	s.snap.CurrentModel = model
	return s.save()
}

// save must be called with s.mu held. On failure the in-memory snapshot
// stays authoritative; the next successful mutation rewrites the full state.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("stats: create data dir: %w", err)
	}
	data, err := json.MarshalIndent(s.snap, "", "  ")
	if err != nil {
		return fmt.Errorf("stats: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("stats: write: %w", err)
	}
	return nil
}
