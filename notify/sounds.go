package notify

import (
	"log/slog"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

// Tone frequencies and durations for the audible cues.
const (
	startFreq   = 800.0
	startMillis = 100
	stopFreq    = 600.0
	stopMillis  = 100
	doneFreq    = 1000.0
	doneMillis  = 150
	errFreq     = 300.0
	errMillis   = 200
)

// Sounds plays short tones on session transitions. Playback is gated by
// an atomic flag so the sound_effects_enabled setting can be toggled at
// runtime without restarting the session.
type Sounds struct {
	enabled atomic.Bool
	beep    func(freq float64, millis int) error
}

// NewSounds returns a tone presenter, initially set per enabled.
func NewSounds(enabled bool) *Sounds {
	s := &Sounds{beep: asyncBeep}
	s.enabled.Store(enabled)
	return s
}

// asyncBeep plays in the background so the session never waits out the
// tone duration.
func asyncBeep(freq float64, millis int) error {
	go func() {
		if err := beeep.Beep(freq, millis); err != nil {
			slog.Debug("tone playback failed", "freq", freq, "error", err)
		}
	}()
	return nil
}

// SetEnabled toggles tone playback.
func (s *Sounds) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

func (s *Sounds) RecordingStarted() { s.play(startFreq, startMillis) }
func (s *Sounds) Processing()       { s.play(stopFreq, stopMillis) }
func (s *Sounds) Success(int)       { s.play(doneFreq, doneMillis) }
func (s *Sounds) NoSpeech()         {}
func (s *Sounds) Error(string)      { s.play(errFreq, errMillis) }
func (s *Sounds) Idle()             {}

func (s *Sounds) play(freq float64, millis int) {
	if !s.enabled.Load() {
		return
	}
	if err := s.beep(freq, millis); err != nil {
		slog.Debug("tone playback failed", "freq", freq, "error", err)
	}
}
