// Package stt provides speech-to-text engine adapters.
//
// Engines consume mono float32 PCM at 16 kHz and return plain text. They are
// assumed to do their own voice-activity filtering and segment merging;
// failures surface as opaque errors for the caller to interpret.
package stt

import (
	"context"
	"fmt"
	"path/filepath"
)

// SampleRate is the PCM sample rate every engine expects.
const SampleRate = 16000

// Engine converts audio samples to text.
type Engine interface {
	// Transcribe converts samples (mono float32 PCM at SampleRate, roughly
	// in [-1, 1]) to text. language is a two-letter code, empty for
	// auto-detect.
	Transcribe(ctx context.Context, samples []float32, language string) (string, error)

	// Model returns the model identifier the engine runs.
	Model() string

	// Close releases engine resources.
	Close() error
}

// ModelInfo describes one entry of the local model catalog.
type ModelInfo struct {
	Name        string
	Description string
}

// DefaultModel is used when nothing is configured.
const DefaultModel = "base"

// Models lists the local whisper models offered at startup, smallest first.
func Models() []ModelInfo {
	return []ModelInfo{
		{Name: "tiny", Description: "Tiny (~75MB) - Fastest, lower accuracy"},
		{Name: "base", Description: "Base (~142MB) - Fast, decent accuracy"},
		{Name: "small", Description: "Small (~466MB) - Medium speed, good accuracy"},
		{Name: "medium", Description: "Medium (~1.5GB) - Slower, better accuracy"},
	}
}

// KnownModel reports whether name is in the catalog.
func KnownModel(name string) bool {
	for _, m := range Models() {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ModelPath returns the expected ggml model file path for name under dir.
func ModelPath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("ggml-%s.bin", name))
}
