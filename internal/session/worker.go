package session

import (
	"context"
	"log/slog"
	"strings"

	"go.skana.me/wispr/stt"
)

// Transcriber turns raw samples into text. An empty result means the
// audio carried no usable speech.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
}

// Worker prepares captured audio and runs it through a speech engine.
type Worker struct {
	engine   stt.Engine
	language string
}

// NewWorker wraps engine for transcription in the given language
// (empty for auto-detect).
func NewWorker(engine stt.Engine, language string) *Worker {
	return &Worker{engine: engine, language: language}
}

// Transcribe normalizes samples and feeds them to the engine. Engine
// failures are reported as empty text rather than an error: a user who
// held the key over silence and one whose engine hiccuped get the same
// "nothing came out" outcome.
func (w *Worker) Transcribe(ctx context.Context, samples []float32) (string, error) {
	normalize(samples)
	text, err := w.engine.Transcribe(ctx, samples, w.language)
	if err != nil {
		slog.Error("transcription failed", "model", w.engine.Model(), "error", err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

// normalize rescales samples in place when recording gain pushed the
// peak outside [-1, 1].
func normalize(samples []float32) {
	var peak float32
	for _, s := range samples {
		if s > peak {
			peak = s
		} else if -s > peak {
			peak = -s
		}
	}
	if peak <= 1.0 {
		return
	}
	for i := range samples {
		samples[i] /= peak
	}
}
