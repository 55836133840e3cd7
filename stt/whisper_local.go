package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Local runs whisper.cpp in-process through its Go bindings. The model is
// loaded once; each Transcribe creates a fresh whisper context because
// contexts are not safe for concurrent use while the model is.
type Local struct {
	name string

	mu    sync.Mutex
	model whisperlib.Model
}

var _ Engine = (*Local)(nil)

// NewLocal loads the ggml model at modelPath. name is the catalog name the
// engine reports via Model.
func NewLocal(modelPath, name string) (*Local, error) {
	if modelPath == "" {
		return nil, errors.New("stt: model path must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("stt: load model %q: %w", modelPath, err)
	}
	return &Local{name: name, model: model}, nil
}

func (l *Local) Model() string { return l.name }

// Transcribe runs inference and joins all segments into one line of text.
func (l *Local) Transcribe(ctx context.Context, samples []float32, language string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("stt: %w", err)
	}
	if len(samples) == 0 {
		return "", nil
	}

	l.mu.Lock()
	model := l.model
	l.mu.Unlock()
	if model == nil {
		return "", errors.New("stt: engine closed")
	}

	wctx, err := model.NewContext()
	if err != nil {
		return "", fmt.Errorf("stt: create whisper context: %w", err)
	}

	if language != "" {
		if err := wctx.SetLanguage(language); err != nil {
			slog.Warn("whisper language not accepted, using default", "language", language, "error", err)
		}
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("stt: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stt: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Close releases the model.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model == nil {
		return nil
	}
	err := l.model.Close()
	l.model = nil
	return err
}
