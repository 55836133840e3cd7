// Package session runs the push-to-talk state machine: hotkey press
// opens the microphone, release hands the audio to the speech engine,
// and the resulting text is injected into the focused application.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go.skana.me/wispr/hotkey"
	"go.skana.me/wispr/notify"
)

// State is the controller's position in the dictation cycle.
type State int

const (
	// Idle means no capture and no transcription is in flight.
	Idle State = iota
	// Recording means the microphone is armed.
	Recording
	// Processing means captured audio is with the engine.
	Processing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	default:
		return "processing"
	}
}

// focusDelay lets keyboard focus settle after the notification before
// the paste keystroke goes out.
const focusDelay = 100 * time.Millisecond

// Microphone is the capture device the controller arms and disarms.
type Microphone interface {
	Arm() error
	Disarm() ([]float32, error)
	SampleRate() int
}

// Recorder persists finished transcriptions.
type Recorder interface {
	Add(text string, audioSeconds float64, model string) error
}

// Injector delivers text into the focused input field.
type Injector interface {
	Inject(text string) error
}

// Config wires a Controller's collaborators.
type Config struct {
	Mic         Microphone
	Transcriber Transcriber
	Stats       Recorder
	Injector    Injector
	Presenter   notify.Presenter
	// Model is recorded with each transcription.
	Model string
	// FocusDelay overrides the pre-inject settle delay; zero keeps the
	// default. Tests set it negative to skip the wait.
	FocusDelay time.Duration
}

// Controller owns the dictation state machine. All transitions happen
// on the single goroutine inside Run, so state needs no locking.
type Controller struct {
	mic        Microphone
	transcribe Transcriber
	stats      Recorder
	inject     Injector
	present    notify.Presenter
	model      string
	focusDelay time.Duration

	state   State
	results chan result
}

type result struct {
	session string
	text    string
	seconds float64
	err     error
}

// New returns a Controller over cfg.
func New(cfg Config) *Controller {
	delay := cfg.FocusDelay
	if delay == 0 {
		delay = focusDelay
	} else if delay < 0 {
		delay = 0
	}
	present := cfg.Presenter
	if present == nil {
		present = notify.Nop{}
	}
	return &Controller{
		mic:        cfg.Mic,
		transcribe: cfg.Transcriber,
		stats:      cfg.Stats,
		inject:     cfg.Injector,
		present:    present,
		model:      cfg.Model,
		focusDelay: delay,
		state:      Idle,
		results:    make(chan result, 1),
	}
}

// Run consumes hotkey events until ctx is cancelled or events closes.
// It is the only goroutine that touches controller state.
func (c *Controller) Run(ctx context.Context, events <-chan hotkey.Event) error {
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				c.shutdown()
				return nil
			}
			c.handleEvent(ctx, ev)
		case res := <-c.results:
			c.handleResult(res)
		}
	}
}

func (c *Controller) handleEvent(ctx context.Context, ev hotkey.Event) {
	switch ev.Kind {
	case hotkey.Pressed:
		if c.state != Idle {
			slog.Debug("hotkey press ignored", "state", c.state)
			return
		}
		if err := c.mic.Arm(); err != nil {
			slog.Error("microphone unavailable", "error", err)
			c.present.Error("microphone unavailable")
			c.present.Idle()
			return
		}
		c.state = Recording
		c.present.RecordingStarted()

	case hotkey.Released:
		if c.state != Recording {
			slog.Debug("hotkey release ignored", "state", c.state)
			return
		}
		samples, err := c.mic.Disarm()
		if err != nil {
			slog.Warn("capture teardown", "error", err)
		}
		if len(samples) == 0 {
			c.state = Idle
			c.present.NoSpeech()
			c.present.Idle()
			return
		}
		c.state = Processing
		c.present.Processing()
		c.startWorker(ctx, samples)
	}
}

// startWorker launches the one in-flight transcription. The controller
// stays in Processing until its result lands on c.results.
func (c *Controller) startWorker(ctx context.Context, samples []float32) {
	id := uuid.NewString()
	seconds := float64(len(samples)) / float64(c.mic.SampleRate())
	slog.Info("session captured", "session", id, "seconds", seconds)

	go func() {
		res := result{session: id, seconds: seconds}
		defer func() {
			if r := recover(); r != nil {
				res.err = fmt.Errorf("transcription panic: %v", r)
				res.text = ""
			}
			c.results <- res
		}()
		res.text, res.err = c.transcribe.Transcribe(ctx, samples)
	}()
}

func (c *Controller) handleResult(res result) {
	c.state = Idle
	defer c.present.Idle()

	if res.err != nil {
		slog.Error("session failed", "session", res.session, "error", res.err)
		c.present.Error("transcription failed")
		return
	}
	if res.text == "" {
		slog.Info("session produced no speech", "session", res.session)
		c.present.NoSpeech()
		return
	}

	words := len(strings.Fields(res.text))
	if err := c.stats.Add(res.text, res.seconds, c.model); err != nil {
		slog.Warn("record transcription", "session", res.session, "error", err)
	}
	c.present.Success(words)

	time.Sleep(c.focusDelay)
	if err := c.inject.Inject(res.text); err != nil {
		slog.Error("inject text", "session", res.session, "error", err)
		c.present.Error("could not paste text")
		return
	}
	slog.Info("session injected", "session", res.session, "words", words)
}

// shutdown releases the microphone if a capture was cut off mid-press.
func (c *Controller) shutdown() {
	if c.state == Recording {
		if _, err := c.mic.Disarm(); err != nil {
			slog.Warn("capture teardown", "error", err)
		}
	}
	c.state = Idle
}
