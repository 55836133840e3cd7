// Package audiocapture owns the live microphone stream for a dictation
// session. While armed it accumulates the sample blocks the hardware
// delivers on its own callback thread; on disarm it returns the whole take
// as one flattened sample slice.
package audiocapture

import (
	"errors"
	"fmt"
	"sync"
)

// ErrArmed is returned when Arm is called while a stream is already open.
var ErrArmed = errors.New("audiocapture: already armed")

// Stream is an open input stream. Stop halts callback delivery; Close
// releases the underlying hardware resources. Both must be safe to call
// exactly once, in that order.
type Stream interface {
	Stop() error
	Close() error
}

// OpenFunc opens an input stream at the given sample rate and channel count
// and begins delivering sample blocks to onBlock from the hardware's own
// callback thread. The block slice passed to onBlock may be reused by the
// driver after the callback returns.
type OpenFunc func(sampleRate, channels int, onBlock func([]float32)) (Stream, error)

// Config holds capture configuration.
type Config struct {
	SampleRate int // default 16000 Hz, what the speech models expect
	Channels   int // default 1 (mono)
	Open       OpenFunc
}

// Capture accumulates microphone audio between Arm and Disarm.
type Capture struct {
	sampleRate int
	channels   int
	open       OpenFunc

	mu     sync.Mutex
	armed  bool
	stream Stream
	blocks [][]float32
}

// New creates a Capture. Zero config fields get defaults; the default Open
// uses the system's default input device via PortAudio.
func New(cfg Config) *Capture {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}
	if cfg.Open == nil {
		cfg.Open = openPortAudio
	}
	return &Capture{
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		open:       cfg.Open,
	}
}

// SampleRate returns the configured sample rate.
func (c *Capture) SampleRate() int { return c.sampleRate }

// Arm opens the input stream and begins accumulating blocks. If the stream
// cannot be opened the capture stays disarmed and the error is returned;
// nothing is left acquired.
func (c *Capture) Arm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.armed {
		return ErrArmed
	}

	c.blocks = nil
	stream, err := c.open(c.sampleRate, c.channels, c.appendBlock)
	if err != nil {
		return fmt.Errorf("audiocapture: open stream: %w", err)
	}
	c.stream = stream
	c.armed = true
	return nil
}

// Disarm closes the stream and returns the concatenated samples. If no
// blocks were captured it returns a nil slice. Disarm on a disarmed capture
// is a no-op returning nil samples.
//
// The stream is stopped and closed before the block list is read, so the
// callback producer is quiescent by the time samples are assembled; the
// returned slice is never written to again.
func (c *Capture) Disarm() ([]float32, error) {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return nil, nil
	}
	c.armed = false
	stream := c.stream
	c.stream = nil
	c.mu.Unlock()

	// Release hardware before touching the buffer. Both errors are
	// collected but must not prevent the close.
	stopErr := stream.Stop()
	closeErr := stream.Close()

	c.mu.Lock()
	blocks := c.blocks
	c.blocks = nil
	c.mu.Unlock()

	samples := flatten(blocks)

	if stopErr != nil {
		return samples, fmt.Errorf("audiocapture: stop stream: %w", stopErr)
	}
	if closeErr != nil {
		return samples, fmt.Errorf("audiocapture: close stream: %w", closeErr)
	}
	return samples, nil
}

// Armed reports whether a stream is currently open.
func (c *Capture) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// appendBlock runs on the hardware callback thread.
func (c *Capture) appendBlock(block []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armed {
		return
	}
	// The driver reuses the callback buffer, so the block is copied.
	cp := make([]float32, len(block))
	copy(cp, block)
	c.blocks = append(c.blocks, cp)
}

func flatten(blocks [][]float32) []float32 {
	if len(blocks) == 0 {
		return nil
	}
	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	out := make([]float32, 0, total)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
