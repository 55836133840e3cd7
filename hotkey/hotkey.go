// Package hotkey detects a push-to-talk key combination being held down and
// reports discrete press/release transitions.
//
// The monitor samples the current held-down state of every key in the combo
// at a fixed short interval rather than reacting to individual key events.
// This keeps the transition logic trivial: one Pressed event on the first
// poll where the whole combo is down after an all-up poll, one Released
// event when that stops being true. A single-poll flicker is accepted as a
// real transition; there is no debounce filtering.
package hotkey

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the poll interval. It bounds press-to-recording latency
// while keeping the poll loop essentially free in CPU terms.
const DefaultInterval = 50 * time.Millisecond

// ErrRunning is returned when Start is called on an already running monitor.
var ErrRunning = errors.New("hotkey: monitor already running")

// Kind is the transition direction of an Event.
type Kind int

const (
	Pressed Kind = iota
	Released
)

func (k Kind) String() string {
	if k == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is a single combo transition. Events are delivered in the order the
// transitions occurred and each is consumed exactly once.
type Event struct {
	Kind Kind
	At   time.Time
}

// KeyState answers whether a single key is currently held down. The
// production implementation is HookState; tests substitute a fake.
type KeyState interface {
	Down(code uint16) (bool, error)
}

// Monitor polls a KeyState for a combo and emits transition events.
// Reconfiguring the combo requires Stop, a new Monitor, and Start.
type Monitor struct {
	combo    Combo
	source   KeyState
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	events chan Event
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval overrides the poll interval. Intended for tests.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// New creates a monitor for combo backed by source.
func New(combo Combo, source KeyState, opts ...Option) *Monitor {
	m := &Monitor{
		combo:    combo,
		source:   source,
		interval: DefaultInterval,
		events:   make(chan Event, 16),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Events returns the channel transition events are delivered on.
func (m *Monitor) Events() <-chan Event { return m.events }

// Start begins polling. It returns ErrRunning if the monitor is already
// started.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrRunning
	}
	m.running = true
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go m.poll(m.stop)
	slog.Info("hotkey monitor started", "combo", m.combo.String(), "interval", m.interval)
	return nil
}

// Stop halts polling and waits for the poll goroutine to exit. It is safe to
// call on a stopped monitor.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stop)
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Monitor) poll(stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	held := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			down, err := m.comboDown()
			if err != nil {
				// Driver or permission errors must not kill the loop;
				// skip this poll and keep the previous state.
				slog.Warn("hotkey key-state query failed", "error", err)
				continue
			}
			switch {
			case down && !held:
				held = true
				m.emit(Event{Kind: Pressed, At: time.Now()}, stop)
			case !down && held:
				held = false
				m.emit(Event{Kind: Released, At: time.Now()}, stop)
			}
		}
	}
}

// comboDown reports whether every slot of the combo has at least one of its
// keys held down.
func (m *Monitor) comboDown() (bool, error) {
	for _, alternatives := range m.combo.Keys() {
		slotDown := false
		for _, code := range alternatives {
			down, err := m.source.Down(code)
			if err != nil {
				return false, err
			}
			if down {
				slotDown = true
				break
			}
		}
		if !slotDown {
			return false, nil
		}
	}
	return true, nil
}

func (m *Monitor) emit(ev Event, stop <-chan struct{}) {
	select {
	case m.events <- ev:
	case <-stop:
	}
}
