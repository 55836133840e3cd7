package hotkey

import (
	"sync"

	hook "github.com/robotn/gohook"
)

// HookState tracks which keys are currently held down by consuming the
// global keyboard hook's event stream. It implements KeyState for the
// Monitor's poll loop: the hook goroutine is the single writer of the
// down-key set, the poller its only reader.
type HookState struct {
	mu   sync.Mutex
	down map[uint16]bool

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewHookState creates an inactive HookState. Call Start before handing it
// to a Monitor.
func NewHookState() *HookState {
	return &HookState{
		down: make(map[uint16]bool),
		done: make(chan struct{}),
	}
}

// Start installs the global hook and begins tracking key state.
func (h *HookState) Start() {
	h.startOnce.Do(func() {
		events := hook.Start()
		go h.consume(events)
	})
}

// Stop uninstalls the global hook.
func (h *HookState) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		hook.End()
	})
}

// Down reports whether the key with the given raw code is currently held.
func (h *HookState) Down(code uint16) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.down[code], nil
}

func (h *HookState) consume(events <-chan hook.Event) {
	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case hook.KeyDown, hook.KeyHold:
				h.mu.Lock()
				h.down[ev.Rawcode] = true
				h.mu.Unlock()
			case hook.KeyUp:
				h.mu.Lock()
				delete(h.down, ev.Rawcode)
				h.mu.Unlock()
			}
		}
	}
}
