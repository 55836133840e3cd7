// Package notify surfaces session state changes to the user.
package notify

import "fmt"

// Presenter receives session lifecycle callbacks. Implementations must
// tolerate being called from the session goroutine and return quickly.
type Presenter interface {
	// RecordingStarted fires when the microphone opens.
	RecordingStarted()
	// Processing fires when captured audio is handed to the engine.
	Processing()
	// Success fires after text was injected, with the word count.
	Success(words int)
	// NoSpeech fires when a session produced no usable text.
	NoSpeech()
	// Error fires when a session failed.
	Error(msg string)
	// Idle fires whenever the session returns to the resting state.
	Idle()
}

// Multi fans callbacks out to several presenters in order.
type Multi []Presenter

func (m Multi) RecordingStarted() {
	for _, p := range m {
		p.RecordingStarted()
	}
}

func (m Multi) Processing() {
	for _, p := range m {
		p.Processing()
	}
}

func (m Multi) Success(words int) {
	for _, p := range m {
		p.Success(words)
	}
}

func (m Multi) NoSpeech() {
	for _, p := range m {
		p.NoSpeech()
	}
}

func (m Multi) Error(msg string) {
	for _, p := range m {
		p.Error(msg)
	}
}

func (m Multi) Idle() {
	for _, p := range m {
		p.Idle()
	}
}

// Nop is a Presenter that does nothing.
type Nop struct{}

func (Nop) RecordingStarted() {}
func (Nop) Processing()       {}
func (Nop) Success(int)       {}
func (Nop) NoSpeech()         {}
func (Nop) Error(string)      {}
func (Nop) Idle()             {}

func wordsLabel(words int) string {
	if words == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", words)
}
