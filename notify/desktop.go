package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Desktop shows system notifications for the moments a user actually
// cares about: finished transcriptions and failures. The transient
// recording/processing states stay silent to avoid notification spam.
type Desktop struct {
	appName string
}

// NewDesktop returns a desktop-notification presenter.
func NewDesktop(appName string) *Desktop {
	return &Desktop{appName: appName}
}

func (d *Desktop) RecordingStarted() {}
func (d *Desktop) Processing()       {}
func (d *Desktop) Idle()             {}

func (d *Desktop) Success(words int) {
	d.post("Transcribed " + wordsLabel(words))
}

func (d *Desktop) NoSpeech() {
	d.post("No speech detected")
}

func (d *Desktop) Error(msg string) {
	d.post("Dictation failed: " + msg)
}

func (d *Desktop) post(body string) {
	// Notification daemons can block; never stall the session on them.
	go func() {
		if err := beeep.Notify(d.appName, body, ""); err != nil {
			slog.Debug("desktop notification failed", "error", err)
		}
	}()
}
