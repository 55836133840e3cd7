// Package inject delivers transcribed text into the focused application.
//
// The clipboard injector writes the text to the system clipboard and
// synthesizes a Ctrl+V keystroke. The text is intentionally left on the
// clipboard afterwards so the user can paste it again by hand.
package inject

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// settleDelay gives the window manager time to commit the clipboard
// write before the paste keystroke fires.
const settleDelay = 80 * time.Millisecond

// Injector places text into the currently focused input field.
type Injector interface {
	Inject(text string) error
}

// Clipboard injects text by replacing the clipboard contents and
// simulating a paste shortcut.
type Clipboard struct {
	// write, sleep and paste are replaceable in tests.
	write func(string) error
	sleep func(time.Duration)
	paste func() error
}

// NewClipboard returns a clipboard-backed injector.
func NewClipboard() *Clipboard {
	return &Clipboard{
		write: clipboard.WriteAll,
		sleep: time.Sleep,
		paste: sendPaste,
	}
}

// Inject writes text to the clipboard and sends Ctrl+V.
func (c *Clipboard) Inject(text string) error {
	if text == "" {
		return nil
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	c.sleep(settleDelay)
	if err := c.paste(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}
	return nil
}

func sendPaste() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.HasCTRL(true)
	kb.SetKeys(keybd_event.VK_V)
	return kb.Launching()
}
