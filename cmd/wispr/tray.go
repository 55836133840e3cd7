package main

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"

	"github.com/getlantern/systray"
)

// tray keeps a status icon in the system tray. The tooltip mirrors the
// session state so the user can tell whether the mic is live without
// any window.
type tray struct {
	statsPath string
	ready     atomic.Bool
}

func newTray(statsPath string) *tray {
	return &tray{statsPath: statsPath}
}

// Run starts the tray loop in the background. stop is invoked when the
// user picks Quit.
func (t *tray) Run(stop func()) {
	go systray.Run(func() {
		systray.SetTitle(appName)
		systray.SetTooltip("Wispr — hold the hotkey to dictate")
		mStats := systray.AddMenuItem("Open Stats", "Show dictation statistics")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Stop dictation and exit")
		t.ready.Store(true)

		go func() {
			for {
				select {
				case <-mStats.ClickedCh:
					t.openStats()
				case <-mQuit.ClickedCh:
					stop()
					return
				}
			}
		}()
	}, nil)
}

// Quit tears the tray icon down.
func (t *tray) Quit() {
	if t.ready.Load() {
		systray.Quit()
	}
}

// openStats launches the wispr-stats viewer next to this binary.
func (t *tray) openStats() {
	exe, err := os.Executable()
	if err != nil {
		slog.Warn("locate stats viewer", "error", err)
		return
	}
	viewer := filepath.Join(filepath.Dir(exe), "wispr-stats")
	cmd := exec.Command(viewer, "-stats", t.statsPath)
	if err := cmd.Start(); err != nil {
		slog.Warn("launch stats viewer", "path", viewer, "error", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}

func (t *tray) setTooltip(text string) {
	if t.ready.Load() {
		systray.SetTooltip(text)
	}
}

func (t *tray) RecordingStarted() { t.setTooltip("Wispr — recording") }
func (t *tray) Processing()       { t.setTooltip("Wispr — transcribing") }
func (t *tray) Success(int)       {}
func (t *tray) NoSpeech()         {}
func (t *tray) Error(string)      {}
func (t *tray) Idle()             { t.setTooltip("Wispr — hold the hotkey to dictate") }
