// Package singleinstance prevents two copies of the application from
// fighting over the microphone and the keyboard hook.
//
// The guard is a PID file: on startup the previous PID (if any) is
// probed, and a live process means this instance must yield. A stale
// file left by a crash is silently reclaimed.
package singleinstance

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Guard manages a PID lock file.
type Guard struct {
	path  string
	pid   int
	alive func(pid int) bool
	held  bool
}

// New returns a guard over the lock file at path.
func New(path string) *Guard {
	return &Guard{
		path:  path,
		pid:   os.Getpid(),
		alive: processAlive,
	}
}

// TryAcquire claims the lock. It reports false when another live
// instance already holds it. Unreadable or stale lock files are
// reclaimed.
func (g *Guard) TryAcquire() (bool, error) {
	data, err := os.ReadFile(g.path)
	switch {
	case err == nil:
		pid, perr := strconv.Atoi(strings.TrimSpace(string(data)))
		if perr == nil && pid > 0 && pid != g.pid && g.alive(pid) {
			return false, nil
		}
		if perr != nil {
			slog.Warn("ignoring malformed lock file", "path", g.path)
		} else {
			slog.Debug("reclaiming stale lock file", "path", g.path, "pid", pid)
		}
	case !os.IsNotExist(err):
		return false, fmt.Errorf("read lock file: %w", err)
	}

	if err := os.WriteFile(g.path, []byte(strconv.Itoa(g.pid)), 0o644); err != nil {
		return false, fmt.Errorf("write lock file: %w", err)
	}
	g.held = true
	return true, nil
}

// Release removes the lock file if this guard holds it.
func (g *Guard) Release() {
	if !g.held {
		return
	}
	g.held = false
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove lock file", "path", g.path, "error", err)
	}
}
