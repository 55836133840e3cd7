// Command wispr-stats is a terminal viewer for dictation statistics. It
// reloads the stats file every couple of seconds, so it can stay open
// while wispr runs.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go.skana.me/wispr/stats"
)

const refreshInterval = 2 * time.Second

func main() {
	statsPath := flag.String("stats", "", "path to the stats file (default: next to the settings file)")
	flag.Parse()

	path := *statsPath
	if path == "" {
		p, err := stats.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "wispr-stats: %v\n", err)
			os.Exit(1)
		}
		path = p
	}

	m := newModel(path)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "wispr-stats: %v\n", err)
		os.Exit(1)
	}
}

// tickMsg triggers a reload of the stats file.
type tickMsg time.Time

type model struct {
	path string
	snap stats.Snapshot
	now  func() time.Time
}

func newModel(path string) model {
	return model{
		path: path,
		snap: stats.Load(path),
		now:  time.Now,
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = stats.Load(m.path)
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.snap = stats.Load(m.path)
			return m, nil
		}
	}
	return m, nil
}
