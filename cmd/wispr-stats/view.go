package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	modelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))
)

// historyShown caps how many recent transcriptions the viewer prints.
const historyShown = 15

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Wispr Statistics"))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Transcriptions", fmt.Sprintf("%d", m.snap.TotalTranscription)},
		{"Words", fmt.Sprintf("%d", m.snap.TotalWords)},
		{"Audio", formatDuration(m.snap.TotalAudioSeconds)},
		{"Model", m.snap.CurrentModel},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", row.label)))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Recent"))
	b.WriteString("\n")
	if len(m.snap.History) == 0 {
		b.WriteString(labelStyle.Render("nothing transcribed yet"))
		b.WriteString("\n")
	}
	for i, rec := range m.snap.History {
		if i >= historyShown {
			b.WriteString(labelStyle.Render(fmt.Sprintf("… and %d more", len(m.snap.History)-historyShown)))
			b.WriteString("\n")
			break
		}
		b.WriteString(timestampStyle.Render(relativeTime(rec.Timestamp, m.now())))
		b.WriteString("  ")
		b.WriteString(modelStyle.Render(rec.Model))
		b.WriteString("  ")
		b.WriteString(truncate(rec.Text, 60))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

// relativeTime renders an RFC 3339 timestamp relative to now: today and
// yesterday keep just the clock time, older entries get the date.
func relativeTime(stamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}
	t = t.Local()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch {
	case !t.Before(today):
		return "Today " + t.Format("15:04")
	case !t.Before(today.AddDate(0, 0, -1)):
		return "Yesterday " + t.Format("15:04")
	default:
		return t.Format("Jan 02, 15:04")
	}
}

// formatDuration renders seconds as a compact h/m/s string.
func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
