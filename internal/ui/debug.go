// ABOUTME: Debug overlay showing recent engine notes and counters
// ABOUTME: Toggled by a triple tap on the title bar
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// overlayHeight is the rows the overlay takes: border, header, notes, stats, footer
const overlayHeight = MaxNotes + 5

var overlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#22c55e")).
	Foreground(lipgloss.Color("#4ade80")).
	Padding(0, 1)

func (m Model) renderDebug() string {
	var b strings.Builder
	b.WriteString("🔊 Audio Debug  " + stateBadge(m.state) + "\n")

	notes := m.noteLog.Notes()
	if len(notes) == 0 {
		b.WriteString(dimStyle.Render("Waiting for audio events...") + "\n")
	}
	for _, n := range notes {
		fmt.Fprintf(&b, "%s: %s\n", n.At.Format("15:04:05"), n.Text)
	}
	for i := max(len(notes), 1); i < MaxNotes; i++ {
		b.WriteByte('\n')
	}

	id := m.contextID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "none"
	}
	s := m.stats
	fails := s.ResumeFailures + s.ResumeTimeouts + s.SuspendFailures + s.SuspendTimeouts + s.FileFailures
	fmt.Fprintf(&b, "ctx %s  ambient %d  voices %d  tones %d  files %d  errors %d\n",
		id, m.ambient, s.ActiveSources, s.TonesPlayed, s.FilesPlayed, fails)
	b.WriteString(dimStyle.Render("Triple-tap the top bar to hide"))

	return overlayStyle.Width(max(m.width-2, 10)).Render(b.String())
}
