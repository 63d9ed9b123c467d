// ABOUTME: Rendering for the boot screen, menu, title bar and particles
// ABOUTME: Composites particle glyphs over the active screen
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/arismusic/aris-go/pkg/audio"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a5fa"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	barStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#1e293b")).Foreground(lipgloss.Color("#e2e8f0"))
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var s string
	switch {
	case m.phase == phaseBoot, m.phase == phaseStarting:
		if !m.showDebug {
			return m.renderBoot()
		}
		s = m.renderBar("Aris Music")
	case m.phase == phaseMenu, m.current == nil:
		s = lipgloss.JoinVertical(lipgloss.Left, m.renderBar("Aris Music"), m.renderMenu())
	default:
		content := m.overlayParticles(m.current.View(m.width, m.contentHeight()))
		s = lipgloss.JoinVertical(lipgloss.Left, m.renderBar("‹ Back  "+m.current.Title()), content)
	}
	if m.showDebug {
		s = lipgloss.JoinVertical(lipgloss.Left, s, m.renderDebug())
	}
	return s
}

func (m Model) renderBoot() string {
	icon, text, color := "👆", "Tap to Start", "#3b82f6"
	if m.phase == phaseStarting {
		icon, text, color = "⏳", "Starting...", "#22c55e"
	}
	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Padding(1, 6).
		Align(lipgloss.Center).
		Render(icon + "\n\n" + text)
	body := lipgloss.JoinVertical(lipgloss.Center, button, "", dimStyle.Render("Enable Audio"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// renderBar renders the single-line title bar with the live engine state
func (m Model) renderBar(title string) string {
	right := stateBadge(m.liveState())
	if m.hidden {
		right = dimStyle.Render("backgrounded ") + right
	}
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return barStyle.Width(m.width).MaxHeight(1).Render(title + strings.Repeat(" ", gap) + right)
}

func (m Model) liveState() audio.State {
	if m.eng == nil {
		return audio.StateUninitialized
	}
	return m.eng.State()
}

func stateBadge(s audio.State) string {
	color := "#dc2626"
	switch s {
	case audio.StateRunning:
		color = "#16a34a"
	case audio.StateSuspended:
		color = "#ca8a04"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("#ffffff")).
		Padding(0, 1).
		Render(s.String())
}

func (m Model) renderMenu() string {
	h := m.contentHeight()
	rows := make([]string, len(menuItems))
	for i, item := range menuItems {
		rh := h / len(menuItems)
		if i < h%len(menuItems) {
			rh++
		}
		label := fmt.Sprintf("%d  %s  %s\n%s", i+1, item.icon, titleStyle.Render(item.title), dimStyle.Render(item.subtitle))
		rows[i] = lipgloss.Place(m.width, max(rh, 1), lipgloss.Center, lipgloss.Center, label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// overlayParticles draws live particles over the rendered screen
func (m Model) overlayParticles(screen string) string {
	cells := m.particles.cells(m.width, m.contentHeight())
	if len(cells) == 0 {
		return screen
	}

	byRow := make(map[int][]int)
	for pos := range cells {
		byRow[pos[0]] = append(byRow[pos[0]], pos[1])
	}

	lines := strings.Split(screen, "\n")
	for r, cols := range byRow {
		if r >= len(lines) {
			continue
		}
		// Splice right to left so earlier columns keep their offsets
		sort.Sort(sort.Reverse(sort.IntSlice(cols)))
		line := lines[r]
		for _, c := range cols {
			q := cells[[2]int{r, c}]
			line = splice(line, c, lipgloss.NewStyle().Foreground(lipgloss.Color(q.color)).Render(q.glyph()))
		}
		lines[r] = line
	}
	return strings.Join(lines, "\n")
}

// splice replaces the cell at col with glyph, padding short lines
func splice(line string, col int, glyph string) string {
	if w := ansi.StringWidth(line); w <= col {
		line += strings.Repeat(" ", col-w+1)
	}
	return ansi.Truncate(line, col, "") + glyph + ansi.TruncateLeft(line, col+1, "")
}
