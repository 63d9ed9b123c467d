// ABOUTME: Free play screen: eight coloured piano keys
// ABOUTME: Each new press on a key plays its note once and bursts particles
package toy

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
)

const freePlayNoteLength = 500 * time.Millisecond

// FreePlay is a one-octave keyboard spanning the screen width
type FreePlay struct {
	audio  Audio
	burst  Burster
	active map[int]bool
}

// NewFreePlay creates the screen
func NewFreePlay(a Audio, b Burster) *FreePlay {
	return &FreePlay{audio: a, burst: b, active: make(map[int]bool)}
}

func (f *FreePlay) ID() ScreenID  { return ScreenFreePlay }
func (f *FreePlay) Title() string { return "Free Play" }

func (f *FreePlay) Enter(now time.Time) { clear(f.active) }
func (f *FreePlay) Exit()               { clear(f.active) }
func (f *FreePlay) Tick(now time.Time)  {}

// keyAt maps a horizontal position to a key index
func keyAt(x float64, keys int) int {
	i := int(x * float64(keys))
	if i >= keys {
		i = keys - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Update plays keys that became pressed since the previous update
func (f *FreePlay) Update(now time.Time, pointers []touch.Pointer) {
	next := make(map[int]bool, len(pointers))
	for _, p := range pointers {
		key := keyAt(p.X, len(Notes))
		if next[key] {
			continue
		}
		next[key] = true

		if !f.active[key] {
			n := Notes[key]
			f.audio.PlayTone(n.Freq, audio.Sine, freePlayNoteLength)
			f.burst.Burst(p.X, p.Y, n.Color)
		}
	}
	f.active = next
}

// Pressed reports whether key i is held
func (f *FreePlay) Pressed(i int) bool {
	return f.active[i]
}

func (f *FreePlay) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	cols := make([]string, len(Notes))
	for i, n := range Notes {
		w := width / len(Notes)
		if i < width%len(Notes) {
			w++
		}
		bg := n.Color
		if f.active[i] {
			bg = n.Bright
		}
		label := n.Label
		if len(label) > 1 {
			label = label[len(label)-1:]
		}
		body := strings.Repeat("\n", max(height-2, 0)) + label
		cols[i] = lipgloss.NewStyle().
			Width(w).
			Height(height).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(bg)).
			Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
