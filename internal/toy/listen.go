// ABOUTME: Listen and find screen: hear a note, touch the matching card
// ABOUTME: Two cards per level, one target and one distractor
package toy

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
)

const (
	listenNoteLength  = 800 * time.Millisecond
	listenIntroDelay  = 300 * time.Millisecond
	listenNextLevel   = 1500 * time.Millisecond
	listenWrongReset  = 500 * time.Millisecond
	listenHeaderSplit = 0.3
	listenBursts      = 5
	wrongColor        = "#ef4444"
	wrongShadow       = "#000000"
	wrongOffset       = 0.01
)

// ListenAndFind plays a target note and asks the child to find its card
type ListenAndFind struct {
	audio  Audio
	burst  Burster
	rng    *rand.Rand
	timers timers

	target    Note
	options   [2]Note
	wrong     string
	success   bool
	level     int
	processed map[int]bool
}

// NewListenAndFind creates the screen. A nil rng seeds a private one.
func NewListenAndFind(a Audio, b Burster, rng *rand.Rand) *ListenAndFind {
	return &ListenAndFind{
		audio:     a,
		burst:     b,
		rng:       orRandom(rng),
		processed: make(map[int]bool),
	}
}

func (l *ListenAndFind) ID() ScreenID  { return ScreenListenAndFind }
func (l *ListenAndFind) Title() string { return "Listen & Find" }

func (l *ListenAndFind) Enter(now time.Time) {
	l.level = 0
	clear(l.processed)
	l.generateLevel(now)
}

func (l *ListenAndFind) Exit() {
	l.timers.reset()
}

func (l *ListenAndFind) Tick(now time.Time) {
	l.timers.run(now)
}

func (l *ListenAndFind) generateLevel(now time.Time) {
	l.target = Notes[l.rng.IntN(len(Notes))]
	distractor := l.target
	for distractor.ID == l.target.ID {
		distractor = Notes[l.rng.IntN(len(Notes))]
	}
	if l.rng.Float64() > 0.5 {
		l.options = [2]Note{l.target, distractor}
	} else {
		l.options = [2]Note{distractor, l.target}
	}
	l.wrong = ""
	l.success = false
	l.level++

	target := l.target
	l.timers.after(now, listenIntroDelay, func(time.Time) {
		l.audio.PlayTone(target.Freq, audio.Sine, listenNoteLength)
	})
}

// Update handles pointers that have not been handled yet
func (l *ListenAndFind) Update(now time.Time, pointers []touch.Pointer) {
	live := make(map[int]bool, len(pointers))
	for _, p := range pointers {
		live[p.ID] = true
	}
	for id := range l.processed {
		if !live[id] {
			delete(l.processed, id)
		}
	}

	for _, p := range pointers {
		if l.processed[p.ID] || l.success {
			continue
		}
		l.processed[p.ID] = true

		if p.Y < listenHeaderSplit {
			l.audio.PlayTone(l.target.Freq, audio.Sine, listenNoteLength)
			l.burst.Burst(p.X, p.Y, l.target.Color)
			continue
		}

		touched := l.options[keyAt(p.X, len(l.options))]
		l.audio.PlayTone(touched.Freq, audio.Sine, listenNoteLength)

		if touched.ID == l.target.ID {
			l.success = true
			for i := 0; i < listenBursts; i++ {
				l.burst.BurstMulticolor(l.rng.Float64(), l.rng.Float64())
			}
			l.timers.after(now, listenNextLevel, l.generateLevel)
			continue
		}

		l.wrong = touched.ID
		l.burst.Burst(p.X, p.Y, wrongColor)
		l.burst.Burst(p.X+wrongOffset, p.Y+wrongOffset, wrongShadow)
		l.timers.after(now, listenWrongReset, func(time.Time) { l.wrong = "" })
	}
}

// Target returns the note being looked for
func (l *ListenAndFind) Target() Note { return l.target }

// Options returns the two cards, left then right
func (l *ListenAndFind) Options() [2]Note { return l.options }

// Level counts generated levels, starting at 1
func (l *ListenAndFind) Level() int { return l.level }

// Wrong returns the id of a wrongly touched card while its feedback shows
func (l *ListenAndFind) Wrong() string { return l.wrong }

// Succeeded reports whether the current level was solved
func (l *ListenAndFind) Succeeded() bool { return l.success }

func (l *ListenAndFind) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	headerH := max(int(float64(height)*listenHeaderSplit), 1)
	header := lipgloss.NewStyle().
		Width(width).
		Height(headerH).
		Align(lipgloss.Center, lipgloss.Center).
		Bold(true).
		Foreground(lipgloss.Color(l.target.Color)).
		Render(fmt.Sprintf("🔊 Listen! (level %d)", l.level))

	cards := make([]string, len(l.options))
	for i, n := range l.options {
		w := width / 2
		if i == 0 {
			w += width % 2
		}
		bg := n.Color
		text := n.Label
		switch {
		case l.success && n.ID == l.target.ID:
			bg = n.Bright
			text = "⭐ " + n.Label + " ⭐"
		case l.wrong == n.ID:
			bg = wrongShadow
			text = "✗"
		}
		cards[i] = lipgloss.NewStyle().
			Width(w).
			Height(max(height-headerH, 1)).
			Align(lipgloss.Center, lipgloss.Center).
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(bg)).
			Render(text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}
