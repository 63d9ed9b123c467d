// ABOUTME: Messy canvas screen: free painting with pentatonic notes
// ABOUTME: Sustains recent notes as quiet ambient drones while no finger is down
package toy

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
)

// Pentatonic scales over two octaves from C4
var (
	MajorPentatonic = []float64{261.63, 293.66, 329.63, 392.00, 440.00, 523.25, 587.33, 659.25, 783.99, 880.00}
	MinorPentatonic = []float64{261.63, 311.13, 349.23, 392.00, 466.16, 523.25, 622.25, 698.46, 783.99, 932.33}
)

var messyWaves = []audio.Waveform{audio.Sine, audio.Triangle, audio.Square, audio.Sawtooth}

const (
	noteInterval    = 80 * time.Millisecond
	maxRecentNotes  = 4
	ambientDelay    = 300 * time.Millisecond
	ambientStagger  = 200 * time.Millisecond
	ambientFadeOut  = 1500 * time.Millisecond
	dragThreshold   = 0.01
	maxSplats       = 48
	octaveJumpRate  = 0.1
	waveChangeRate  = 0.05
	detuneSpreadOct = 0.02
)

type splat struct {
	x, y float64
	hue  float64
	big  bool
}

// MessyCanvas maps finger height to pitch and side to scale
type MessyCanvas struct {
	audio  Audio
	burst  Burster
	rng    *rand.Rand
	timers timers

	lastPos  map[int]touch.Pointer
	lastNote map[int]time.Time
	wave     audio.Waveform
	recent   []float64
	ambient  bool
	// sustain changes on every touch so queued drone creations can tell
	// they are stale
	sustain  uint64
	touching bool
	splats   []splat
}

// NewMessyCanvas creates the screen. A nil rng seeds a private one.
func NewMessyCanvas(a Audio, b Burster, rng *rand.Rand) *MessyCanvas {
	return &MessyCanvas{
		audio:    a,
		burst:    b,
		rng:      orRandom(rng),
		lastPos:  make(map[int]touch.Pointer),
		lastNote: make(map[int]time.Time),
	}
}

func (m *MessyCanvas) ID() ScreenID  { return ScreenMessyCanvas }
func (m *MessyCanvas) Title() string { return "Messy Canvas" }

func (m *MessyCanvas) Enter(now time.Time) {
	m.wave = audio.Sine
}

// Exit kills every drone at once and forgets the recent notes
func (m *MessyCanvas) Exit() {
	m.audio.StopAllAmbient()
	m.timers.reset()
	m.ambient = false
	m.touching = false
	m.recent = nil
	clear(m.lastPos)
	clear(m.lastNote)
}

func (m *MessyCanvas) Tick(now time.Time) {
	m.timers.run(now)
}

func (m *MessyCanvas) Update(now time.Time, pointers []touch.Pointer) {
	has := len(pointers) > 0
	if has && !m.touching {
		m.stopAmbient()
	}
	if !has && m.touching {
		m.timers.after(now, ambientDelay, func(at time.Time) {
			if len(m.lastPos) == 0 {
				m.startAmbient(at)
			}
		})
	}
	m.touching = has

	live := make(map[int]bool, len(pointers))
	for _, p := range pointers {
		live[p.ID] = true
		last, seen := m.lastPos[p.ID]
		switch {
		case !seen:
			m.addSplat(p, true)
			m.playNoteAt(now, p)
		case math.Hypot(p.X-last.X, p.Y-last.Y) > dragThreshold:
			m.addSplat(p, false)
			m.playNoteAt(now, p)
		}
		m.lastPos[p.ID] = p
	}
	for id := range m.lastPos {
		if !live[id] {
			delete(m.lastPos, id)
			delete(m.lastNote, id)
		}
	}
}

// scaleNote returns the unjittered scale frequency for a position
func scaleNote(x, y float64) float64 {
	scale := MinorPentatonic
	if x > 0.5 {
		scale = MajorPentatonic
	}
	i := int(math.Floor((1 - y) * float64(len(scale))))
	i = max(0, min(len(scale)-1, i))
	return scale[i]
}

func (m *MessyCanvas) playNoteAt(now time.Time, p touch.Pointer) {
	if last, ok := m.lastNote[p.ID]; ok && now.Sub(last) < noteInterval {
		return
	}
	m.lastNote[p.ID] = now

	base := scaleNote(p.X, p.Y)
	freq := base
	if m.rng.Float64() < octaveJumpRate {
		if m.rng.Float64() > 0.5 {
			freq *= 2
		} else {
			freq *= 0.5
		}
	}
	freq *= math.Pow(2, (m.rng.Float64()-0.5)*detuneSpreadOct)

	if m.rng.Float64() < waveChangeRate {
		m.wave = messyWaves[m.rng.IntN(len(messyWaves))]
	}

	length := 350*time.Millisecond + time.Duration(m.rng.Float64()*float64(200*time.Millisecond))
	m.audio.PlayTone(freq, m.wave, length)
	m.remember(base)
}

func (m *MessyCanvas) remember(freq float64) {
	for _, f := range m.recent {
		if f == freq {
			return
		}
	}
	m.recent = append(m.recent, freq)
	if len(m.recent) > maxRecentNotes {
		m.recent = m.recent[1:]
	}
}

func (m *MessyCanvas) startAmbient(now time.Time) {
	if m.ambient || len(m.recent) == 0 {
		return
	}
	m.ambient = true
	gen := m.sustain
	for i, f := range m.recent {
		freq := f * 0.5
		m.timers.after(now, time.Duration(i)*ambientStagger, func(time.Time) {
			if m.sustain != gen {
				return
			}
			m.audio.CreateAmbientTone(freq, audio.Sine, 0.04+m.rng.Float64()*0.02)
		})
	}
}

// stopAmbient cancels queued drones and fades the playing ones
func (m *MessyCanvas) stopAmbient() {
	m.sustain++
	if !m.ambient {
		return
	}
	m.ambient = false
	m.audio.FadeOutAllAmbient(ambientFadeOut)
}

func (m *MessyCanvas) addSplat(p touch.Pointer, big bool) {
	hue := m.rng.Float64() * 360
	m.splats = append(m.splats, splat{x: p.X, y: p.Y, hue: hue, big: big})
	if len(m.splats) > maxSplats {
		m.splats = m.splats[len(m.splats)-maxSplats:]
	}
	if big {
		m.burst.Burst(p.X, p.Y, hueColor(hue))
	}
}

// Recent returns the base frequencies queued for the ambient sustain
func (m *MessyCanvas) Recent() []float64 {
	return append([]float64(nil), m.recent...)
}

// AmbientActive reports whether drones were started and not yet faded
func (m *MessyCanvas) AmbientActive() bool { return m.ambient }

func (m *MessyCanvas) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	cells := make([][]string, height)
	for r := range cells {
		cells[r] = make([]string, width)
		for c := range cells[r] {
			cells[r][c] = " "
		}
	}
	for _, s := range m.splats {
		c := min(int(s.x*float64(width)), width-1)
		r := min(int(s.y*float64(height)), height-1)
		glyph := "•"
		if s.big {
			glyph = "✺"
		}
		cells[r][c] = lipgloss.NewStyle().Foreground(lipgloss.Color(hueColor(s.hue))).Render(glyph)
	}

	var b strings.Builder
	for r, row := range cells {
		b.WriteString(strings.Join(row, ""))
		if r < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// hueColor converts a hue in degrees to a saturated hex colour
func hueColor(hue float64) string {
	h := math.Mod(hue, 360) / 60
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return fmt.Sprintf("#%02x%02x%02x", int(r*255), int(g*255), int(b*255))
}
