// ABOUTME: Tests for the game screens
// ABOUTME: Drives screens with pointer snapshots and explicit ticks
package toy

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arismusic/aris-go/internal/config"
	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
)

func TestShellResumesAndStopsAmbient(t *testing.T) {
	a := &fakeAudio{}
	s := NewShell(context.Background(), a, NewFreePlay(a, &fakeBurster{}))

	s.Enter(at(0))
	assert.Eventually(t, func() bool { return a.Resumes() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, ScreenFreePlay, s.ID())

	s.Exit()
	assert.Equal(t, 1, a.StopAlls())
	assert.False(t, s.Key(at(0), "x"))
}

func TestFreePlayPlaysNewPresses(t *testing.T) {
	a := &fakeAudio{}
	b := &fakeBurster{}
	f := NewFreePlay(a, b)
	f.Enter(at(0))

	f.Update(at(0), []touch.Pointer{ptr(1, 0.01, 0.5)})
	require.Len(t, a.Tones(), 1)
	assert.Equal(t, toneCall{261.63, audio.Sine, 500 * time.Millisecond}, a.Tones()[0])
	assert.Equal(t, []burstCall{{0.01, 0.5, "#ef4444"}}, b.bursts)
	assert.True(t, f.Pressed(0))

	// Holding or sliding inside the same key does not retrigger
	f.Update(at(10), []touch.Pointer{ptr(1, 0.05, 0.6)})
	assert.Len(t, a.Tones(), 1)

	// A second finger on the same key adds nothing, a finger on the last key plays C5
	f.Update(at(20), []touch.Pointer{ptr(1, 0.05, 0.6), ptr(2, 0.1, 0.2), ptr(3, 1, 0.5)})
	require.Len(t, a.Tones(), 2)
	assert.Equal(t, 523.25, a.Tones()[1].Freq)

	// Release and press again
	f.Update(at(30), nil)
	assert.False(t, f.Pressed(0))
	f.Update(at(40), []touch.Pointer{ptr(4, 0.01, 0.5)})
	assert.Len(t, a.Tones(), 3)
}

func TestKeyAt(t *testing.T) {
	assert.Equal(t, 0, keyAt(0, 8))
	assert.Equal(t, 3, keyAt(0.49, 8))
	assert.Equal(t, 4, keyAt(0.5, 8))
	assert.Equal(t, 7, keyAt(1, 8))
	assert.Equal(t, 0, keyAt(-1, 8))
}

func newListen(t *testing.T) (*ListenAndFind, *fakeAudio, *fakeBurster) {
	t.Helper()
	a := &fakeAudio{}
	b := &fakeBurster{}
	l := NewListenAndFind(a, b, seeded())
	l.Enter(at(0))
	return l, a, b
}

// optionX returns the x coordinate of the card holding note id
func optionX(l *ListenAndFind, id string) float64 {
	if l.Options()[0].ID == id {
		return 0.25
	}
	return 0.75
}

func distractor(l *ListenAndFind) Note {
	for _, n := range l.Options() {
		if n.ID != l.Target().ID {
			return n
		}
	}
	return Note{}
}

func TestListenAndFindLevelSetup(t *testing.T) {
	l, a, _ := newListen(t)

	assert.Equal(t, 1, l.Level())
	opts := l.Options()
	assert.NotEqual(t, opts[0].ID, opts[1].ID)
	assert.Contains(t, []string{opts[0].ID, opts[1].ID}, l.Target().ID)

	l.Tick(at(299))
	assert.Empty(t, a.Tones(), "target plays after a short pause")

	l.Tick(at(300))
	require.Len(t, a.Tones(), 1)
	assert.Equal(t, toneCall{l.Target().Freq, audio.Sine, 800 * time.Millisecond}, a.Tones()[0])
}

func TestListenAndFindHeaderReplays(t *testing.T) {
	l, a, b := newListen(t)
	l.Tick(at(300))

	l.Update(at(1000), []touch.Pointer{ptr(1, 0.5, 0.1)})
	require.Len(t, a.Tones(), 2)
	assert.Equal(t, l.Target().Freq, a.Tones()[1].Freq)
	assert.Equal(t, []burstCall{{0.5, 0.1, l.Target().Color}}, b.bursts)

	// Same pointer held is handled once
	l.Update(at(1100), []touch.Pointer{ptr(1, 0.5, 0.1)})
	assert.Len(t, a.Tones(), 2)
}

func TestListenAndFindWrongAnswer(t *testing.T) {
	l, a, b := newListen(t)
	l.Tick(at(300))
	wrong := distractor(l)
	x := optionX(l, wrong.ID)

	l.Update(at(1000), []touch.Pointer{ptr(1, x, 0.6)})
	require.Len(t, a.Tones(), 2)
	assert.Equal(t, wrong.Freq, a.Tones()[1].Freq)
	assert.Equal(t, wrong.ID, l.Wrong())
	assert.False(t, l.Succeeded())
	require.Len(t, b.bursts, 2)
	assert.Equal(t, wrongColor, b.bursts[0].Color)
	assert.Equal(t, wrongShadow, b.bursts[1].Color)
	assert.InDelta(t, x+wrongOffset, b.bursts[1].X, 1e-9)

	l.Tick(at(1499))
	assert.Equal(t, wrong.ID, l.Wrong())
	l.Tick(at(1500))
	assert.Empty(t, l.Wrong())
	assert.Equal(t, 1, l.Level())
}

func TestListenAndFindSuccess(t *testing.T) {
	l, a, b := newListen(t)
	l.Tick(at(300))
	first := l.Target()

	l.Update(at(1000), []touch.Pointer{ptr(1, optionX(l, first.ID), 0.6)})
	assert.True(t, l.Succeeded())
	require.Len(t, b.bursts, 5)
	for _, burst := range b.bursts {
		assert.Empty(t, burst.Color, "success bursts are multicolour")
	}
	assert.Len(t, a.Tones(), 2)

	// Input is ignored during the celebration
	l.Update(at(1200), []touch.Pointer{ptr(1, 0.5, 0.6), ptr(2, 0.5, 0.1)})
	assert.Len(t, a.Tones(), 2)

	l.Tick(at(2500))
	assert.Equal(t, 2, l.Level())
	assert.False(t, l.Succeeded())
	l.Tick(at(2800))
	require.Len(t, a.Tones(), 3)
	assert.Equal(t, l.Target().Freq, a.Tones()[2].Freq)
}

func TestListenAndFindExitCancelsTimers(t *testing.T) {
	l, a, _ := newListen(t)
	l.Exit()
	l.Tick(at(5000))
	assert.Empty(t, a.Tones())
}

func TestScaleNote(t *testing.T) {
	assert.Equal(t, 261.63, scaleNote(0.2, 1), "bottom left is the lowest minor note")
	assert.Equal(t, 932.33, scaleNote(0.2, 0), "top left is the highest minor note")
	assert.Equal(t, 880.00, scaleNote(0.8, 0), "top right is the highest major note")
	assert.Equal(t, 311.13, scaleNote(0.5, 0.85))
	assert.Equal(t, 293.66, scaleNote(0.51, 0.85))
}

func newMessy(t *testing.T) (*MessyCanvas, *fakeAudio, *fakeBurster) {
	t.Helper()
	a := &fakeAudio{}
	b := &fakeBurster{}
	m := NewMessyCanvas(a, b, seeded())
	m.Enter(at(0))
	return m, a, b
}

func TestMessyCanvasPlaysAndRateLimits(t *testing.T) {
	m, a, b := newMessy(t)

	m.Update(at(0), []touch.Pointer{ptr(1, 0.8, 0.95)})
	require.Len(t, a.Tones(), 1)
	assert.Len(t, b.bursts, 1)

	tone := a.Tones()[0]
	assert.GreaterOrEqual(t, tone.Duration, 350*time.Millisecond)
	assert.Less(t, tone.Duration, 550*time.Millisecond)
	ratio := tone.Freq / 261.63
	near := func(want float64) bool { return math.Abs(ratio/want-1) < 0.01 }
	assert.True(t, near(1) || near(2) || near(0.5), "unexpected frequency %v", tone.Freq)

	// Dragging within the rate limit is silent, after it plays again
	m.Update(at(40), []touch.Pointer{ptr(1, 0.8, 0.5)})
	assert.Len(t, a.Tones(), 1)
	m.Update(at(120), []touch.Pointer{ptr(1, 0.8, 0.3)})
	assert.Len(t, a.Tones(), 2)

	// Tiny movements are ignored
	m.Update(at(300), []touch.Pointer{ptr(1, 0.801, 0.301)})
	assert.Len(t, a.Tones(), 2)

	// A second finger has its own limit
	m.Update(at(310), []touch.Pointer{ptr(1, 0.801, 0.301), ptr(2, 0.2, 0.95)})
	assert.Len(t, a.Tones(), 3)
}

func TestMessyCanvasRemembersFourUniqueNotes(t *testing.T) {
	m, _, _ := newMessy(t)
	ys := []float64{0.95, 0.95, 0.85, 0.75, 0.65, 0.55}
	for i, y := range ys {
		m.Update(at(i*100), []touch.Pointer{ptr(i+1, 0.2, y)})
		m.Update(at(i*100+50), nil)
	}
	assert.Equal(t, []float64{311.13, 349.23, 392.00, 466.16}, m.Recent())
}

func TestMessyCanvasAmbientSustain(t *testing.T) {
	m, a, _ := newMessy(t)

	m.Update(at(0), []touch.Pointer{ptr(1, 0.2, 0.95)})
	m.Update(at(100), []touch.Pointer{ptr(1, 0.2, 0.85)})
	m.Update(at(200), nil)

	m.Tick(at(499))
	assert.Empty(t, a.Ambient())

	m.Tick(at(500))
	require.Len(t, a.Ambient(), 1)
	assert.InDelta(t, 261.63*0.5, a.Ambient()[0].Freq, 1e-9)
	assert.True(t, m.AmbientActive())

	m.Tick(at(700))
	require.Len(t, a.Ambient(), 2)
	assert.InDelta(t, 311.13*0.5, a.Ambient()[1].Freq, 1e-9)
	for _, amb := range a.Ambient() {
		assert.GreaterOrEqual(t, amb.Volume, 0.04)
		assert.Less(t, amb.Volume, 0.06)
	}

	// Touching again fades the drones
	m.Update(at(1000), []touch.Pointer{ptr(2, 0.5, 0.5)})
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, a.Fades())
	assert.False(t, m.AmbientActive())
}

func TestMessyCanvasQuickRetouchSkipsAmbient(t *testing.T) {
	m, a, _ := newMessy(t)
	m.Update(at(0), []touch.Pointer{ptr(1, 0.2, 0.95)})
	m.Update(at(100), nil)
	m.Update(at(200), []touch.Pointer{ptr(2, 0.2, 0.95)})
	m.Tick(at(1000))
	assert.Empty(t, a.Ambient())
	assert.Empty(t, a.Fades(), "nothing to fade")
}

func TestMessyCanvasRetouchCancelsQueuedDrones(t *testing.T) {
	m, a, _ := newMessy(t)

	m.Update(at(0), []touch.Pointer{ptr(1, 0.2, 0.95)})
	m.Update(at(100), []touch.Pointer{ptr(1, 0.2, 0.85)})
	m.Update(at(200), []touch.Pointer{ptr(1, 0.2, 0.75)})
	m.Update(at(250), nil)

	// Drones are staggered at 550, 750 and 950
	m.Tick(at(550))
	require.Len(t, a.Ambient(), 1)

	m.Update(at(600), []touch.Pointer{ptr(2, 0.5, 0.5)})
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, a.Fades())

	m.Tick(at(2000))
	assert.Len(t, a.Ambient(), 1, "queued drones must not start under a finger")
	assert.False(t, m.AmbientActive())
}

func TestMessyCanvasExitStopsEverything(t *testing.T) {
	m, a, _ := newMessy(t)
	m.Update(at(0), []touch.Pointer{ptr(1, 0.2, 0.95)})
	m.Update(at(100), nil)
	m.Exit()
	m.Tick(at(1000))

	assert.Equal(t, 1, a.StopAlls())
	assert.Empty(t, a.Ambient())
	assert.Empty(t, m.Recent())
}

func TestHueColor(t *testing.T) {
	assert.Equal(t, "#ff0000", hueColor(0))
	assert.Equal(t, "#00ff00", hueColor(120))
	assert.Equal(t, "#0000ff", hueColor(240))
}

func TestResourceDisplayPlaysSounds(t *testing.T) {
	a := &fakeAudio{}
	b := &fakeBurster{}
	r := NewResourceDisplay(context.Background(), a, b, config.DefaultResources(), seeded())
	r.Enter(at(0))

	res, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "dog", res.ID)

	r.Update(at(0), []touch.Pointer{ptr(1, 0.5, 0.5)})
	assert.Eventually(t, func() bool { return len(a.Files()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "embed:dog01", a.Files()[0])
	assert.Equal(t, []burstCall{{0.5, 0.5, resourceBurstColor}}, b.bursts)

	// Cat picks one of its alternatives
	r.Update(at(10), nil)
	r.Update(at(20), []touch.Pointer{ptr(2, 0.95, 0.5)})
	assert.Equal(t, 1, r.Page())
	r.Update(at(30), []touch.Pointer{ptr(2, 0.95, 0.5), ptr(3, 0.5, 0.5)})
	assert.Eventually(t, func() bool { return len(a.Files()) == 2 }, time.Second, time.Millisecond)
	assert.Contains(t, []string{"embed:cat01", "embed:cat02", "embed:cat03"}, a.Files()[1])

	// The synth bell plays a tone
	assert.True(t, r.Key(at(40), "right"))
	assert.True(t, r.Key(at(40), "right"))
	res, _ = r.Current()
	assert.Equal(t, "bell", res.ID)
	r.Update(at(50), []touch.Pointer{ptr(4, 0.5, 0.5)})
	require.Len(t, a.Tones(), 1)
	assert.Equal(t, toneCall{880, audio.Triangle, resourceToneLength}, a.Tones()[0])

	// Paging wraps both ways
	r.Next()
	assert.Equal(t, 0, r.Page())
	r.Prev()
	assert.Equal(t, 3, r.Page())
	assert.False(t, r.Key(at(60), "q"))
}

func TestResourceDisplayEmpty(t *testing.T) {
	r := NewResourceDisplay(context.Background(), &fakeAudio{}, &fakeBurster{}, nil, nil)
	r.Next()
	r.Prev()
	r.Update(at(0), []touch.Pointer{ptr(1, 0.5, 0.5)})
	assert.Contains(t, r.View(40, 10), "Nothing to show")
}

func TestViewsRender(t *testing.T) {
	a := &fakeAudio{}
	b := &fakeBurster{}
	screens := []Screen{
		NewFreePlay(a, b),
		NewListenAndFind(a, b, seeded()),
		NewMessyCanvas(a, b, seeded()),
		NewResourceDisplay(context.Background(), a, b, config.DefaultResources(), seeded()),
	}
	for _, s := range screens {
		s.Enter(at(0))
		s.Update(at(0), []touch.Pointer{ptr(1, 0.5, 0.5)})
		assert.NotEmpty(t, s.View(80, 24), s.Title())
		assert.Empty(t, s.View(0, 0), s.Title())
		s.Exit()
	}
}
