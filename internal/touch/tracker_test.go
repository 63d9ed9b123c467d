// ABOUTME: Tests for pointer tracking and multi-tap detection
// ABOUTME: Covers held pointers, expiring taps and the triple tap window
package touch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerHeldPointers(t *testing.T) {
	tr := NewTracker()
	tr.Down(MouseID, 0.2, 0.4)
	tr.Down(1, 1.5, -0.5)

	assert.Equal(t, []Pointer{{ID: 1, X: 1, Y: 0}, {ID: MouseID, X: 0.2, Y: 0.4}}, tr.Active())

	tr.Move(MouseID, 0.3, 0.5)
	tr.Move(42, 0.9, 0.9)
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, Pointer{ID: MouseID, X: 0.3, Y: 0.5}, tr.Active()[1])

	tr.Up(1)
	assert.Equal(t, []Pointer{{ID: MouseID, X: 0.3, Y: 0.5}}, tr.Active())

	tr.Clear()
	assert.Empty(t, tr.Active())
}

func TestTrackerTapsExpire(t *testing.T) {
	tr := NewTracker()
	now := time.Unix(100, 0)
	tr.Tap(7, 0.5, 0.5, now, 150*time.Millisecond)
	tr.Down(MouseID, 0.1, 0.1)

	assert.False(t, tr.Expire(now.Add(100*time.Millisecond)))
	assert.Equal(t, 2, tr.Len())

	assert.True(t, tr.Expire(now.Add(150*time.Millisecond)))
	assert.Equal(t, []Pointer{{ID: MouseID, X: 0.1, Y: 0.1}}, tr.Active())

	assert.False(t, tr.Expire(now.Add(time.Hour)), "held pointers never expire")
}

func TestTripleTap(t *testing.T) {
	start := time.Unix(0, 0)
	at := func(ms int) time.Time { return start.Add(time.Duration(ms) * time.Millisecond) }

	m := NewTripleTap(600 * time.Millisecond)
	assert.False(t, m.Press(at(0)))
	assert.False(t, m.Press(at(200)))
	assert.True(t, m.Press(at(400)))

	// Reset after firing
	assert.False(t, m.Press(at(450)))

	// Too slow: the first press falls out of the window
	m = NewTripleTap(600 * time.Millisecond)
	assert.False(t, m.Press(at(0)))
	assert.False(t, m.Press(at(500)))
	assert.False(t, m.Press(at(700)))
	assert.True(t, m.Press(at(900)))
}
