// ABOUTME: Tests for tick-driven timers
// ABOUTME: Checks deadline ordering and timers scheduled from callbacks
package toy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimersFireInDeadlineOrder(t *testing.T) {
	var tm timers
	var fired []string
	tm.after(at(0), 300*time.Millisecond, func(time.Time) { fired = append(fired, "b") })
	tm.after(at(0), 100*time.Millisecond, func(time.Time) { fired = append(fired, "a") })
	tm.after(at(0), 300*time.Millisecond, func(time.Time) { fired = append(fired, "c") })

	tm.run(at(99))
	assert.Empty(t, fired)

	tm.run(at(300))
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Zero(t, tm.len())
}

func TestTimersScheduleFromCallback(t *testing.T) {
	var tm timers
	var stamps []time.Time
	tm.after(at(0), 100*time.Millisecond, func(due time.Time) {
		stamps = append(stamps, due)
		tm.after(due, 0, func(due time.Time) { stamps = append(stamps, due) })
		tm.after(due, 200*time.Millisecond, func(due time.Time) { stamps = append(stamps, due) })
	})

	tm.run(at(150))
	assert.Equal(t, []time.Time{at(100), at(100)}, stamps)

	tm.run(at(300))
	assert.Equal(t, []time.Time{at(100), at(100), at(300)}, stamps)
}

func TestTimersReset(t *testing.T) {
	var tm timers
	tm.after(at(0), time.Millisecond, func(time.Time) { t.Fatal("reset timer fired") })
	tm.reset()
	tm.run(at(1000))
}
