// ABOUTME: Deadline timers driven by explicit ticks
// ABOUTME: Replaces wall-clock callbacks so screens are testable
package toy

import (
	"sort"
	"time"
)

type timer struct {
	at  time.Time
	seq int
	fn  func(at time.Time)
}

// timers fire in deadline order when run. Callbacks receive their own
// deadline and may schedule further timers relative to it.
type timers struct {
	pending []timer
	seq     int
}

func (t *timers) after(now time.Time, d time.Duration, fn func(at time.Time)) {
	t.seq++
	t.pending = append(t.pending, timer{at: now.Add(d), seq: t.seq, fn: fn})
}

func (t *timers) run(now time.Time) {
	for {
		sort.Slice(t.pending, func(i, j int) bool {
			if t.pending[i].at.Equal(t.pending[j].at) {
				return t.pending[i].seq < t.pending[j].seq
			}
			return t.pending[i].at.Before(t.pending[j].at)
		})
		if len(t.pending) == 0 || t.pending[0].at.After(now) {
			return
		}
		next := t.pending[0]
		t.pending = t.pending[1:]
		next.fn(next.at)
	}
}

func (t *timers) reset() {
	t.pending = nil
}

func (t *timers) len() int {
	return len(t.pending)
}
