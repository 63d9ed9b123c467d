// ABOUTME: Automatable parameter with scheduled value changes
// ABOUTME: Supports set, linear ramp, exponential ramp and cancellation
package graph

import (
	"math"
	"sort"
	"sync"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventLinear
	eventExponential
)

type event struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is a value that can be automated over audio time.
// Ramps run from the preceding event (or the current value when none) to
// their target at their end time.
type Param struct {
	mu     sync.Mutex
	clock  *Clock
	value  float64
	anchor float64
	events []event
}

// NewParam creates a param with an initial value
func NewParam(clock *Clock, value float64) *Param {
	return &Param{clock: clock, value: value}
}

// Value returns the value at the current clock time
func (p *Param) Value() float64 {
	return p.ValueAt(p.clock.Now())
}

// ValueAt returns the automated value at time t
func (p *Param) ValueAt(t float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueAt(t)
}

// SetValueAtTime schedules an instant change at t
func (p *Param) SetValueAtTime(value, t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.insert(event{kind: eventSet, time: t, value: value})
}

// LinearRampToValueAtTime ramps linearly to value, arriving at t
func (p *Param) LinearRampToValueAtTime(value, t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchorRamp()
	p.insert(event{kind: eventLinear, time: t, value: value})
}

// ExponentialRampToValueAtTime ramps exponentially to value, arriving at t.
// Non-positive endpoints hold the previous value until t.
func (p *Param) ExponentialRampToValueAtTime(value, t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchorRamp()
	p.insert(event{kind: eventExponential, time: t, value: value})
}

// CancelScheduledValues drops every event at or after t
func (p *Param) CancelScheduledValues(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelFrom(t)
}

// CancelAndHold drops events at or after t and holds the value reached at t
func (p *Param) CancelAndHold(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	held := p.valueAt(t)
	kind := eventSet
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].time >= t
	})
	if i < len(p.events) && p.events[i].kind != eventSet && p.events[i].time > t {
		// truncate the ramp in progress so it ends at the held value
		kind = p.events[i].kind
	}
	p.cancelFrom(t)
	p.insert(event{kind: kind, time: t, value: held})
}

// Fill writes per-frame values for frames [start, start+len(buf)) and
// forgets events that are fully in the past
func (p *Param) Fill(buf []float32, start int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		v := float32(p.value)
		for i := range buf {
			buf[i] = v
		}
		return
	}

	for i := range buf {
		buf[i] = float32(p.valueAt(p.clock.Seconds(start + int64(i))))
	}
	p.prune(p.clock.Seconds(start + int64(len(buf))))
}

// anchorRamp pins the current value so a ramp with no predecessor starts now
func (p *Param) anchorRamp() {
	if len(p.events) > 0 {
		return
	}
	now := p.clock.Now()
	p.events = append(p.events, event{kind: eventSet, time: now, value: p.valueAt(now)})
}

func (p *Param) insert(e event) {
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].time > e.time
	})
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

func (p *Param) cancelFrom(t float64) {
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].time >= t
	})
	p.events = p.events[:i]
}

func (p *Param) prune(now float64) {
	k := -1
	for i, e := range p.events {
		if e.time <= now {
			k = i
		}
	}
	if k < 0 {
		return
	}
	p.value = p.events[k].value
	p.anchor = p.events[k].time
	p.events = append(p.events[:0], p.events[k+1:]...)
}

func (p *Param) valueAt(t float64) float64 {
	prevT, prevV := p.anchor, p.value
	for _, e := range p.events {
		if t < e.time {
			switch e.kind {
			case eventLinear:
				return prevV + (e.value-prevV)*progress(t, prevT, e.time)
			case eventExponential:
				if prevV <= 0 || e.value <= 0 {
					return prevV
				}
				return prevV * math.Pow(e.value/prevV, progress(t, prevT, e.time))
			default:
				return prevV
			}
		}
		prevT, prevV = e.time, e.value
	}
	return prevV
}

func progress(t, from, to float64) float64 {
	if to <= from {
		return 1
	}
	f := (t - from) / (to - from)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
