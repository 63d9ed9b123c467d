// ABOUTME: Voice routing a generator through an automated gain
// ABOUTME: Tracks start and stop frames and the bus a voice feeds
package graph

import (
	"math"
	"sync/atomic"
)

// Bus selects where a voice is summed
type Bus int

const (
	// MasterBus passes through master gain and the low-pass filter
	MasterBus Bus = iota
	// DestinationBus bypasses master gain and filtering
	DestinationBus
)

const noStop = math.MaxInt64

// Voice is a generator with its own gain stage
type Voice struct {
	Gain *Param

	id        uint64
	mixer     *Mixer
	gen       Generator
	bus       Bus
	startAt   atomic.Int64
	stopAt    atomic.Int64
	started   atomic.Bool
	connected atomic.Bool
	ended     atomic.Bool
}

// ID returns the mixer-unique voice id
func (v *Voice) ID() uint64 {
	return v.id
}

// Bus returns the bus the voice feeds
func (v *Voice) Bus() Bus {
	return v.bus
}

// Start connects the voice so it sounds from time t.
// A voice starts at most once.
func (v *Voice) Start(t float64) {
	if !v.started.CompareAndSwap(false, true) {
		return
	}
	v.startAt.Store(v.mixer.clock.FrameAt(t))
	v.connected.Store(true)
	v.mixer.connect(v)
}

// Stop silences the voice from time t. The voice stays connected until Disconnect.
func (v *Voice) Stop(t float64) {
	v.stopAt.Store(v.mixer.clock.FrameAt(t))
}

// Disconnect removes the voice from the mixer. Safe to call repeatedly.
func (v *Voice) Disconnect() {
	if !v.connected.CompareAndSwap(true, false) {
		return
	}
	v.mixer.disconnect(v)
}

// Connected reports whether the voice is attached to the mixer
func (v *Voice) Connected() bool {
	return v.connected.Load()
}

// Done reports whether the voice has played past its stop frame or run out of material
func (v *Voice) Done() bool {
	return v.ended.Load()
}

// render adds gain-scaled output for frames [start, start+len(dst)) into dst
func (v *Voice) render(dst, scratch, gain []float32, start int64) {
	if v.ended.Load() {
		return
	}

	n := int64(len(dst))
	from := v.startAt.Load()
	to := v.stopAt.Load()
	if from >= start+n {
		return
	}

	lo := int64(0)
	if from > start {
		lo = from - start
	}
	hi := n
	if to < start+n {
		hi = to - start
	}
	if hi <= lo {
		if to <= start+n {
			v.ended.Store(true)
		}
		return
	}

	span := scratch[lo:hi]
	v.gen.Generate(span)
	g := gain[lo:hi]
	v.Gain.Fill(g, start+lo)
	for i := range span {
		dst[int(lo)+i] += span[i] * g[i]
	}

	if to <= start+n {
		v.ended.Store(true)
	}
	if e, ok := v.gen.(Ender); ok && e.Ended() {
		v.ended.Store(true)
	}
}
