// ABOUTME: Frame-counting audio clock
// ABOUTME: Converts between rendered frames and seconds of audio time
package graph

import (
	"math"
	"sync/atomic"
)

// Clock counts frames rendered by a Mixer
type Clock struct {
	rate   int
	frames atomic.Int64
}

// NewClock creates a clock at the given sample rate
func NewClock(sampleRate int) *Clock {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &Clock{rate: sampleRate}
}

// Rate returns the sample rate in Hz
func (c *Clock) Rate() int {
	return c.rate
}

// Frame returns the number of frames rendered so far
func (c *Clock) Frame() int64 {
	return c.frames.Load()
}

// Now returns the current audio time in seconds
func (c *Clock) Now() float64 {
	return c.Seconds(c.Frame())
}

// Seconds converts a frame index to seconds
func (c *Clock) Seconds(frame int64) float64 {
	return float64(frame) / float64(c.rate)
}

// FrameAt converts a time in seconds to the first frame at or after it
func (c *Clock) FrameAt(t float64) int64 {
	if t <= 0 {
		return 0
	}
	return int64(math.Ceil(t*float64(c.rate) - 1e-9))
}

func (c *Clock) advance(n int) {
	c.frames.Add(int64(n))
}
