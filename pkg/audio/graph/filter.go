// ABOUTME: Biquad low-pass filter for tone shaping
// ABOUTME: RBJ cookbook coefficients with direct form I state
package graph

import "math"

// LowPass is a second order low-pass filter
type LowPass struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
	bypass             bool
}

// NewLowPass creates a filter with the given cutoff and Q.
// A cutoff of zero or at/above Nyquist yields a pass-through filter.
func NewLowPass(cutoff, q float64, sampleRate int) *LowPass {
	fs := float64(sampleRate)
	if cutoff <= 0 || cutoff >= fs/2 {
		return &LowPass{bypass: true}
	}
	if q <= 0 {
		q = math.Sqrt2 / 2
	}

	w0 := 2 * math.Pi * cutoff / fs
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	return &LowPass{
		b0: (1 - cos) / 2 / a0,
		b1: (1 - cos) / a0,
		b2: (1 - cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

// Process filters buf in place. A non-finite result clears the history
// and is written as silence.
func (f *LowPass) Process(buf []float32) {
	if f.bypass {
		return
	}
	for i, s := range buf {
		x := float64(s)
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		if math.IsNaN(y) || math.IsInf(y, 0) {
			f.Reset()
			buf[i] = 0
			continue
		}
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		buf[i] = float32(y)
	}
}

// Active reports whether the filter alters its input
func (f *LowPass) Active() bool {
	return !f.bypass
}

// Reset clears the filter history
func (f *LowPass) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}
