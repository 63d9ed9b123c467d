// ABOUTME: Sound generators for graph voices
// ABOUTME: Implements waveform oscillators and one-shot sample buffers
package graph

import (
	"math"

	"github.com/arismusic/aris-go/pkg/audio"
)

// Generator produces mono samples for a voice
type Generator interface {
	// Generate overwrites buf with the next len(buf) samples
	Generate(buf []float32)
}

// Ender is implemented by generators that run out of material
type Ender interface {
	Ended() bool
}

// Oscillator is a phase-accumulating periodic waveform
type Oscillator struct {
	wave  audio.Waveform
	freq  float64
	rate  float64
	phase float64
}

// NewOscillator creates an oscillator at freq Hz for the given sample rate
func NewOscillator(wave audio.Waveform, freq float64, sampleRate int) *Oscillator {
	return &Oscillator{wave: wave, freq: freq, rate: float64(sampleRate)}
}

// Waveform returns the oscillator shape
func (o *Oscillator) Waveform() audio.Waveform {
	return o.wave
}

// Frequency returns the oscillator frequency in Hz
func (o *Oscillator) Frequency() float64 {
	return o.freq
}

// Generate implements Generator
func (o *Oscillator) Generate(buf []float32) {
	step := o.freq / o.rate
	for i := range buf {
		buf[i] = float32(shape(o.wave, o.phase))
		o.phase += step
		if o.phase >= 1 {
			o.phase -= math.Floor(o.phase)
		}
	}
}

// shape evaluates a waveform at phase p in [0, 1)
func shape(w audio.Waveform, p float64) float64 {
	switch w {
	case audio.Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case audio.Sawtooth:
		return 2*p - 1
	case audio.Triangle:
		q := p + 0.25
		q -= math.Floor(q)
		return 1 - 4*math.Abs(q-0.5)
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// BufferSource plays mono samples once
type BufferSource struct {
	samples []float32
	pos     int
}

// NewBufferSource creates a one-shot source; pcm is downmixed to mono
func NewBufferSource(pcm *audio.PCM) *BufferSource {
	if pcm == nil {
		return &BufferSource{}
	}
	return &BufferSource{samples: pcm.Mono().Samples}
}

// Generate implements Generator
func (b *BufferSource) Generate(buf []float32) {
	n := copy(buf, b.samples[b.pos:])
	b.pos += n
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

// Ended reports whether every sample has been played
func (b *BufferSource) Ended() bool {
	return b.pos >= len(b.samples)
}

// Len returns the buffer length in frames
func (b *BufferSource) Len() int {
	return len(b.samples)
}
