// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines power states, waveforms, PCM buffers and sample conversions
// Package audio provides the fundamental types shared by the Aris audio stack.
//
// This package defines:
//   - State: the power state of the shared output context
//   - Waveform: oscillator shapes used by synthesized tones and drones
//   - PCM: decoded audio as interleaved float32 samples
//
// It also provides conversions between integer and float sample formats
// used by the decoders and output backends.
//
// Example:
//
//	wave, err := audio.ParseWaveform("triangle")
//	pcm := &audio.PCM{SampleRate: 48000, Channels: 1, Samples: samples}
//	fmt.Println(pcm.Duration())
package audio
