// ABOUTME: Audio graph package for synthesized and sampled voices
// ABOUTME: Provides a frame clock, automated params, generators and a mixer
// Package graph is a small audio rendering graph.
//
// A Mixer owns a Clock that counts rendered frames. Voices pair a
// Generator (Oscillator or BufferSource) with an automated gain Param and
// are routed either through the master bus (master gain then low-pass) or
// straight to the destination. The Mixer is an io.Reader producing
// interleaved float32 little-endian frames for an output device.
//
// Deferred work is scheduled on the audio clock with Mixer.At and runs
// after the frame that reaches the requested time has been rendered, so a
// device that stops pulling frames also pauses pending tasks.
//
// Example:
//
//	m := graph.NewMixer(graph.Options{SampleRate: 48000, Channels: 2})
//	v := m.NewVoice(graph.NewOscillator(audio.Sine, 440, 48000), graph.MasterBus)
//	now := m.Clock().Now()
//	v.Gain.SetValueAtTime(0, now)
//	v.Gain.LinearRampToValueAtTime(1, now+0.05)
//	v.Start(now)
//	v.Stop(now + 0.5)
//	m.At(now+0.7, v.Disconnect)
package graph
