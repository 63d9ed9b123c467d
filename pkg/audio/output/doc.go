// ABOUTME: Audio output package for playing rendered frames
// ABOUTME: Provides the Backend and Device interfaces plus oto, malgo and headless backends
// Package output provides audio devices that pull float32 frames from a source.
//
// A Backend opens a Device for a sample format. The device pulls
// interleaved float32 little-endian frames from the io.Reader passed to
// Start, but only while resumed. A freshly opened device is suspended.
//
// Backends:
//   - oto: the default, one context per process (package oto limitation)
//   - malgo: miniaudio via cgo, built with -tags malgo
//   - headless: paces reads in real time without a sound card
//   - none: always unavailable
//
// Example:
//
//	backend, err := output.ByName("oto")
//	dev, err := backend.Open(output.Options{SampleRate: 48000, Channels: 2})
//	err = dev.Start(mixer)
//	err = dev.Resume()
package output
