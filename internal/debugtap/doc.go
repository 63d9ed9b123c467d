// ABOUTME: Remote debug tap for the audio engine
// ABOUTME: Streams engine notes over WebSocket and serves a state snapshot

// Package debugtap lets a second machine watch the engine of a running toy.
// The Hub installs itself as the engine's single debug observer and fans
// each note out to WebSocket clients and in-process subscribers.
//
// Endpoints:
//
//	GET /debug/audio   WebSocket, one JSON Event per note
//	GET /debug/state   JSON Snapshot
package debugtap
