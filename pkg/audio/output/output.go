// ABOUTME: Audio output interface definition
// ABOUTME: Common interfaces for audio playback backends and backend lookup
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	// ErrUnavailable means the platform cannot provide audio output
	ErrUnavailable = errors.New("audio output unavailable")
	// ErrClosed is returned by operations on a closed device
	ErrClosed = errors.New("audio device closed")
)

// Options describes the format a device renders
type Options struct {
	SampleRate int
	Channels   int
	// BufferSize is the device latency target; zero picks a backend default
	BufferSize time.Duration
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = 48000
	}
	if o.Channels <= 0 {
		o.Channels = 2
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 40 * time.Millisecond
	}
	return o
}

// frameBytes is the size of one interleaved float32 frame
func (o Options) frameBytes() int {
	return 4 * o.Channels
}

// Backend opens output devices
type Backend interface {
	// Name identifies the backend
	Name() string

	// Open creates a suspended device for the given format
	Open(opts Options) (Device, error)
}

// Device is an open audio output
type Device interface {
	// Start attaches the float32LE frame source; frames are pulled only while resumed
	Start(src io.Reader) error

	// Resume starts or restarts pulling frames. It may block until the platform allows playback.
	Resume() error

	// Suspend stops pulling frames without releasing the device
	Suspend() error

	// Close releases output resources
	Close() error

	// Err returns the last asynchronous playback error, if any
	Err() error
}

// LegacyPlayer is implemented by devices with a secondary playback path
// independent of the frame source (used to play a short WAV clip)
type LegacyPlayer interface {
	PlayLegacy(wav []byte) error
}

// Backends lists the names accepted by ByName
var Backends = []string{"oto", "malgo", "headless", "none"}

// ByName returns the backend with the given name; empty selects oto
func ByName(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "oto":
		return Oto{}, nil
	case "malgo":
		return Malgo{}, nil
	case "headless":
		return Headless{}, nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q (want one of %s)", name, strings.Join(Backends, ", "))
	}
}

// None is a backend that is never available
type None struct{}

// Name implements Backend
func (None) Name() string { return "none" }

// Open implements Backend
func (None) Open(Options) (Device, error) {
	return nil, ErrUnavailable
}
