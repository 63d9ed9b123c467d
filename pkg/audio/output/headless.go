// ABOUTME: Headless audio output that paces reads in real time
// ABOUTME: Used for tests, CI and machines without a sound card
package output

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Headless pulls frames on a ticker and discards them
type Headless struct {
	// Period is the pull interval; zero uses 10ms
	Period time.Duration
}

// Name implements Backend
func (Headless) Name() string { return "headless" }

// Open implements Backend
func (h Headless) Open(opts Options) (Device, error) {
	period := h.Period
	if period <= 0 {
		period = 10 * time.Millisecond
	}
	return &HeadlessDevice{opts: opts.withDefaults(), period: period}, nil
}

// HeadlessDevice is the Device returned by Headless
type HeadlessDevice struct {
	opts   Options
	period time.Duration

	mu      sync.Mutex
	src     io.Reader
	stop    chan struct{}
	done    chan struct{}
	closed  bool
	errMu   sync.Mutex
	err     error
	pulled  atomic.Int64
	legacy  atomic.Int64
	running atomic.Bool
}

// Start implements Device
func (d *HeadlessDevice) Start(src io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.src = src
	return nil
}

// Resume implements Device
func (d *HeadlessDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.stop != nil {
		return nil
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	d.running.Store(true)
	go d.loop(d.src, d.stop, d.done)
	return nil
}

// Suspend implements Device
func (d *HeadlessDevice) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.halt()
	return nil
}

// Close implements Device
func (d *HeadlessDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.halt()
	d.closed = true
	return nil
}

// Err implements Device
func (d *HeadlessDevice) Err() error {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	return d.err
}

// PlayLegacy implements LegacyPlayer
func (d *HeadlessDevice) PlayLegacy(wav []byte) error {
	if len(wav) == 0 {
		return fmt.Errorf("empty legacy clip")
	}
	d.legacy.Add(1)
	return nil
}

// Running reports whether frames are being pulled
func (d *HeadlessDevice) Running() bool {
	return d.running.Load()
}

// FramesPulled returns the number of frames read from the source
func (d *HeadlessDevice) FramesPulled() int64 {
	return d.pulled.Load()
}

// LegacyPlays returns how many legacy clips were played
func (d *HeadlessDevice) LegacyPlays() int64 {
	return d.legacy.Load()
}

// halt stops the pull loop (must hold d.mu)
func (d *HeadlessDevice) halt() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop, d.done = nil, nil
	d.running.Store(false)
}

func (d *HeadlessDevice) loop(src io.Reader, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	frameBytes := d.opts.frameBytes()
	began := time.Now()
	var frames int64
	buf := make([]byte, 0)

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if src == nil {
				continue
			}
			target := int64(now.Sub(began).Seconds() * float64(d.opts.SampleRate))
			n := int(target - frames)
			if n <= 0 {
				continue
			}
			if cap(buf) < n*frameBytes {
				buf = make([]byte, n*frameBytes)
			}
			if _, err := io.ReadFull(src, buf[:n*frameBytes]); err != nil {
				if !errors.Is(err, io.EOF) {
					d.errMu.Lock()
					d.err = err
					d.errMu.Unlock()
				}
				return
			}
			frames += int64(n)
			d.pulled.Add(int64(n))
		}
	}
}
