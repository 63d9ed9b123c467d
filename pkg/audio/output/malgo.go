//go:build malgo

// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a callback that pulls float32 frames
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
)

// Malgo is the miniaudio backend
type Malgo struct{}

// Name implements Backend
func (Malgo) Name() string { return "malgo" }

// Open implements Backend
func (Malgo) Open(opts Options) (Device, error) {
	opts = opts.withDefaults()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize malgo context: %v", ErrUnavailable, err)
	}

	d := &malgoDevice{ctx: ctx, opts: opts}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(opts.Channels)
	deviceConfig.SampleRate = uint32(opts.SampleRate)
	deviceConfig.PeriodSizeInMilliseconds = uint32(opts.BufferSize.Milliseconds())
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		d.dataCallback(pOutputSample)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("%w: failed to initialize playback device: %v", ErrUnavailable, err)
	}
	d.device = device

	logrus.WithFields(logrus.Fields{
		"component":   "output",
		"sample_rate": opts.SampleRate,
		"channels":    opts.Channels,
	}).Info("Audio output initialized (malgo/F32)")

	return d, nil
}

type malgoDevice struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	opts   Options

	mu     sync.Mutex
	src    io.Reader
	closed bool
	err    error
}

// dataCallback is called by malgo to fill the audio output buffer
func (d *malgoDevice) dataCallback(out []byte) {
	d.mu.Lock()
	src := d.src
	d.mu.Unlock()

	if src == nil {
		clear(out)
		return
	}
	if _, err := io.ReadFull(src, out); err != nil {
		clear(out)
		d.mu.Lock()
		d.err = err
		d.mu.Unlock()
	}
}

// Start implements Device
func (d *malgoDevice) Start(src io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.src = src
	return nil
}

// Resume implements Device
func (d *malgoDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.device.IsStarted() {
		return nil
	}
	if err := d.device.Start(); err != nil {
		return fmt.Errorf("malgo start: %w", err)
	}
	return nil
}

// Suspend implements Device
func (d *malgoDevice) Suspend() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.mu.Unlock()

	// Stop waits for the callback, which takes d.mu
	if err := d.device.Stop(); err != nil {
		return fmt.Errorf("malgo stop: %w", err)
	}
	return nil
}

// Close implements Device
func (d *malgoDevice) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	if err := d.device.Stop(); err != nil {
		logrus.WithError(err).Warn("malgo device stop error")
	}
	d.device.Uninit()

	if err := d.ctx.Uninit(); err != nil {
		logrus.WithError(err).Warn("malgo context uninit error")
	}
	d.ctx.Free()
	return nil
}

// Err implements Device
func (d *malgoDevice) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
