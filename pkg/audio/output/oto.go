// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams float32 frames through one process-wide oto context with suspend and resume
package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/decode"
	"github.com/arismusic/aris-go/pkg/audio/resample"
	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// oto only allows one context per process, so it is shared by every device
var shared struct {
	mu    sync.Mutex
	ctx   *oto.Context
	ready chan struct{}
	opts  Options
	inUse bool
}

// Oto is the default backend
type Oto struct{}

// Name implements Backend
func (Oto) Name() string { return "oto" }

// Open implements Backend. The device is suspended until Resume.
func (Oto) Open(opts Options) (Device, error) {
	opts = opts.withDefaults()

	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.inUse {
		return nil, fmt.Errorf("oto context already in use")
	}

	if shared.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   opts.SampleRate,
			ChannelCount: opts.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   opts.BufferSize,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create oto context: %v", ErrUnavailable, err)
		}
		shared.ctx = ctx
		shared.ready = ready
		shared.opts = opts
	} else if shared.opts.SampleRate != opts.SampleRate || shared.opts.Channels != opts.Channels {
		// oto can't reinitialize; keep the existing format
		logrus.WithFields(logrus.Fields{
			"component": "output",
			"have":      fmt.Sprintf("%dHz/%dch", shared.opts.SampleRate, shared.opts.Channels),
			"want":      fmt.Sprintf("%dHz/%dch", opts.SampleRate, opts.Channels),
		}).Warn("oto context format mismatch, reusing existing context")
	}

	shared.inUse = true
	return &otoDevice{ctx: shared.ctx, ready: shared.ready, opts: shared.opts}, nil
}

type otoDevice struct {
	mu     sync.Mutex
	ctx    *oto.Context
	ready  chan struct{}
	opts   Options
	player *oto.Player
	closed bool
}

// Start implements Device
func (d *otoDevice) Start(src io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.player != nil {
		return fmt.Errorf("oto device already started")
	}
	d.player = d.ctx.NewPlayer(src)
	d.player.SetBufferSize(int(d.opts.BufferSize.Seconds()*float64(d.opts.SampleRate)) * d.opts.frameBytes())
	return nil
}

// Resume implements Device. On platforms that gate audio behind a user
// gesture this blocks until the context becomes ready.
func (d *otoDevice) Resume() error {
	<-d.ready

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := d.ctx.Resume(); err != nil {
		return fmt.Errorf("oto resume: %w", err)
	}
	if d.player != nil && !d.player.IsPlaying() {
		d.player.Play()
	}
	return nil
}

// Suspend implements Device
func (d *otoDevice) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := d.ctx.Suspend(); err != nil {
		return fmt.Errorf("oto suspend: %w", err)
	}
	return nil
}

// Close implements Device. The shared context is suspended, not destroyed.
func (d *otoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var err error
	if d.player != nil {
		err = d.player.Close()
		d.player = nil
	}
	if serr := d.ctx.Suspend(); serr != nil && err == nil {
		err = serr
	}

	shared.mu.Lock()
	shared.inUse = false
	shared.mu.Unlock()

	return err
}

// Err implements Device
func (d *otoDevice) Err() error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player != nil {
		return d.player.Err()
	}
	return nil
}

// PlayLegacy implements LegacyPlayer with a second player outside the main stream
func (d *otoDevice) PlayLegacy(wav []byte) error {
	pcm, err := decode.Decode("legacy.wav", bytes.NewReader(wav))
	if err != nil {
		return fmt.Errorf("legacy clip: %w", err)
	}
	frames := encodeFrames(resample.Convert(pcm, d.opts.SampleRate), d.opts.Channels)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	p := d.ctx.NewPlayer(bytes.NewReader(frames))
	d.mu.Unlock()

	p.Play()
	go func() {
		for p.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		_ = p.Close()
	}()
	return nil
}

// encodeFrames converts PCM to interleaved float32LE with the given channel count
func encodeFrames(pcm *audio.PCM, channels int) []byte {
	mono := pcm.Mono()
	out := make([]byte, len(mono.Samples)*channels*4)
	for i, s := range mono.Samples {
		bits := math.Float32bits(audio.Clamp(s))
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint32(out[(i*channels+ch)*4:], bits)
		}
	}
	return out
}
