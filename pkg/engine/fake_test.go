// ABOUTME: Fake output backend for engine tests
// ABOUTME: Renders on demand and can be told to hang or reject transitions
package engine

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/arismusic/aris-go/pkg/audio/output"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testRate = 8000

type fakeBackend struct {
	mu      sync.Mutex
	opens   int
	openErr error
	device  *fakeDevice
	legacy  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{legacy: true}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Open(opts output.Options) (output.Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.device = &fakeDevice{opts: opts}
	if b.legacy {
		return &legacyFakeDevice{fakeDevice: b.device}, nil
	}
	return b.device, nil
}

func (b *fakeBackend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

func (b *fakeBackend) Device() *fakeDevice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.device
}

type fakeDevice struct {
	opts output.Options

	mu       sync.Mutex
	src      io.Reader
	running  bool
	closed   bool
	resumes  int
	suspends int
	legacy   int

	// resumeHook runs inside Resume and may block or fail
	resumeHook  func() error
	suspendHook func() error
}

func (d *fakeDevice) Start(src io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.src = src
	return nil
}

func (d *fakeDevice) Resume() error {
	d.mu.Lock()
	d.resumes++
	hook := d.resumeHook
	d.mu.Unlock()

	if hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}

	d.mu.Lock()
	d.running = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) Suspend() error {
	d.mu.Lock()
	d.suspends++
	hook := d.suspendHook
	d.mu.Unlock()

	if hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.running = false
	return nil
}

func (d *fakeDevice) Err() error { return nil }

// Advance pulls dur worth of frames from the mixer if the device is running
func (d *fakeDevice) Advance(t *testing.T, dur time.Duration) {
	t.Helper()
	d.Render(t, dur)
}

// Render pulls dur worth of frames and returns the interleaved samples.
// A device that is not running renders nothing.
func (d *fakeDevice) Render(t *testing.T, dur time.Duration) []float32 {
	t.Helper()
	d.mu.Lock()
	src, running := d.src, d.running
	d.mu.Unlock()
	if !running || src == nil {
		return nil
	}

	frames := int(dur.Seconds() * float64(d.opts.SampleRate))
	buf := make([]byte, frames*d.opts.Channels*4)
	_, err := io.ReadFull(src, buf)
	require.NoError(t, err)

	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

func (d *fakeDevice) SetResumeHook(fn func() error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resumeHook = fn
}

func (d *fakeDevice) SetSuspendHook(fn func() error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suspendHook = fn
}

func (d *fakeDevice) Counts() (resumes, suspends int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resumes, d.suspends
}

func (d *fakeDevice) LegacyPlays() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.legacy
}

func (d *fakeDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type legacyFakeDevice struct {
	*fakeDevice
}

func (d *legacyFakeDevice) PlayLegacy(wav []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(wav) == 0 {
		return errors.New("empty clip")
	}
	d.legacy++
	return nil
}

// fakeFetcher serves fixed bytes and counts fetches
type fakeFetcher struct {
	mu      sync.Mutex
	files   map[string][]byte
	fetches map[string]int
}

func newFakeFetcher(files map[string][]byte) *fakeFetcher {
	return &fakeFetcher{files: files, fetches: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[ref]++
	data, ok := f.files[ref]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeFetcher) Fetches(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[ref]
}

type testEngine struct {
	*Engine
	backend *fakeBackend
	logs    *test.Hook
}

func newTestEngine(t testing.TB, mutate ...func(*Config)) *testEngine {
	backend := newFakeBackend()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	cfg := Config{
		Backend:       backend,
		SampleRate:    testRate,
		Channels:      1,
		ResumeTimeout: 200 * time.Millisecond,
		Logger:        logrus.NewEntry(logger),
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	e, err := New(cfg)
	require.NoError(t, err)
	return &testEngine{Engine: e, backend: backend, logs: hook}
}

// device returns the fake device, failing if none was opened
func (te *testEngine) device(t testing.TB) *fakeDevice {
	d := te.backend.Device()
	require.NotNil(t, d, "no device opened")
	return d
}

// notes collects debug notes
type notes struct {
	mu  sync.Mutex
	all []string
}

func (n *notes) add(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, s)
}

func (n *notes) list() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.all...)
}
