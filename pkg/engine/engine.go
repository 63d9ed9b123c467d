// ABOUTME: Engine construction, configuration and output context ownership
// ABOUTME: Creates the single output context on demand and tears it down on Close
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/graph"
	"github.com/arismusic/aris-go/pkg/audio/output"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Defaults applied by New to zero Config fields
const (
	DefaultSampleRate    = 48000
	DefaultChannels      = 2
	DefaultMasterGain    = 0.5
	DefaultLowPassHz     = 8000
	DefaultResumeTimeout = 3 * time.Second
)

// Fetcher loads sound file bytes by URL or path
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Config holds engine configuration
type Config struct {
	// Backend opens the output device; nil leaves audio unavailable
	Backend       output.Backend
	SampleRate    int
	Channels      int
	BufferSize    time.Duration
	MasterGain    float64
	// LowPassHz is the tone-shaping cutoff; negative disables the filter
	LowPassHz     float64
	ResumeTimeout time.Duration
	// Fetcher loads files for PlaySoundFile
	Fetcher       Fetcher
	Logger        *logrus.Entry
}

type phase int32

const (
	phaseIdle phase = iota
	phaseOpen
	phaseUnavailable
	phaseClosed
)

// outputContext is the single live output: device, graph and power state
type outputContext struct {
	id       string
	device   output.Device
	mixer    *graph.Mixer
	state    atomic.Int32
	unlocked atomic.Bool
}

func (oc *outputContext) State() audio.State {
	return audio.State(oc.state.Load())
}

// setState records a completed platform transition unless the context was closed
func (oc *outputContext) setState(s audio.State) bool {
	for {
		cur := oc.state.Load()
		if audio.State(cur) == audio.StateClosed {
			return false
		}
		if oc.state.CompareAndSwap(cur, int32(s)) {
			return true
		}
	}
}

// Engine is the audio lifecycle engine
type Engine struct {
	cfg Config
	log *logrus.Entry

	mu    sync.Mutex
	phase atomic.Int32
	out   atomic.Pointer[outputContext]

	transMu sync.Mutex
	pending map[audio.State]*transition

	debug atomic.Pointer[DebugFunc]
	stats counters

	ambMu      sync.Mutex
	ambients   map[int]*ambientTone
	nextHandle int

	filesMu sync.Mutex
	files   map[string]*fileEntry
}

// New creates an engine. No output is opened until the first lifecycle or playback call.
func New(cfg Config) (*Engine, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = DefaultChannels
	}
	if cfg.MasterGain == 0 {
		cfg.MasterGain = DefaultMasterGain
	}
	if cfg.LowPassHz == 0 {
		cfg.LowPassHz = DefaultLowPassHz
	}
	if cfg.ResumeTimeout == 0 {
		cfg.ResumeTimeout = DefaultResumeTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.WithField("component", "engine")
	}

	if cfg.SampleRate < 0 || cfg.Channels < 0 {
		return nil, fmt.Errorf("invalid output format: %dHz/%dch", cfg.SampleRate, cfg.Channels)
	}
	if cfg.MasterGain < 0 {
		return nil, fmt.Errorf("invalid master gain: %v", cfg.MasterGain)
	}
	if cfg.ResumeTimeout < 0 {
		return nil, fmt.Errorf("invalid resume timeout: %v", cfg.ResumeTimeout)
	}

	return &Engine{
		cfg:      cfg,
		log:      cfg.Logger,
		pending:  make(map[audio.State]*transition),
		ambients: make(map[int]*ambientTone),
		files:    make(map[string]*fileEntry),
	}, nil
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns the live power state of the output context
func (e *Engine) State() audio.State {
	switch phase(e.phase.Load()) {
	case phaseOpen:
		if oc := e.out.Load(); oc != nil {
			return oc.State()
		}
		return audio.StateUninitialized
	case phaseClosed:
		return audio.StateClosed
	default:
		return audio.StateUninitialized
	}
}

// Ready reports whether the context is running
func (e *Engine) Ready() bool {
	return e.State() == audio.StateRunning
}

// ContextID identifies the current output context, or "" before creation
func (e *Engine) ContextID() string {
	if oc := e.out.Load(); oc != nil {
		return oc.id
	}
	return ""
}

// current returns the open context without creating one
func (e *Engine) current() (*outputContext, bool) {
	if phase(e.phase.Load()) != phaseOpen {
		return nil, false
	}
	oc := e.out.Load()
	return oc, oc != nil
}

// ensure returns the open context, creating it on first use
func (e *Engine) ensure() (*outputContext, bool) {
	if oc, ok := e.current(); ok {
		return oc, true
	}

	e.mu.Lock()
	oc, created, err := e.create()
	e.mu.Unlock()

	if err != nil {
		e.stats.openFailures.Add(1)
		e.log.WithError(err).Warn("Audio output unavailable")
		e.note("context unavailable: %v", err)
		return nil, false
	}
	if created {
		e.stats.contextsCreated.Add(1)
		e.log.WithFields(logrus.Fields{
			"context":     oc.id,
			"sample_rate": e.cfg.SampleRate,
			"channels":    e.cfg.Channels,
		}).Info("Audio context created")
		e.note("context created %s", oc.id)
	}
	return oc, oc != nil
}

// create opens the device and graph (must hold e.mu)
func (e *Engine) create() (*outputContext, bool, error) {
	switch phase(e.phase.Load()) {
	case phaseOpen:
		return e.out.Load(), false, nil
	case phaseClosed:
		return nil, false, nil
	case phaseUnavailable:
		return nil, false, nil
	}

	if e.cfg.Backend == nil {
		e.phase.Store(int32(phaseUnavailable))
		return nil, false, output.ErrUnavailable
	}

	dev, err := e.cfg.Backend.Open(output.Options{
		SampleRate: e.cfg.SampleRate,
		Channels:   e.cfg.Channels,
		BufferSize: e.cfg.BufferSize,
	})
	if err != nil {
		e.phase.Store(int32(phaseUnavailable))
		return nil, false, fmt.Errorf("open %s backend: %w", e.cfg.Backend.Name(), err)
	}

	lowpass := e.cfg.LowPassHz
	if lowpass < 0 {
		lowpass = 0
	}
	mixer := graph.NewMixer(graph.Options{
		SampleRate: e.cfg.SampleRate,
		Channels:   e.cfg.Channels,
		MasterGain: e.cfg.MasterGain,
		LowPassHz:  lowpass,
	})

	if err := dev.Start(mixer); err != nil {
		_ = dev.Close()
		e.phase.Store(int32(phaseUnavailable))
		return nil, false, fmt.Errorf("start %s device: %w", e.cfg.Backend.Name(), err)
	}

	oc := &outputContext{
		id:     uuid.NewString(),
		device: dev,
		mixer:  mixer,
	}
	oc.state.Store(int32(audio.StateSuspended))

	e.out.Store(oc)
	e.phase.Store(int32(phaseOpen))
	return oc, true, nil
}

// Close tears the context down for process exit. Later calls are no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	prev := phase(e.phase.Swap(int32(phaseClosed)))
	e.mu.Unlock()

	if prev == phaseClosed {
		return nil
	}

	e.StopAllAmbient()

	oc := e.out.Load()
	if oc == nil {
		e.note("closed")
		return nil
	}

	oc.state.Store(int32(audio.StateClosed))
	e.log.WithField("context", oc.id).Info("Audio context closed")
	e.note("closed")
	if err := oc.device.Close(); err != nil {
		return fmt.Errorf("close audio device: %w", err)
	}
	return nil
}
