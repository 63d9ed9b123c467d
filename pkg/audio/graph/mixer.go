// ABOUTME: Mixer rendering graph voices into interleaved float32 frames
// ABOUTME: Owns the audio clock and the queue of clock-scheduled tasks
package graph

import (
	"container/heap"
	"encoding/binary"
	"math"
	"sync"
)

// BytesPerSample is the size of one float32LE sample
const BytesPerSample = 4

// DefaultQ is the Butterworth quality factor used by the master low-pass
const DefaultQ = math.Sqrt2 / 2

// Options configures a Mixer
type Options struct {
	SampleRate int
	Channels   int
	// MasterGain is the initial master gain; zero means 1
	MasterGain float64
	// LowPassHz is the master low-pass cutoff; zero disables the filter
	LowPassHz float64
	// BlockFrames bounds how many frames are rendered per internal block
	BlockFrames int
}

// Mixer sums voices and implements io.Reader over float32LE frames
type Mixer struct {
	Master *Param

	clock    *Clock
	channels int
	block    int
	filter   *LowPass

	mu     sync.Mutex
	nextID uint64
	voices []*Voice
	tasks  taskQueue
	seq    uint64

	masterBuf []float32
	destBuf   []float32
	scratch   []float32
	gainBuf   []float32
	masterG   []float32
}

// NewMixer creates a mixer with its own clock
func NewMixer(opts Options) *Mixer {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 48000
	}
	if opts.Channels <= 0 {
		opts.Channels = 2
	}
	if opts.MasterGain == 0 {
		opts.MasterGain = 1
	}
	if opts.BlockFrames <= 0 {
		opts.BlockFrames = 512
	}

	clock := NewClock(opts.SampleRate)
	b := opts.BlockFrames
	return &Mixer{
		Master:    NewParam(clock, opts.MasterGain),
		clock:     clock,
		channels:  opts.Channels,
		block:     b,
		filter:    NewLowPass(opts.LowPassHz, DefaultQ, opts.SampleRate),
		masterBuf: make([]float32, b),
		destBuf:   make([]float32, b),
		scratch:   make([]float32, b),
		gainBuf:   make([]float32, b),
		masterG:   make([]float32, b),
	}
}

// Clock returns the mixer's audio clock
func (m *Mixer) Clock() *Clock {
	return m.clock
}

// Channels returns the number of interleaved output channels
func (m *Mixer) Channels() int {
	return m.channels
}

// SampleRate returns the output rate in Hz
func (m *Mixer) SampleRate() int {
	return m.clock.Rate()
}

// NewVoice creates an unconnected voice with gain 1. Call Start to connect it.
func (m *Mixer) NewVoice(gen Generator, bus Bus) *Voice {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.mu.Unlock()

	v := &Voice{
		Gain:  NewParam(m.clock, 1),
		id:    id,
		mixer: m,
		gen:   gen,
		bus:   bus,
	}
	v.stopAt.Store(noStop)
	return v
}

// Filtering reports whether the master low-pass is active
func (m *Mixer) Filtering() bool {
	return m.filter.Active()
}

// VoiceCount returns the number of connected voices
func (m *Mixer) VoiceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// PendingTasks returns the number of scheduled tasks not yet run
func (m *Mixer) PendingTasks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// At schedules fn to run once the clock reaches t.
// Tasks run on the rendering goroutine after the frame is rendered.
func (m *Mixer) At(t float64, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	heap.Push(&m.tasks, &task{frame: m.clock.FrameAt(t), seq: m.seq, fn: fn})
}

// Read renders len(p)/(4*channels) frames as float32LE
func (m *Mixer) Read(p []byte) (int, error) {
	frameBytes := BytesPerSample * m.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	written := 0
	for frames > 0 {
		n := frames
		if n > m.block {
			n = m.block
		}
		due := m.renderBlock(p[written:written+n*frameBytes], n)
		for _, fn := range due {
			fn()
		}
		written += n * frameBytes
		frames -= n
	}
	return written, nil
}

func (m *Mixer) renderBlock(out []byte, n int) []func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.clock.Frame()
	master := m.masterBuf[:n]
	dest := m.destBuf[:n]
	clear(master)
	clear(dest)

	for _, v := range m.voices {
		target := master
		if v.bus == DestinationBus {
			target = dest
		}
		v.render(target, m.scratch[:n], m.gainBuf[:n], start)
	}
	silenceNonFinite(master)
	silenceNonFinite(dest)

	mg := m.masterG[:n]
	m.Master.Fill(mg, start)
	for i := range master {
		master[i] *= mg[i]
	}
	m.filter.Process(master)

	for i := 0; i < n; i++ {
		s := master[i] + dest[i]
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		bits := math.Float32bits(s)
		for ch := 0; ch < m.channels; ch++ {
			off := (i*m.channels + ch) * BytesPerSample
			binary.LittleEndian.PutUint32(out[off:], bits)
		}
	}

	m.clock.advance(n)
	now := m.clock.Frame()

	var due []func()
	for len(m.tasks) > 0 && m.tasks[0].frame <= now {
		t := heap.Pop(&m.tasks).(*task)
		due = append(due, t.fn)
	}
	return due
}

// silenceNonFinite zeroes NaN and infinite samples
func silenceNonFinite(buf []float32) {
	for i, s := range buf {
		if s != s || math.IsInf(float64(s), 0) {
			buf[i] = 0
		}
	}
}

func (m *Mixer) connect(v *Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = append(m.voices, v)
}

func (m *Mixer) disconnect(v *Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, other := range m.voices {
		if other == v {
			m.voices = append(m.voices[:i], m.voices[i+1:]...)
			return
		}
	}
}

type task struct {
	frame int64
	seq   uint64
	fn    func()
}

// taskQueue is a min-heap of tasks ordered by frame then insertion
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].frame == q[j].frame {
		return q[i].seq < q[j].seq
	}
	return q[i].frame < q[j].frame
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
