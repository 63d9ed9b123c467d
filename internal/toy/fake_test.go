// ABOUTME: Test doubles for the engine and particle layer
// ABOUTME: Records every call so screens can be asserted on
package toy

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
)

type toneCall struct {
	Freq     float64
	Wave     audio.Waveform
	Duration time.Duration
}

type ambientCall struct {
	Freq   float64
	Volume float64
}

type fakeAudio struct {
	mu       sync.Mutex
	resumes  int
	tones    []toneCall
	files    []string
	ambient  []ambientCall
	fades    []time.Duration
	stopAlls int
}

func (f *fakeAudio) Resume(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
}

func (f *fakeAudio) PlayTone(freq float64, wave audio.Waveform, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tones = append(f.tones, toneCall{freq, wave, d})
}

func (f *fakeAudio) PlaySoundFile(ctx context.Context, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, url)
}

func (f *fakeAudio) CreateAmbientTone(freq float64, wave audio.Waveform, volume float64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ambient = append(f.ambient, ambientCall{freq, volume})
	return len(f.ambient) - 1
}

func (f *fakeAudio) FadeOutAllAmbient(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fades = append(f.fades, d)
}

func (f *fakeAudio) StopAllAmbient() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopAlls++
}

func (f *fakeAudio) Tones() []toneCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]toneCall(nil), f.tones...)
}

func (f *fakeAudio) Files() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...)
}

func (f *fakeAudio) Ambient() []ambientCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ambientCall(nil), f.ambient...)
}

func (f *fakeAudio) Fades() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.fades...)
}

func (f *fakeAudio) Resumes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumes
}

func (f *fakeAudio) StopAlls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopAlls
}

type burstCall struct {
	X, Y  float64
	Color string // empty for multicolour
}

type fakeBurster struct {
	bursts []burstCall
}

func (b *fakeBurster) Burst(x, y float64, color string) {
	b.bursts = append(b.bursts, burstCall{x, y, color})
}

func (b *fakeBurster) BurstMulticolor(x, y float64) {
	b.bursts = append(b.bursts, burstCall{X: x, Y: y})
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

var epoch = time.Unix(1700000000, 0)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func ptr(id int, x, y float64) touch.Pointer {
	return touch.Pointer{ID: id, X: x, Y: y}
}
