// ABOUTME: Registry of long-lived ambient drones
// ABOUTME: Mints handles, fades sources out on the audio clock and stops them all at once
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/graph"
)

// InvalidHandle is returned when an ambient source could not be created
const InvalidHandle = -1

const (
	ambientFadeIn  = 0.1
	ambientFloor   = 0.001
	ambientStopPad = 0.05
)

// ambientTone is one registered drone
type ambientTone struct {
	handle int
	oc     *outputContext
	voice  *graph.Voice
	freq   float64
	wave   audio.Waveform
	fading bool
	// fade counts fade requests so only the latest schedules removal
	fade uint64
}

// AmbientInfo describes a registered ambient source
type AmbientInfo struct {
	Handle    int            `json:"handle"`
	Frequency float64        `json:"frequency"`
	Waveform  audio.Waveform `json:"waveform"`
	Fading    bool           `json:"fading"`
}

// CreateAmbientTone starts a persistent oscillator fading in to volume over
// 100ms. It returns InvalidHandle unless the context is running, the
// frequency is finite and positive and the volume is finite and not negative.
func (e *Engine) CreateAmbientTone(freq float64, wave audio.Waveform, volume float64) int {
	if !audibleFrequency(freq) || !(volume >= 0) || math.IsInf(volume, 1) {
		e.note("ambient rejected: frequency %v volume %v", freq, volume)
		return InvalidHandle
	}
	oc, ok := e.ensure()
	if !ok || oc.State() != audio.StateRunning {
		e.note("ambient %.1fHz skipped", freq)
		return InvalidHandle
	}

	m := oc.mixer
	now := m.Clock().Now()
	v := m.NewVoice(graph.NewOscillator(wave, freq, m.SampleRate()), graph.MasterBus)
	v.Gain.SetValueAtTime(0, now)
	v.Gain.LinearRampToValueAtTime(volume, now+ambientFadeIn)
	v.Start(now)

	e.ambMu.Lock()
	h := e.nextHandle
	e.nextHandle++
	e.ambients[h] = &ambientTone{handle: h, oc: oc, voice: v, freq: freq, wave: wave}
	e.ambMu.Unlock()

	e.stats.ambientCreated.Add(1)
	e.note("ambient %d created %.1fHz %s vol=%.3f", h, freq, wave, volume)
	return h
}

// FadeOutAmbientTone fades a source to silence over duration and removes it
// once the fade has finished. Unknown handles are ignored. Fading a source
// that is already fading restarts the fade.
func (e *Engine) FadeOutAmbientTone(handle int, duration time.Duration) {
	e.ambMu.Lock()
	a, ok := e.ambients[handle]
	if !ok {
		e.ambMu.Unlock()
		return
	}
	a.fading = true
	a.fade++
	gen := a.fade
	e.ambMu.Unlock()

	m := a.oc.mixer
	now := m.Clock().Now()
	d := duration.Seconds()
	if d < 0 {
		d = 0
	}

	a.voice.Gain.CancelAndHold(now)
	a.voice.Gain.ExponentialRampToValueAtTime(ambientFloor, now+d)
	a.voice.Stop(now + d + ambientStopPad)

	m.At(now+d+ambientStopPad, func() {
		e.ambMu.Lock()
		cur, ok := e.ambients[handle]
		remove := ok && cur == a && a.fade == gen
		if remove {
			delete(e.ambients, handle)
		}
		e.ambMu.Unlock()

		if remove {
			a.voice.Disconnect()
			e.stats.ambientRemoved.Add(1)
			e.note("ambient %d removed", handle)
		}
	})

	e.note("ambient %d fading over %s", handle, duration)
}

// FadeOutAllAmbient fades every registered source
func (e *Engine) FadeOutAllAmbient(duration time.Duration) {
	for _, h := range e.ambientHandles() {
		e.FadeOutAmbientTone(h, duration)
	}
}

// StopAllAmbient stops and removes every ambient source immediately
func (e *Engine) StopAllAmbient() {
	e.ambMu.Lock()
	tones := e.ambients
	e.ambients = make(map[int]*ambientTone)
	e.ambMu.Unlock()

	if len(tones) == 0 {
		return
	}

	for _, a := range tones {
		a.voice.Stop(a.oc.mixer.Clock().Now())
		a.voice.Disconnect()
	}
	e.stats.ambientRemoved.Add(int64(len(tones)))
	e.note("stopped %d ambient", len(tones))
}

// AmbientCount returns the number of registered ambient sources
func (e *Engine) AmbientCount() int {
	e.ambMu.Lock()
	defer e.ambMu.Unlock()
	return len(e.ambients)
}

// Ambient lists registered sources ordered by handle
func (e *Engine) Ambient() []AmbientInfo {
	e.ambMu.Lock()
	defer e.ambMu.Unlock()

	out := make([]AmbientInfo, 0, len(e.ambients))
	for _, a := range e.ambients {
		out = append(out, AmbientInfo{Handle: a.handle, Frequency: a.freq, Waveform: a.wave, Fading: a.fading})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func (e *Engine) ambientHandles() []int {
	e.ambMu.Lock()
	defer e.ambMu.Unlock()

	handles := make([]int, 0, len(e.ambients))
	for h := range e.ambients {
		handles = append(handles, h)
	}
	sort.Ints(handles)
	return handles
}
