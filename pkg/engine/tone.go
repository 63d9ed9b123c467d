// ABOUTME: One-shot synthesized tones and the unlock confirmation blip
// ABOUTME: Schedules envelopes and clock-driven release of transient voices
package engine

import (
	"math"
	"time"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/graph"
)

const (
	toneAttack    = 0.05
	toneFloor     = 0.001
	releaseDelay  = 0.2
	blipFrequency = 880
	blipGain      = 0.02
	blipFloor     = 0.0001
	blipLength    = 0.1
)

// PlayTone plays a one-shot tone through the master gain and filter.
// A suspended context gets a background resume request and the tone is dropped.
func (e *Engine) PlayTone(freq float64, wave audio.Waveform, duration time.Duration) {
	if !audibleFrequency(freq) {
		e.stats.tonesSkipped.Add(1)
		e.note("tone rejected: frequency %v", freq)
		return
	}
	oc, ok := e.ensure()
	if !ok {
		return
	}

	switch oc.State() {
	case audio.StateRunning:
	case audio.StateSuspended:
		e.resumeInBackground(oc)
		fallthrough
	default:
		e.stats.tonesSkipped.Add(1)
		e.note("tone %.1fHz skipped", freq)
		return
	}

	d := duration.Seconds()
	if d <= 0 {
		return
	}

	m := oc.mixer
	now := m.Clock().Now()
	v := m.NewVoice(graph.NewOscillator(wave, freq, m.SampleRate()), graph.MasterBus)

	attack := math.Min(toneAttack, d/2)
	v.Gain.SetValueAtTime(0, now)
	v.Gain.LinearRampToValueAtTime(1, now+attack)
	v.Gain.ExponentialRampToValueAtTime(toneFloor, now+d)
	v.Start(now)
	v.Stop(now + d)

	id := v.ID()
	m.At(now+d+releaseDelay, func() {
		v.Disconnect()
		e.note("tone %d released", id)
	})

	e.stats.tonesPlayed.Add(1)
	e.note("tone %d %.1fHz %s %s", id, freq, wave, duration)
}

// audibleFrequency reports whether freq is finite and positive
func audibleFrequency(freq float64) bool {
	return freq > 0 && !math.IsInf(freq, 1)
}

// playConfirmation plays the short unlock blip straight to the destination
func (e *Engine) playConfirmation(oc *outputContext) {
	m := oc.mixer
	now := m.Clock().Now()
	v := m.NewVoice(graph.NewOscillator(audio.Triangle, blipFrequency, m.SampleRate()), graph.DestinationBus)
	v.Gain.SetValueAtTime(blipGain, now)
	v.Gain.ExponentialRampToValueAtTime(blipFloor, now+blipLength)
	v.Start(now)
	v.Stop(now + blipLength)
	m.At(now+blipLength+releaseDelay, v.Disconnect)

	e.stats.confirmTones.Add(1)
	e.log.WithField("context", oc.id).Info("Audio unlocked")
	e.note("confirmation tone")
}
