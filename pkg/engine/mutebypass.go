// ABOUTME: Best-effort mute-switch bypass for platforms that silence web audio
// ABOUTME: Plays a short silent WAV through the device's legacy path
package engine

import (
	"fmt"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/encode"
	"github.com/arismusic/aris-go/pkg/audio/output"
)

// 10ms of 44.1kHz mono silence
var silenceWAV = encode.MustWAV(&audio.PCM{SampleRate: 44100, Channels: 1, Samples: make([]float32, 441)}, 16)

// muteBypass plays the silent clip on the legacy path. Failures are only noted.
func (e *Engine) muteBypass(oc *outputContext) {
	lp, ok := oc.device.(output.LegacyPlayer)
	if !ok {
		e.note("mute bypass unavailable")
		return
	}

	if err := e.bestEffort("mute bypass", func() error { return lp.PlayLegacy(silenceWAV) }); err != nil {
		e.stats.bypassFailures.Add(1)
		return
	}
	e.stats.bypassPlays.Add(1)
}

// bestEffort runs fn, converting a panic or error into a debug note
func (e *Engine) bestEffort(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			e.log.WithError(err).Debugf("%s failed", name)
			e.note("%s failed: %v", name, err)
		}
	}()
	return fn()
}
