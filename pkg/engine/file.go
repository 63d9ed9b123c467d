// ABOUTME: Sound file playback with a per-URL decoded buffer cache
// ABOUTME: Fetches, decodes and resamples files to the context rate
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/decode"
	"github.com/arismusic/aris-go/pkg/audio/graph"
	"github.com/arismusic/aris-go/pkg/audio/resample"
)

const fileGain = 0.8

var errNoFetcher = errors.New("no sound file fetcher configured")

// fileEntry is a cached or in-flight decode
type fileEntry struct {
	ready chan struct{}
	pcm   *audio.PCM
	err   error
}

// PlaySoundFile plays a sound file once at gain 0.8. It waits for a
// suspended context to resume first. Failures are noted, never returned.
func (e *Engine) PlaySoundFile(ctx context.Context, url string) {
	oc, ok := e.ensure()
	if !ok {
		return
	}
	if oc.State() == audio.StateSuspended {
		e.await(ctx, e.request(oc, audio.StateRunning))
	}
	if oc.State() != audio.StateRunning {
		e.note("sound file %s skipped", url)
		return
	}

	pcm, err := e.loadFile(ctx, url, oc.mixer.SampleRate())
	if err != nil {
		e.stats.fileFailures.Add(1)
		e.log.WithError(err).WithField("url", url).Warn("Sound file failed")
		e.note("sound file %s failed: %v", url, err)
		return
	}

	// The context may have been suspended or closed while fetching
	if oc.State() != audio.StateRunning {
		e.note("sound file %s skipped", url)
		return
	}

	m := oc.mixer
	now := m.Clock().Now()
	v := m.NewVoice(graph.NewBufferSource(pcm), graph.MasterBus)
	v.Gain.SetValueAtTime(fileGain, now)
	v.Start(now)

	end := now + pcm.Duration().Seconds()
	v.Stop(end)
	m.At(end+releaseDelay, v.Disconnect)

	e.stats.filesPlayed.Add(1)
	e.note("sound file %s (%s)", url, pcm.Duration())
}

// loadFile returns the decoded buffer for url, sharing concurrent loads
func (e *Engine) loadFile(ctx context.Context, url string, rate int) (*audio.PCM, error) {
	e.filesMu.Lock()
	if ent, ok := e.files[url]; ok {
		e.filesMu.Unlock()
		select {
		case <-ent.ready:
			return ent.pcm, ent.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	ent := &fileEntry{ready: make(chan struct{})}
	e.files[url] = ent
	e.filesMu.Unlock()

	ent.pcm, ent.err = e.fetchAndDecode(ctx, url, rate)
	if ent.err != nil {
		// Failures are retried on the next request
		e.filesMu.Lock()
		delete(e.files, url)
		e.filesMu.Unlock()
	}
	close(ent.ready)
	return ent.pcm, ent.err
}

func (e *Engine) fetchAndDecode(ctx context.Context, url string, rate int) (*audio.PCM, error) {
	if e.cfg.Fetcher == nil {
		return nil, errNoFetcher
	}
	data, err := e.cfg.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	pcm, err := decode.DecodeBytes(url, data)
	if err != nil {
		return nil, err
	}
	return resample.Convert(pcm.Mono(), rate), nil
}

// CachedFiles returns the number of decoded buffers held
func (e *Engine) CachedFiles() int {
	e.filesMu.Lock()
	defer e.filesMu.Unlock()
	return len(e.files)
}
