// ABOUTME: Property tests for lifecycle call sequences
// ABOUTME: Arbitrary unlock/resume/suspend orders keep one context and the last state
package engine

import (
	"context"
	"testing"
	"time"

	"github.com/arismusic/aris-go/pkg/audio"
	"pgregory.net/rapid"
)

func TestLifecycleSequences(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		te := newTestEngine(t)
		ctx := context.Background()

		ops := rapid.SliceOf(rapid.SampledFrom([]string{"unlock", "resume", "suspend"})).Draw(rt, "ops")

		want := audio.StateUninitialized
		unlocks := 0
		for _, op := range ops {
			switch op {
			case "unlock":
				te.Unlock(ctx)
				unlocks++
				want = audio.StateRunning
			case "resume":
				te.Resume(ctx)
				want = audio.StateRunning
			case "suspend":
				te.Suspend(ctx)
				if want == audio.StateRunning {
					want = audio.StateSuspended
				}
			}
		}

		if got := te.State(); got != want {
			rt.Fatalf("state after %v: got %s, want %s", ops, got, want)
		}

		opens := te.backend.Opens()
		if want == audio.StateUninitialized {
			if opens != 0 {
				rt.Fatalf("context created by %v", ops)
			}
		} else if opens != 1 {
			rt.Fatalf("expected one context, got %d", opens)
		}

		expectedBlips := int64(0)
		if unlocks > 0 {
			expectedBlips = 1
		}
		if got := te.Stats().ConfirmTones; got != expectedBlips {
			rt.Fatalf("expected %d confirmation tones, got %d", expectedBlips, got)
		}
	})
}

func TestAmbientRegistrySequences(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		te := newTestEngine(t)
		te.Unlock(context.Background())
		dev := te.device(t)

		live := map[int]bool{}
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				h := te.CreateAmbientTone(rapid.Float64Range(50, 1000).Draw(rt, "freq"), audio.Sine, 0.05)
				if h < 0 || live[h] {
					rt.Fatalf("bad handle %d", h)
				}
				live[h] = true
			case 1:
				te.StopAllAmbient()
				live = map[int]bool{}
			case 2:
				te.FadeOutAllAmbient(0)
				dev.Advance(t, 0)
			case 3:
				ms := rapid.SampledFrom([]int{1, 10, 100}).Draw(rt, "ms")
				dev.Advance(t, time.Duration(ms)*time.Millisecond)
			}
			if te.AmbientCount() > len(live) {
				rt.Fatalf("registry has %d entries, at most %d created", te.AmbientCount(), len(live))
			}
		}

		te.StopAllAmbient()
		if te.AmbientCount() != 0 || te.Stats().ActiveSources > 1 {
			rt.Fatalf("registry not empty after stop: %d ambient, %d sources", te.AmbientCount(), te.Stats().ActiveSources)
		}
	})
}
