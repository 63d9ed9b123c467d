// ABOUTME: Unlock, resume and suspend of the output context
// ABOUTME: Coalesces platform transitions and bounds every wait with a timeout
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/arismusic/aris-go/pkg/audio"
)

var errTimeout = errors.New("timed out")

// transition is one in-flight platform resume or suspend
type transition struct {
	oc     *outputContext
	target audio.State
	done   chan struct{}
	err    error
}

// Unlock must be called from a user gesture handler. It creates the context
// if needed, resumes it, fires the mute-switch bypass and plays the
// confirmation blip once per context lifetime. It returns once the resume
// attempt has settled.
func (e *Engine) Unlock(ctx context.Context) {
	oc, ok := e.ensure()
	if !ok {
		e.note("unlock skipped")
		return
	}

	e.stats.unlocks.Add(1)
	e.note("unlock")

	go e.muteBypass(oc)

	if oc.State() == audio.StateSuspended {
		e.await(ctx, e.request(oc, audio.StateRunning))
	}

	if oc.State() == audio.StateRunning && oc.unlocked.CompareAndSwap(false, true) {
		e.playConfirmation(oc)
	}
}

// Resume creates the context if needed and resumes it if suspended
func (e *Engine) Resume(ctx context.Context) {
	oc, ok := e.ensure()
	if !ok {
		return
	}
	if oc.State() != audio.StateSuspended {
		return
	}
	e.await(ctx, e.request(oc, audio.StateRunning))
}

// Suspend pauses a running context. Sources, gain and filter are kept.
func (e *Engine) Suspend(ctx context.Context) {
	oc, ok := e.current()
	if !ok || oc.State() != audio.StateRunning {
		return
	}
	e.await(ctx, e.request(oc, audio.StateSuspended))
}

// resumeInBackground requests a resume without waiting for it
func (e *Engine) resumeInBackground(oc *outputContext) {
	go e.await(context.Background(), e.request(oc, audio.StateRunning))
}

// request starts a platform transition, joining one already in flight for the same target
func (e *Engine) request(oc *outputContext, target audio.State) *transition {
	e.transMu.Lock()
	if t := e.pending[target]; t != nil && t.oc == oc {
		e.transMu.Unlock()
		return t
	}
	t := &transition{oc: oc, target: target, done: make(chan struct{})}
	e.pending[target] = t
	e.transMu.Unlock()

	if target == audio.StateRunning {
		e.stats.resumes.Add(1)
		e.note("resume requested")
	} else {
		e.stats.suspends.Add(1)
		e.note("suspend requested")
	}

	go e.run(t)
	return t
}

func (e *Engine) run(t *transition) {
	var err error
	if t.target == audio.StateRunning {
		err = t.oc.device.Resume()
	} else {
		err = t.oc.device.Suspend()
	}
	if err == nil && !t.oc.setState(t.target) {
		err = errors.New("context closed")
	}
	t.err = err

	if err == nil {
		e.log.WithField("context", t.oc.id).Debugf("Audio context %s", t.target)
		e.note("%s", verb(t.target))
	}

	e.transMu.Lock()
	if e.pending[t.target] == t {
		delete(e.pending, t.target)
	}
	e.transMu.Unlock()

	close(t.done)
}

// await races a transition against the resume timeout and ctx.
// Failures are noted and counted, never returned.
func (e *Engine) await(ctx context.Context, t *transition) {
	timer := time.NewTimer(e.cfg.ResumeTimeout)
	defer timer.Stop()

	var err error
	select {
	case <-t.done:
		err = t.err
	case <-timer.C:
		err = errTimeout
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err == nil {
		return
	}

	op := "resume"
	if t.target != audio.StateRunning {
		op = "suspend"
	}

	switch {
	case errors.Is(err, errTimeout) && op == "resume":
		e.stats.resumeTimeouts.Add(1)
	case errors.Is(err, errTimeout):
		e.stats.suspendTimeouts.Add(1)
	case op == "resume":
		e.stats.resumeFailures.Add(1)
	default:
		e.stats.suspendFailures.Add(1)
	}

	e.log.WithError(err).WithField("context", t.oc.id).Warnf("Audio %s did not complete", op)
	e.note("%s failed: %v", op, err)
}

func verb(s audio.State) string {
	if s == audio.StateRunning {
		return "resumed"
	}
	return "suspended"
}
