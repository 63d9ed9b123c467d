// ABOUTME: Maps app visibility signals onto audio engine lifecycle calls
// ABOUTME: Background suspends and silences drones, foreground resumes
package lifecycle

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Signal is a visibility change reported by the host
type Signal int

const (
	// Hidden means the app went to the background
	Hidden Signal = iota
	// Visible means the app came back to the foreground
	Visible
	// Restored means the app was brought back from a suspended snapshot
	Restored
)

func (s Signal) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}

// Engine is the part of the audio engine the watcher drives
type Engine interface {
	Suspend(ctx context.Context)
	Resume(ctx context.Context)
	StopAllAmbient()
}

// Watcher applies visibility signals to an engine
type Watcher struct {
	eng Engine
	log *logrus.Entry

	mu     sync.Mutex
	hidden bool
}

// NewWatcher creates a watcher. A nil logger uses the standard logger.
func NewWatcher(eng Engine, log *logrus.Entry) *Watcher {
	if log == nil {
		log = logrus.WithField("component", "lifecycle")
	}
	return &Watcher{eng: eng, log: log}
}

// Handle applies one signal and returns once the engine settled
func (w *Watcher) Handle(ctx context.Context, s Signal) {
	w.mu.Lock()
	w.hidden = s == Hidden
	w.mu.Unlock()

	w.log.WithField("signal", s.String()).Debug("Visibility changed")
	switch s {
	case Hidden:
		w.eng.StopAllAmbient()
		w.eng.Suspend(ctx)
	case Visible, Restored:
		w.eng.Resume(ctx)
	}
}

// Hidden reports whether the last signal was Hidden
func (w *Watcher) Hidden() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hidden
}

// Run handles signals until ctx is done or signals closes
func (w *Watcher) Run(ctx context.Context, signals <-chan Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-signals:
			if !ok {
				return
			}
			w.Handle(ctx, s)
		}
	}
}
