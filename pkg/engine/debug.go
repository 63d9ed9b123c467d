// ABOUTME: Debug observer hook for lifecycle and source events
// ABOUTME: Formats notes only when an observer or debug logging is active
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DebugFunc receives formatted debug notes
type DebugFunc func(note string)

// SetDebugCallback replaces the single debug observer; nil detaches it
func (e *Engine) SetDebugCallback(fn DebugFunc) {
	if fn == nil {
		e.debug.Store(nil)
		return
	}
	e.debug.Store(&fn)
}

// note emits "[Audio] <msg> | ctx: <state>" to the observer
func (e *Engine) note(format string, args ...any) {
	fn := e.debug.Load()
	debugLog := e.log.Logger.IsLevelEnabled(logrus.TraceLevel)
	if fn == nil && !debugLog {
		return
	}

	msg := fmt.Sprintf(format, args...)
	state := e.State()
	if debugLog {
		e.log.WithField("ctx", state.String()).Trace(msg)
	}
	if fn != nil {
		(*fn)(fmt.Sprintf("[Audio] %s | ctx: %s", msg, state))
	}
}
