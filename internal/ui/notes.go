// ABOUTME: Timestamped ring of recent engine debug notes
// ABOUTME: Filled from engine goroutines, read by the overlay on each poll
package ui

import (
	"sync"
	"time"

	"github.com/arismusic/aris-go/pkg/engine"
)

// MaxNotes is how many notes the overlay keeps
const MaxNotes = 10

// Note is one debug line
type Note struct {
	At   time.Time
	Text string
}

// NoteSource delivers engine notes to subscribers
type NoteSource interface {
	Subscribe(fn func(note string)) (unsubscribe func())
}

// DebugSetter is the engine's single-observer hook
type DebugSetter interface {
	SetDebugCallback(fn engine.DebugFunc)
}

type directNotes struct {
	eng DebugSetter
}

// DirectNotes subscribes straight to the engine. Only one subscriber
// can be attached this way; a debug tap should be preferred when running.
func DirectNotes(eng DebugSetter) NoteSource {
	return directNotes{eng: eng}
}

func (d directNotes) Subscribe(fn func(string)) func() {
	d.eng.SetDebugCallback(fn)
	return func() { d.eng.SetDebugCallback(nil) }
}

// NoteLog keeps the last MaxNotes notes
type NoteLog struct {
	mu    sync.Mutex
	notes []Note
	now   func() time.Time
}

// NewNoteLog creates an empty log
func NewNoteLog() *NoteLog {
	return &NoteLog{now: time.Now}
}

// Add appends a note, dropping the oldest beyond MaxNotes
func (l *NoteLog) Add(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notes = append(l.notes, Note{At: l.now(), Text: text})
	if len(l.notes) > MaxNotes {
		l.notes = l.notes[len(l.notes)-MaxNotes:]
	}
}

// Notes returns a copy of the log, oldest first
func (l *NoteLog) Notes() []Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Note(nil), l.notes...)
}

// Reset empties the log
func (l *NoteLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notes = nil
}
