// ABOUTME: Interfaces shared by every game screen
// ABOUTME: Defines the audio surface, burst sink, screen contract and note table
package toy

import (
	"context"
	"time"

	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
)

// Audio is the slice of the engine the screens use
type Audio interface {
	Resume(ctx context.Context)
	PlayTone(freq float64, wave audio.Waveform, duration time.Duration)
	PlaySoundFile(ctx context.Context, url string)
	CreateAmbientTone(freq float64, wave audio.Waveform, volume float64) int
	FadeOutAllAmbient(duration time.Duration)
	StopAllAmbient()
}

// Burster receives particle bursts at normalised coordinates
type Burster interface {
	Burst(x, y float64, color string)
	BurstMulticolor(x, y float64)
}

// ScreenID names a screen for navigation
type ScreenID string

const (
	ScreenFreePlay        ScreenID = "freeplay"
	ScreenListenAndFind   ScreenID = "quiz"
	ScreenMessyCanvas     ScreenID = "messy"
	ScreenResourceDisplay ScreenID = "resource-display"
)

// Screen is one game
type Screen interface {
	ID() ScreenID
	Title() string
	// Enter is called when the screen mounts
	Enter(now time.Time)
	// Exit is called when the screen unmounts
	Exit()
	// Update receives the full set of active pointers after every change
	Update(now time.Time, pointers []touch.Pointer)
	// Tick runs timers that are due
	Tick(now time.Time)
	// View renders the screen into width x height cells
	View(width, height int) string
}

// KeyHandler is implemented by screens with their own key bindings
type KeyHandler interface {
	Key(now time.Time, key string) bool
}

// Note is a playable pitch with its display colours
type Note struct {
	ID     string
	Label  string
	Freq   float64
	Color  string
	Bright string
}

// Notes is the C major scale from C4 to C5
var Notes = []Note{
	{ID: "C4", Label: "C", Freq: 261.63, Color: "#ef4444", Bright: "#fca5a5"},
	{ID: "D4", Label: "D", Freq: 293.66, Color: "#f97316", Bright: "#fdba74"},
	{ID: "E4", Label: "E", Freq: 329.63, Color: "#eab308", Bright: "#fde047"},
	{ID: "F4", Label: "F", Freq: 349.23, Color: "#22c55e", Bright: "#86efac"},
	{ID: "G4", Label: "G", Freq: 392.00, Color: "#14b8a6", Bright: "#5eead4"},
	{ID: "A4", Label: "A", Freq: 440.00, Color: "#3b82f6", Bright: "#93c5fd"},
	{ID: "B4", Label: "B", Freq: 493.88, Color: "#6366f1", Bright: "#a5b4fc"},
	{ID: "C5", Label: "High C", Freq: 523.25, Color: "#a855f7", Bright: "#d8b4fe"},
}

// Shell wraps a screen with the lifecycle every game shares: resume the
// engine on mount and silence ambient drones on unmount.
type Shell struct {
	Screen
	ctx   context.Context
	audio Audio
}

// NewShell wraps screen
func NewShell(ctx context.Context, a Audio, screen Screen) *Shell {
	return &Shell{Screen: screen, ctx: ctx, audio: a}
}

// Enter resumes audio in the background and mounts the screen
func (s *Shell) Enter(now time.Time) {
	go s.audio.Resume(s.ctx)
	s.Screen.Enter(now)
}

// Exit unmounts the screen and stops every ambient drone
func (s *Shell) Exit() {
	s.Screen.Exit()
	s.audio.StopAllAmbient()
}

// Key forwards to the wrapped screen when it handles keys
func (s *Shell) Key(now time.Time, key string) bool {
	if kh, ok := s.Screen.(KeyHandler); ok {
		return kh.Key(now, key)
	}
	return false
}
