// ABOUTME: Bubbletea model for the toy: boot, menu, game screens and overlay
// ABOUTME: Routes mouse and key input to pointers and lifecycle calls
package ui

import (
	"context"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arismusic/aris-go/internal/config"
	"github.com/arismusic/aris-go/internal/lifecycle"
	"github.com/arismusic/aris-go/internal/toy"
	"github.com/arismusic/aris-go/internal/touch"
	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/engine"
)

const (
	frameInterval  = 50 * time.Millisecond
	pollInterval   = 500 * time.Millisecond
	tripleTapSpan  = 600 * time.Millisecond
	keyTapHold     = 150 * time.Millisecond
	keyPointerBase = 1000
	backButtonCols = 8
)

// pianoKeys map the home row onto eight columns
const pianoKeys = "asdfghjk"

// Engine is everything the UI needs from the audio engine
type Engine interface {
	toy.Audio
	Unlock(ctx context.Context)
	Suspend(ctx context.Context)
	State() audio.State
	AmbientCount() int
	Stats() engine.Stats
	ContextID() string
}

// Options configures NewModel
type Options struct {
	Context   context.Context
	Engine    Engine
	Resources []config.Resource
	Notes     NoteSource
	Watcher   *lifecycle.Watcher
	Now       func() time.Time
	Rand      *rand.Rand
}

type phase int

const (
	phaseBoot phase = iota
	phaseStarting
	phaseMenu
	phasePlaying
)

type menuItem struct {
	id       toy.ScreenID
	icon     string
	title    string
	subtitle string
}

var menuItems = []menuItem{
	{toy.ScreenFreePlay, "🎹", "Free Play", "Make some noise!"},
	{toy.ScreenListenAndFind, "👂", "Listen & Find", "Match the sound!"},
	{toy.ScreenMessyCanvas, "🎨", "Messy Canvas", "Paint with music!"},
	{toy.ScreenResourceDisplay, "🖼️", "Resource Display", "See an image!"},
}

// Model represents the TUI state
type Model struct {
	ctx     context.Context
	eng     Engine
	watcher *lifecycle.Watcher
	now     func() time.Time

	phase   phase
	screens map[toy.ScreenID]*toy.Shell
	current *toy.Shell

	tracker   *touch.Tracker
	tripleTap *touch.MultiTap
	particles *Particles
	lastFrame time.Time

	// Debug overlay
	notes       NoteSource
	noteLog     *NoteLog
	unsubscribe func()
	showDebug   bool
	state       audio.State
	ambient     int
	stats       engine.Stats
	contextID   string

	hidden bool

	// Dimensions
	width  int
	height int
}

type frameMsg time.Time
type pollMsg time.Time

// unlockedMsg reports that an unlock settled; next is the screen to enter
type unlockedMsg struct {
	next toy.ScreenID
}

type visibilityMsg struct {
	signal lifecycle.Signal
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Watcher == nil {
		opts.Watcher = lifecycle.NewWatcher(opts.Engine, nil)
	}
	if opts.Resources == nil {
		opts.Resources = config.DefaultResources()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	m := Model{
		ctx:       opts.Context,
		eng:       opts.Engine,
		watcher:   opts.Watcher,
		now:       opts.Now,
		tracker:   touch.NewTracker(),
		tripleTap: touch.NewTripleTap(tripleTapSpan),
		particles: NewParticles(opts.Rand),
		notes:     opts.Notes,
		noteLog:   NewNoteLog(),
	}
	m.noteLog.now = opts.Now

	a := opts.Engine
	b := m.particles
	m.screens = map[toy.ScreenID]*toy.Shell{
		toy.ScreenFreePlay:        toy.NewShell(m.ctx, a, toy.NewFreePlay(a, b)),
		toy.ScreenListenAndFind:   toy.NewShell(m.ctx, a, toy.NewListenAndFind(a, b, opts.Rand)),
		toy.ScreenMessyCanvas:     toy.NewShell(m.ctx, a, toy.NewMessyCanvas(a, b, opts.Rand)),
		toy.ScreenResourceDisplay: toy.NewShell(m.ctx, a, toy.NewResourceDisplay(m.ctx, a, b, opts.Resources, opts.Rand)),
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame()
		return m, frameTick()
	case pollMsg:
		if !m.showDebug {
			return m, nil
		}
		m.poll()
		return m, pollTick()
	case unlockedMsg:
		return m.unlocked(msg)
	case visibilityMsg:
		m.hidden = msg.signal == lifecycle.Hidden
		m.poll()
	case tea.ResumeMsg:
		return m, m.visibility(lifecycle.Visible)
	}

	return m, nil
}

// frame advances timers, expiring key taps and particles
func (m *Model) frame() {
	now := m.now()
	if !m.lastFrame.IsZero() {
		m.particles.Step(now.Sub(m.lastFrame).Seconds())
	}
	m.lastFrame = now

	if m.phase != phasePlaying || m.current == nil {
		return
	}
	if m.tracker.Expire(now) {
		m.current.Update(now, m.tracker.Active())
	}
	m.current.Tick(now)
}

func (m *Model) poll() {
	if m.eng == nil {
		return
	}
	m.state = m.eng.State()
	m.ambient = m.eng.AmbientCount()
	m.stats = m.eng.Stats()
	m.contextID = m.eng.ContextID()
}

func (m Model) unlockCmd(next toy.ScreenID) tea.Cmd {
	ctx, eng := m.ctx, m.eng
	return func() tea.Msg {
		eng.Unlock(ctx)
		return unlockedMsg{next: next}
	}
}

func (m Model) visibility(s lifecycle.Signal) tea.Cmd {
	ctx, w := m.ctx, m.watcher
	return func() tea.Msg {
		w.Handle(ctx, s)
		return visibilityMsg{signal: s}
	}
}

func (m Model) unlocked(msg unlockedMsg) (tea.Model, tea.Cmd) {
	if msg.next != "" {
		m.enter(msg.next)
		return m, nil
	}
	if m.phase == phaseStarting {
		m.phase = phaseMenu
	}
	return m, nil
}

// enter mounts a screen
func (m *Model) enter(id toy.ScreenID) {
	s, ok := m.screens[id]
	if !ok {
		return
	}
	if m.current != nil {
		m.current.Exit()
	}
	m.tracker.Clear()
	m.current = s
	m.phase = phasePlaying
	s.Enter(m.now())
}

// leave unmounts the current screen and returns to the menu
func (m *Model) leave() {
	if m.current != nil {
		m.current.Exit()
		m.current = nil
	}
	m.tracker.Clear()
	m.phase = phaseMenu
}

func (m *Model) toggleDebug() tea.Cmd {
	m.showDebug = !m.showDebug
	if !m.showDebug {
		if m.unsubscribe != nil {
			m.unsubscribe()
			m.unsubscribe = nil
		}
		return nil
	}
	m.noteLog.Reset()
	if m.notes != nil {
		m.unsubscribe = m.notes.Subscribe(m.noteLog.Add)
	}
	m.poll()
	return pollTick()
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m.quit()
	case "`":
		return m, m.toggleDebug()
	case "ctrl+z":
		return m, tea.Sequence(m.visibility(lifecycle.Hidden), tea.Suspend)
	case "[":
		return m, m.visibility(lifecycle.Hidden)
	case "]":
		return m, m.visibility(lifecycle.Visible)
	}

	switch m.phase {
	case phaseBoot:
		if key == "q" {
			return m.quit()
		}
		m.phase = phaseStarting
		return m, m.unlockCmd("")
	case phaseStarting:
		return m, nil
	case phaseMenu:
		if key == "q" {
			return m.quit()
		}
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(menuItems) {
			return m, m.unlockCmd(menuItems[key[0]-'1'].id)
		}
		return m, nil
	}

	// Playing
	now := m.now()
	switch key {
	case "esc", "backspace":
		m.leave()
		return m, nil
	case "q":
		return m.quit()
	case " ":
		m.tracker.Tap(keyPointerBase+len(pianoKeys), 0.5, 0.05, now, keyTapHold)
		m.current.Update(now, m.tracker.Active())
		return m, nil
	}
	if m.current.Key(now, key) {
		return m, nil
	}
	for i, k := range pianoKeys {
		if key == string(k) {
			x := (float64(i) + 0.5) / float64(len(pianoKeys))
			m.tracker.Tap(keyPointerBase+i, x, 0.65, now, keyTapHold)
			m.current.Update(now, m.tracker.Active())
			break
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.current != nil {
		m.current.Exit()
		m.current = nil
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return m, tea.Quit
}

// contentHeight is the number of rows below the title bar given to screens
func (m Model) contentHeight() int {
	h := m.height - 1
	if m.showDebug {
		h -= overlayHeight
	}
	return max(h, 1)
}

// normalise converts a terminal cell to content coordinates
func (m Model) normalise(col, row int) (float64, float64) {
	w := max(m.width, 1)
	x := (float64(col) + 0.5) / float64(w)
	y := (float64(row-1) + 0.5) / float64(m.contentHeight())
	return x, y
}

// handleMouse handles pointer input
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ev := tea.MouseEvent(msg)
	press := ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft

	if press && ev.Y == 0 {
		if m.tripleTap.Press(m.now()) {
			return m, m.toggleDebug()
		}
		if m.phase == phasePlaying && ev.X < backButtonCols {
			m.leave()
		}
		return m, nil
	}

	switch m.phase {
	case phaseBoot:
		if press {
			m.phase = phaseStarting
			return m, m.unlockCmd("")
		}
		return m, nil
	case phaseStarting:
		return m, nil
	case phaseMenu:
		if !press {
			return m, nil
		}
		_, y := m.normalise(ev.X, ev.Y)
		if y < 0 || y >= 1 {
			return m, nil
		}
		i := min(int(y*float64(len(menuItems))), len(menuItems)-1)
		return m, m.unlockCmd(menuItems[i].id)
	}

	x, y := m.normalise(ev.X, ev.Y)
	switch {
	case press:
		m.tracker.Down(touch.MouseID, x, y)
	case ev.Action == tea.MouseActionMotion && ev.Button == tea.MouseButtonLeft:
		m.tracker.Move(touch.MouseID, x, y)
	case ev.Action == tea.MouseActionRelease:
		m.tracker.Up(touch.MouseID)
	default:
		return m, nil
	}
	m.current.Update(m.now(), m.tracker.Active())
	return m, nil
}
