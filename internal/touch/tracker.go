// ABOUTME: Pointer unification for mouse, keyboard taps and touches
// ABOUTME: Produces the list of active pointer positions that screens consume
package touch

import (
	"sort"
	"time"
)

// MouseID identifies the single mouse pointer
const MouseID = 999

// Pointer is one active contact. X and Y are normalised to [0,1].
type Pointer struct {
	ID   int
	X, Y float64
}

type contact struct {
	Pointer
	expires time.Time // zero for held pointers
}

// Tracker merges pointer sources into one set of active contacts.
// It is not safe for concurrent use; the UI loop owns it.
type Tracker struct {
	contacts map[int]contact
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{contacts: make(map[int]contact)}
}

// Down starts or moves a held pointer
func (t *Tracker) Down(id int, x, y float64) {
	t.contacts[id] = contact{Pointer: Pointer{ID: id, X: clamp(x), Y: clamp(y)}}
}

// Move updates a held pointer. Unknown pointers are ignored.
func (t *Tracker) Move(id int, x, y float64) {
	c, ok := t.contacts[id]
	if !ok {
		return
	}
	c.X, c.Y = clamp(x), clamp(y)
	t.contacts[id] = c
}

// Up releases a pointer
func (t *Tracker) Up(id int) {
	delete(t.contacts, id)
}

// Tap adds a pointer that releases itself at now+hold. Keyboards have no
// release events, so key presses arrive as taps.
func (t *Tracker) Tap(id int, x, y float64, now time.Time, hold time.Duration) {
	t.contacts[id] = contact{
		Pointer: Pointer{ID: id, X: clamp(x), Y: clamp(y)},
		expires: now.Add(hold),
	}
}

// Expire releases taps whose hold elapsed and reports whether any did
func (t *Tracker) Expire(now time.Time) bool {
	changed := false
	for id, c := range t.contacts {
		if !c.expires.IsZero() && !now.Before(c.expires) {
			delete(t.contacts, id)
			changed = true
		}
	}
	return changed
}

// Clear releases every pointer
func (t *Tracker) Clear() {
	clear(t.contacts)
}

// Len returns the number of active pointers
func (t *Tracker) Len() int {
	return len(t.contacts)
}

// Active returns the active pointers ordered by ID
func (t *Tracker) Active() []Pointer {
	out := make([]Pointer, 0, len(t.contacts))
	for _, c := range t.contacts {
		out = append(out, c.Pointer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
