// ABOUTME: Multi-tap gesture detection
// ABOUTME: Recognises N presses inside a time window, e.g. a triple tap
package touch

import "time"

// MultiTap fires when Count presses land within Window of the first
type MultiTap struct {
	Count  int
	Window time.Duration

	presses []time.Time
}

// NewTripleTap returns a detector for three presses within window
func NewTripleTap(window time.Duration) *MultiTap {
	return &MultiTap{Count: 3, Window: window}
}

// Press records a press and reports whether the gesture completed.
// Completing the gesture resets the detector.
func (m *MultiTap) Press(now time.Time) bool {
	kept := m.presses[:0]
	for _, p := range m.presses {
		if now.Sub(p) <= m.Window {
			kept = append(kept, p)
		}
	}
	m.presses = append(kept, now)

	if len(m.presses) >= m.Count {
		m.presses = m.presses[:0]
		return true
	}
	return false
}
