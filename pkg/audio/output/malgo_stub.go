//go:build !malgo

// ABOUTME: Malgo stub when built without the malgo tag
// ABOUTME: Reports the backend as unavailable so callers can degrade gracefully
package output

import "fmt"

// Malgo is the miniaudio backend (stub)
type Malgo struct{}

// Name implements Backend
func (Malgo) Name() string { return "malgo" }

// Open implements Backend
func (Malgo) Open(Options) (Device, error) {
	return nil, fmt.Errorf("%w: built without malgo support (use -tags malgo)", ErrUnavailable)
}
