//go:build nolibopusfile

// ABOUTME: Ogg/Opus decoder stub
// ABOUTME: Used when built without libopusfile
package decode

import (
	"fmt"

	"github.com/arismusic/aris-go/pkg/audio"
)

func decodeOpus(data []byte) (*audio.PCM, error) {
	if _, err := opusChannels(data); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("built without libopusfile: %w", ErrUnsupportedFormat)
}
