// ABOUTME: Minimal Ogg page inspection
// ABOUTME: Reads the channel count from the OpusHead identification packet
package decode

import (
	"bytes"
	"fmt"
)

// opusChannels reads the channel count from the first Ogg page's OpusHead packet
func opusChannels(data []byte) (int, error) {
	const pageHeader = 27
	if len(data) < pageHeader || !bytes.HasPrefix(data, []byte("OggS")) {
		return 0, fmt.Errorf("not an ogg stream")
	}

	segments := int(data[26])
	off := pageHeader + segments
	if len(data) < off+19 {
		return 0, fmt.Errorf("ogg page too short for OpusHead")
	}

	packet := data[off:]
	if !bytes.HasPrefix(packet, []byte("OpusHead")) {
		return 0, fmt.Errorf("ogg stream is not opus: %w", ErrUnsupportedFormat)
	}

	channels := int(packet[9])
	if channels == 0 {
		return 0, fmt.Errorf("opus stream has no channels")
	}
	return channels, nil
}
