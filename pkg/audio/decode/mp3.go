// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to float32 samples with go-mp3
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

func decodeMP3(data []byte) (*audio.PCM, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(raw) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}

	return &audio.PCM{
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		Samples:    samples,
	}, nil
}
