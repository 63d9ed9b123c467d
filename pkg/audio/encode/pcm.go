// ABOUTME: PCM audio encoder
// ABOUTME: Packs float32 samples into 16-bit or 24-bit little-endian PCM
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/arismusic/aris-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(bitDepth int) (*PCMEncoder, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}

	return &PCMEncoder{bitDepth: bitDepth}, nil
}

// BitDepth returns the encoded sample size in bits
func (e *PCMEncoder) BitDepth() int {
	return e.bitDepth
}

// Encode converts float samples to PCM bytes, clipping to [-1, 1]
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	if e.bitDepth == 24 {
		output := make([]byte, len(samples)*3)
		for i, sample := range samples {
			v := floatToInt24(sample)
			output[i*3] = byte(v)
			output[i*3+1] = byte(v >> 8)
			output[i*3+2] = byte(v >> 16)
		}
		return output, nil
	}

	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.FloatToInt16(sample)))
	}
	return output, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

func floatToInt24(sample float32) int32 {
	const max24 = 1<<23 - 1
	s := audio.Clamp(sample)
	if s <= -1 {
		return -max24 - 1
	}
	return int32(s * max24)
}
