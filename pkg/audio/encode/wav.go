// ABOUTME: WAV file writer
// ABOUTME: Wraps PCM encoder output in a canonical 44-byte RIFF header
package encode

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/arismusic/aris-go/pkg/audio"
)

const wavHeaderSize = 44

// WAV writes pcm as an integer PCM WAV file of the given bit depth
func WAV(pcm *audio.PCM, bitDepth int) ([]byte, error) {
	if pcm == nil || pcm.SampleRate <= 0 {
		return nil, errors.New("wav: missing sample rate")
	}
	enc, err := NewPCM(bitDepth)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	channels := pcm.Channels
	if channels <= 0 {
		channels = 1
	}
	data, err := enc.Encode(pcm.Samples)
	if err != nil {
		return nil, err
	}
	blockAlign := channels * bitDepth / 8

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(data))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pcm.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pcm.SampleRate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes(), nil
}

// MustWAV is WAV for callers with known-good input
func MustWAV(pcm *audio.PCM, bitDepth int) []byte {
	b, err := WAV(pcm, bitDepth)
	if err != nil {
		panic(err)
	}
	return b
}
