// ABOUTME: WAV audio decoder
// ABOUTME: Parses RIFF chunks for PCM and IEEE float data
package decode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arismusic/aris-go/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

type wavFormat struct {
	tag        uint16
	channels   int
	sampleRate int
	bitDepth   int
}

func decodeWAV(data []byte) (*audio.PCM, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("wav header too short")
	}

	var (
		fmtChunk *wavFormat
		body     []byte
	)

	// Walk chunks after "RIFF<size>WAVE"
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		start := pos + 8
		end := start + size
		if end > len(data) || end < start {
			// Tolerate truncated data chunks
			end = len(data)
		}

		switch id {
		case "fmt ":
			f, err := parseWAVFormat(data[start:end])
			if err != nil {
				return nil, err
			}
			fmtChunk = f
		case "data":
			body = data[start:end]
		}

		pos = end
		if size%2 == 1 {
			pos++
		}
	}

	if fmtChunk == nil {
		return nil, fmt.Errorf("wav missing fmt chunk")
	}
	if body == nil {
		return nil, fmt.Errorf("wav missing data chunk")
	}

	samples, err := pcmToFloat(body, fmtChunk.bitDepth, fmtChunk.tag == wavFormatFloat)
	if err != nil {
		return nil, err
	}

	return &audio.PCM{
		SampleRate: fmtChunk.sampleRate,
		Channels:   fmtChunk.channels,
		Samples:    samples[:len(samples)-len(samples)%fmtChunk.channels],
	}, nil
}

func parseWAVFormat(chunk []byte) (*wavFormat, error) {
	if len(chunk) < 16 {
		return nil, fmt.Errorf("wav fmt chunk too short: %d bytes", len(chunk))
	}

	f := &wavFormat{
		tag:        binary.LittleEndian.Uint16(chunk[0:]),
		channels:   int(binary.LittleEndian.Uint16(chunk[2:])),
		sampleRate: int(binary.LittleEndian.Uint32(chunk[4:])),
		bitDepth:   int(binary.LittleEndian.Uint16(chunk[14:])),
	}

	if f.tag == wavFormatExtensible && len(chunk) >= 26 {
		// The sub-format GUID starts with the real format tag
		f.tag = binary.LittleEndian.Uint16(chunk[24:])
	}

	if f.tag != wavFormatPCM && f.tag != wavFormatFloat {
		return nil, fmt.Errorf("unsupported wav format tag: %d", f.tag)
	}
	if f.channels <= 0 {
		return nil, fmt.Errorf("wav has no channels")
	}
	if f.sampleRate <= 0 {
		return nil, fmt.Errorf("wav has invalid sample rate: %d", f.sampleRate)
	}
	return f, nil
}

// pcmToFloat converts little-endian sample bytes to float32
func pcmToFloat(data []byte, bitDepth int, isFloat bool) ([]float32, error) {
	if isFloat {
		if bitDepth != 32 {
			return nil, fmt.Errorf("unsupported float bit depth: %d (supported: 32)", bitDepth)
		}
		n := len(data) / 4
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = floatSample(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil
	}

	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		out := make([]float32, len(data))
		for i, b := range data {
			out[i] = float32(int(b)-128) / 128
		}
		return out, nil
	case 16:
		n := len(data) / 2
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = audio.Int16ToFloat(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
		return out, nil
	case 24:
		n := len(data) / 3
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			out[i] = audio.IntToFloat(audio.SampleFrom24Bit(b), 24)
		}
		return out, nil
	case 32:
		n := len(data) / 4
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = audio.IntToFloat(int32(binary.LittleEndian.Uint32(data[i*4:])), 32)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24, 32)", bitDepth)
	}
}

// floatSample decodes an IEEE float sample, mapping NaN to silence
func floatSample(bits uint32) float32 {
	f := math.Float32frombits(bits)
	if math.IsNaN(float64(f)) {
		return 0
	}
	return audio.Clamp(f)
}
