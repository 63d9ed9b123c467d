//go:build !nolibopusfile

// ABOUTME: Ogg/Opus audio decoder
// ABOUTME: Decodes Ogg Opus files with libopusfile via hraban/opus
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arismusic/aris-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// opusRate is the fixed output rate of libopusfile
const opusRate = 48000

func decodeOpus(data []byte) (*audio.PCM, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	// 120ms is the largest opus frame
	buf := make([]float32, opusRate*120/1000*channels)
	var samples []float32
	for {
		n, err := stream.ReadFloat32(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		if n == 0 {
			break
		}
		samples = append(samples, buf[:n*channels]...)
	}

	return &audio.PCM{SampleRate: opusRate, Channels: channels, Samples: samples}, nil
}
