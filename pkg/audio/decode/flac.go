// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files frame by frame with mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/mewkiz/flac"
)

func decodeFLAC(data []byte) (*audio.PCM, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bits := int(stream.Info.BitsPerSample)
	if channels == 0 {
		return nil, fmt.Errorf("flac stream has no channels")
	}

	samples := make([]float32, 0, int(stream.Info.NSamples)*channels)
	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame: %w", err)
		}

		n := int(f.BlockSize)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, audio.IntToFloat(f.Subframes[ch].Samples[i], bits))
			}
		}
	}

	return &audio.PCM{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   channels,
		Samples:    samples,
	}, nil
}
