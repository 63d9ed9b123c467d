// ABOUTME: Format detection and decoder dispatch
// ABOUTME: Sniffs magic bytes or extensions and routes to the codec decoders
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/arismusic/aris-go/pkg/audio"
)

// ErrUnsupportedFormat is returned when no decoder recognises the data
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Format identifies a container/codec
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
	FormatWAV     Format = "wav"
	FormatOpus    Format = "opus"
)

// Detect picks a format from leading bytes, falling back to the name's extension
func Detect(name string, head []byte) Format {
	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(head, []byte("OggS")):
		return FormatOpus
	case bytes.HasPrefix(head, []byte("ID3")):
		return FormatMP3
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return FormatMP3
	}

	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		return FormatMP3
	case ".flac":
		return FormatFLAC
	case ".wav", ".wave":
		return FormatWAV
	case ".opus", ".ogg", ".oga":
		return FormatOpus
	}
	return FormatUnknown
}

// Decode reads a whole sound file and decodes it
func Decode(name string, r io.Reader) (*audio.PCM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return DecodeBytes(name, data)
}

// DecodeBytes decodes an in-memory sound file
func DecodeBytes(name string, data []byte) (*audio.PCM, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty file: %w", name, ErrUnsupportedFormat)
	}

	format := Detect(name, data)

	var (
		pcm *audio.PCM
		err error
	)
	switch format {
	case FormatMP3:
		pcm, err = decodeMP3(data)
	case FormatFLAC:
		pcm, err = decodeFLAC(data)
	case FormatWAV:
		pcm, err = decodeWAV(data)
	case FormatOpus:
		pcm, err = decodeOpus(data)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", name, format, err)
	}
	if pcm.Frames() == 0 {
		return nil, fmt.Errorf("decode %s as %s: no audio frames", name, format)
	}
	return pcm, nil
}
