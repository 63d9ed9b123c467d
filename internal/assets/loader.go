// ABOUTME: Sound asset loader with an on-disk cache for HTTP downloads
// ABOUTME: Implements the engine's sound file fetcher
package assets

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// EmbedScheme prefixes references to sounds compiled into the binary.
const EmbedScheme = "embed:"

// ErrNotFound is returned when a reference points at nothing.
var ErrNotFound = errors.New("asset not found")

// ErrTooLarge is returned when a download exceeds the size cap.
var ErrTooLarge = errors.New("asset too large")

// DefaultMaxBytes caps a single downloaded sound
const DefaultMaxBytes = 16 << 20

//go:embed sounds/*.wav
var embedded embed.FS

// Options configures a Loader
type Options struct {
	CacheDir string // defaults to a directory under os.TempDir
	BaseDir  string // root for relative file paths
	Client   *http.Client
	Logger   *logrus.Entry
	MaxBytes int64 // download cap, DefaultMaxBytes when zero
}

// Loader fetches sound files
type Loader struct {
	cacheDir string
	baseDir  string
	client   *http.Client
	log      *logrus.Entry
	maxBytes int64
}

// NewLoader creates a loader and its cache directory
func NewLoader(opts Options) (*Loader, error) {
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(os.TempDir(), "aris-sounds")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.WithField("component", "assets")
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(opts.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Loader{
		cacheDir: opts.CacheDir,
		baseDir:  opts.BaseDir,
		client:   opts.Client,
		log:      opts.Logger,
		maxBytes: opts.MaxBytes,
	}, nil
}

// Fetch returns the bytes behind ref
func (l *Loader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty reference: %w", ErrNotFound)
	case strings.HasPrefix(ref, EmbedScheme):
		return Embedded(strings.TrimPrefix(ref, EmbedScheme))
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.download(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid file url %q: %w", ref, err)
		}
		return l.readFile(u.Path)
	default:
		return l.readFile(ref)
	}
}

func (l *Loader) readFile(p string) ([]byte, error) {
	if !filepath.IsAbs(p) && l.baseDir != "" {
		p = filepath.Join(l.baseDir, p)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file: %w", err)
	}
	return data, nil
}

func (l *Loader) download(ctx context.Context, ref string) ([]byte, error) {
	cachePath := l.cachePath(ref)

	if data, err := os.ReadFile(cachePath); err == nil {
		l.log.WithField("path", cachePath).Debug("Sound cache hit")
		return data, nil
	}

	l.log.WithField("url", ref).Info("Downloading sound")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid sound url: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download sound: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("sound download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read sound: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", ref, l.maxBytes, ErrTooLarge)
	}

	// Write then rename so a concurrent reader never sees a partial file.
	tmp, err := os.CreateTemp(l.cacheDir, "partial-*")
	if err != nil {
		l.log.WithError(err).Warn("Sound cache unavailable")
		return data, nil
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		l.log.WithError(errors.Join(werr, cerr)).Warn("Failed to cache sound")
		return data, nil
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		l.log.WithError(err).Warn("Failed to cache sound")
		return data, nil
	}

	l.log.WithField("path", cachePath).Debug("Sound saved")
	return data, nil
}

func (l *Loader) cachePath(ref string) string {
	hash := sha256.Sum256([]byte(ref))
	return filepath.Join(l.cacheDir, fmt.Sprintf("%x%s", hash[:8], getExtension(ref)))
}

// Cleanup removes the download cache
func (l *Loader) Cleanup() error {
	return os.RemoveAll(l.cacheDir)
}

// getExtension extracts the file extension from a URL
func getExtension(ref string) string {
	ref = strings.Split(ref, "?")[0]
	ext := path.Ext(ref)
	if ext == "" || len(ext) > 5 {
		ext = ".bin"
	}
	return ext
}

// Embedded returns a sound compiled into the binary
func Embedded(name string) ([]byte, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("embedded sound %q: %w", name, ErrNotFound)
	}
	if path.Ext(name) == "" {
		name += ".wav"
	}
	data, err := embedded.ReadFile("sounds/" + name)
	if err != nil {
		return nil, fmt.Errorf("embedded sound %q: %w", name, ErrNotFound)
	}
	return data, nil
}

// EmbeddedNames lists the embedded sounds without their extension
func EmbeddedNames() []string {
	entries, _ := embedded.ReadDir("sounds")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data uri: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data uri: %w", err)
	}
	return []byte(data), nil
}
