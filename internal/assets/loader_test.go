// ABOUTME: Tests for the sound asset loader
// ABOUTME: Tests HTTP download, caching, embedded and data references
package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(Options{CacheDir: t.TempDir(), BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}
	return l
}

func TestNewLoaderCreatesCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	l, err := NewLoader(Options{CacheDir: dir})
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory was not created: %v", err)
	}
	if err := l.Cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache directory was not removed")
	}
}

func TestFetchHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake sound data"))
	}))
	defer server.Close()

	l := newTestLoader(t)
	data, err := l.Fetch(context.Background(), server.URL+"/dog01.mp3")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(data) != "fake sound data" {
		t.Errorf("expected 'fake sound data', got %q", data)
	}

	cached := l.cachePath(server.URL + "/dog01.mp3")
	if filepath.Ext(cached) != ".mp3" {
		t.Errorf("expected .mp3 cache file, got %s", cached)
	}
	if _, err := os.Stat(cached); err != nil {
		t.Errorf("sound was not cached: %v", err)
	}
}

func TestFetchHTTPCaching(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("meow"))
	}))
	defer server.Close()

	l := newTestLoader(t)
	for i := 0; i < 3; i++ {
		if _, err := l.Fetch(context.Background(), server.URL+"/cat01.mp3"); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestFetchHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.mp3" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	l := newTestLoader(t)
	_, err := l.Fetch(context.Background(), server.URL+"/missing.mp3")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = l.Fetch(context.Background(), server.URL+"/broken.mp3")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected HTTP error, got %v", err)
	}
	if _, statErr := os.Stat(l.cachePath(server.URL + "/broken.mp3")); !os.IsNotExist(statErr) {
		t.Error("failed download should not be cached")
	}
}

func TestFetchHTTPSizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 64))
	}))
	defer server.Close()

	l, err := NewLoader(Options{CacheDir: t.TempDir(), MaxBytes: 63})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	ref := server.URL + "/huge.wav"
	if _, err := l.Fetch(context.Background(), ref); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if _, statErr := os.Stat(l.cachePath(ref)); !os.IsNotExist(statErr) {
		t.Error("oversized download should not be cached")
	}

	l, err = NewLoader(Options{CacheDir: t.TempDir(), MaxBytes: 64})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	data, err := l.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("download at the cap failed: %v", err)
	}
	if len(data) != 64 {
		t.Errorf("expected 64 bytes, got %d", len(data))
	}
}

func TestFetchHTTPHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	l := newTestLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Fetch(ctx, server.URL+"/slow.mp3"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestFetchFile(t *testing.T) {
	l := newTestLoader(t)
	if err := os.WriteFile(filepath.Join(l.baseDir, "horn.wav"), []byte("honk"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := l.Fetch(context.Background(), "horn.wav")
	if err != nil {
		t.Fatalf("relative fetch failed: %v", err)
	}
	if string(data) != "honk" {
		t.Errorf("expected 'honk', got %q", data)
	}

	data, err = l.Fetch(context.Background(), "file://"+filepath.Join(l.baseDir, "horn.wav"))
	if err != nil {
		t.Fatalf("file url fetch failed: %v", err)
	}
	if string(data) != "honk" {
		t.Errorf("expected 'honk', got %q", data)
	}

	if _, err := l.Fetch(context.Background(), "nope.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchEmbedded(t *testing.T) {
	l := newTestLoader(t)
	for _, name := range []string{"dog01", "cat01", "cat02", "cat03", "car-horn", "pop"} {
		data, err := l.Fetch(context.Background(), EmbedScheme+name)
		if err != nil {
			t.Errorf("embedded %s: %v", name, err)
			continue
		}
		if len(data) < 44 || string(data[:4]) != "RIFF" {
			t.Errorf("embedded %s is not a WAV file", name)
		}
	}

	if _, err := l.Fetch(context.Background(), EmbedScheme+"unicorn"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := Embedded("../loader.go"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for path traversal, got %v", err)
	}
}

func TestEmbeddedNames(t *testing.T) {
	names := EmbeddedNames()
	want := []string{"car-horn", "cat01", "cat02", "cat03", "dog01", "pop"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestFetchDataURI(t *testing.T) {
	l := newTestLoader(t)
	ref := "data:audio/wav;base64," + base64.StdEncoding.EncodeToString([]byte("RIFFdata"))
	data, err := l.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("data uri fetch failed: %v", err)
	}
	if string(data) != "RIFFdata" {
		t.Errorf("expected 'RIFFdata', got %q", data)
	}

	data, err = l.Fetch(context.Background(), "data:text/plain,hello%20there")
	if err != nil {
		t.Fatalf("plain data uri fetch failed: %v", err)
	}
	if string(data) != "hello there" {
		t.Errorf("expected 'hello there', got %q", data)
	}

	if _, err := l.Fetch(context.Background(), "data:audio/wav;base64"); err == nil {
		t.Error("expected error for data uri without payload")
	}
	if _, err := l.Fetch(context.Background(), "data:audio/wav;base64,!!!"); err == nil {
		t.Error("expected error for bad base64")
	}
}

func TestFetchEmptyReference(t *testing.T) {
	l := newTestLoader(t)
	if _, err := l.Fetch(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com/dog01.mp3", ".mp3"},
		{"http://example.com/cat.flac?v=2", ".flac"},
		{"http://example.com/sound", ".bin"},
		{"http://example.com/a.verylongext", ".bin"},
	}
	for _, tt := range tests {
		if got := getExtension(tt.url); got != tt.want {
			t.Errorf("getExtension(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
