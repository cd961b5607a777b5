package dataset

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestFetchImagePrefersLocalFile(t *testing.T) {
	tmpDir := t.TempDir()
	imagePath := filepath.Join(tmpDir, "local.jpg")
	if err := os.WriteFile(imagePath, bytes.Repeat([]byte{0xAB}, 2048), 0644); err != nil {
		t.Fatalf("Failed to write local image: %v", err)
	}

	fetcher := NewFetcher(FetchConfig{CacheDir: filepath.Join(tmpDir, "cache")})
	record := CaptionRecord{ID: "r1", ImagePath: imagePath, ImageURL: "https://example.invalid/r1.jpg"}

	path, err := fetcher.FetchImage(&record)
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if path != imagePath {
		t.Errorf("Expected local path %s, got %s", imagePath, path)
	}
}

func TestFetchImageDownloadsAndCaches(t *testing.T) {
	payload := bytes.Repeat([]byte{0xCD}, 4096)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	fetcher := NewFetcher(FetchConfig{CacheDir: cacheDir})
	record := CaptionRecord{ID: "r2", ImageURL: server.URL + "/r2.jpg"}

	path, err := fetcher.FetchImage(&record)
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read cached image: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("Cached image does not match served payload")
	}

	// Second fetch must come from the cache
	if _, err := fetcher.FetchImage(&record); err != nil {
		t.Fatalf("Cached FetchImage failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 server hit, got %d", hits.Load())
	}
}

func TestFetchImageRejectsPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tiny"))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetchConfig{CacheDir: filepath.Join(t.TempDir(), "cache")})
	record := CaptionRecord{ID: "r3", ImageURL: server.URL + "/r3.jpg"}

	if _, err := fetcher.FetchImage(&record); err == nil {
		t.Error("Expected error for placeholder-sized image, got nil")
	}
}

func TestFetchImageRejectsOversize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0xEF}, 8192))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetchConfig{
		CacheDir: filepath.Join(t.TempDir(), "cache"),
		MaxBytes: 4096,
	})
	record := CaptionRecord{ID: "r4", ImageURL: server.URL + "/r4.jpg"}

	if _, err := fetcher.FetchImage(&record); err == nil {
		t.Error("Expected error for oversized image, got nil")
	}
}

func TestFetchImageRequiresSource(t *testing.T) {
	fetcher := NewFetcher(FetchConfig{CacheDir: filepath.Join(t.TempDir(), "cache")})
	record := CaptionRecord{ID: "r5"}

	if _, err := fetcher.FetchImage(&record); err == nil {
		t.Error("Expected error for record without image source, got nil")
	}
}

func TestCachePathUsesURLExtension(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	fetcher := NewFetcher(FetchConfig{CacheDir: cacheDir})

	record := CaptionRecord{ID: "r6", ImageURL: "https://example.com/photos/r6.png?size=large"}
	expected := filepath.Join(cacheDir, "r6.png")
	if got := fetcher.CachePath(&record); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	noExt := CaptionRecord{ID: "r7", ImageURL: "https://example.com/photos/r7"}
	expected = filepath.Join(cacheDir, "r7.jpg")
	if got := fetcher.CachePath(&noExt); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}
