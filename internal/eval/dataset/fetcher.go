package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	// Default cache directory for fetched reference images
	DefaultCacheDir = "~/.cache/photobook/images"

	defaultFetchTimeout  = 30 * time.Second
	defaultFetchMaxBytes = 20 * 1024 * 1024

	// Responses below this size are almost always an error page or a
	// placeholder rather than a photo
	minImageBytes = 1000
)

// FetchConfig configures reference image downloading
type FetchConfig struct {
	CacheDir      string
	ForceDownload bool
	Timeout       time.Duration
	MaxBytes      int64
}

// Fetcher downloads and caches reference images for records that only
// carry a URL
type Fetcher struct {
	config FetchConfig
	client *http.Client
}

// NewFetcher creates a new image fetcher
func NewFetcher(config FetchConfig) *Fetcher {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultFetchTimeout
	}
	if config.MaxBytes <= 0 {
		config.MaxBytes = defaultFetchMaxBytes
	}

	// Expand ~ to home directory
	if strings.HasPrefix(config.CacheDir, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}

	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// FetchImage makes sure a record's image exists locally and returns its path.
// Records that already point at a local file are returned as is; everything
// else is downloaded into the cache directory keyed by record id.
func (f *Fetcher) FetchImage(record *CaptionRecord) (string, error) {
	if record.HasLocalImage() {
		if _, err := os.Stat(record.ImagePath); err == nil {
			return record.ImagePath, nil
		}
		slog.Warn("Local image missing, falling back to URL", "id", record.ID, "path", record.ImagePath)
	}

	if record.ImageURL == "" {
		return "", fmt.Errorf("record %s has no image path or URL", record.ID)
	}

	cachedPath := f.CachePath(record)

	if !f.config.ForceDownload {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Debug("Using cached image", "id", record.ID, "path", cachedPath)
			return cachedPath, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(cachedPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	slog.Info("Downloading reference image", "id", record.ID, "url", record.ImageURL)

	if err := f.downloadImage(record.ImageURL, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download image for %s: %w", record.ID, err)
	}

	slog.Debug("Reference image downloaded", "id", record.ID, "path", cachedPath)
	return cachedPath, nil
}

// CachePath returns where a record's downloaded image lives in the cache
func (f *Fetcher) CachePath(record *CaptionRecord) string {
	ext := ".jpg"
	if u, err := url.Parse(record.ImageURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	return filepath.Join(f.config.CacheDir, record.ID+ext)
}

// ClearCache removes all cached reference images
func (f *Fetcher) ClearCache() error {
	slog.Info("Clearing image cache", "path", f.config.CacheDir)
	return os.RemoveAll(f.config.CacheDir)
}

// downloadImage downloads an image from a URL to a file
func (f *Fetcher) downloadImage(rawURL, destPath string) error {
	resp, err := f.client.Get(rawURL)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	if resp.ContentLength > f.config.MaxBytes {
		return fmt.Errorf("image too large: %d bytes (max %d)", resp.ContentLength, f.config.MaxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	if int64(len(data)) > f.config.MaxBytes {
		return fmt.Errorf("image too large: exceeds %d bytes", f.config.MaxBytes)
	}

	if len(data) < minImageBytes {
		return fmt.Errorf("image too small (likely placeholder), size: %d bytes", len(data))
	}

	// Write to a temp file, then move into place
	tempPath := destPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move image file: %w", err)
	}

	return nil
}
