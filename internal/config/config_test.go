package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8888" {
		t.Errorf("Expected default port 8888, got %q", cfg.Port)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("Expected default upload dir, got %q", cfg.UploadDir)
	}
	if cfg.MaxUploadBytes != 20971520 {
		t.Errorf("Expected 20 MiB default cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ProgressResetDelay != 1500*time.Millisecond {
		t.Errorf("Expected 1500ms reset delay, got %v", cfg.ProgressResetDelay)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Expected default temperature 0.2, got %v", cfg.Temperature)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PHOTOBOOK_PORT", "9000")
	t.Setenv("PHOTOBOOK_PROVIDER", "ollama")
	t.Setenv("PHOTOBOOK_MODEL", "llava:34b")
	t.Setenv("PHOTOBOOK_UPLOAD_DIR", "/tmp/photos")
	t.Setenv("PHOTOBOOK_MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("PHOTOBOOK_PROGRESS_RESET_DELAY", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected port from env, got %q", cfg.Port)
	}
	if cfg.Provider != "ollama" || cfg.Model != "llava:34b" {
		t.Errorf("Expected provider settings from env, got %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.UploadDir != "/tmp/photos" {
		t.Errorf("Expected upload dir from env, got %q", cfg.UploadDir)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("Expected size cap from env, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ProgressResetDelay != 3*time.Second {
		t.Errorf("Expected reset delay from env, got %v", cfg.ProgressResetDelay)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("PHOTOBOOK_MAX_UPLOAD_BYTES", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for malformed size cap")
	}
}
