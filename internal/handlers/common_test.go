package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Code24x7-R/Photobook/internal/config"
	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/processing"
	"github.com/Code24x7-R/Photobook/internal/providers"
	"github.com/Code24x7-R/Photobook/internal/storage"
)

// Sniffable image fixtures
var (
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

// stubEnricher returns one canned result for every photo
type stubEnricher struct {
	enrichment models.Enrichment
	err        error
}

func (s *stubEnricher) Describe(ctx context.Context, image providers.Image) (models.Enrichment, error) {
	return s.enrichment, s.err
}

// newTestHandler builds a handler over a fresh store and coordinator. The
// reset delay is long enough that the progress counter never resets during a
// test.
func newTestHandler(t *testing.T, enricher processing.Enricher) (*Handler, *storage.PhotoStore, *processing.Coordinator) {
	t.Helper()
	cfg := config.Config{
		Port:               "8888",
		UploadDir:          t.TempDir(),
		MaxUploadBytes:     1 << 20,
		ProgressResetDelay: time.Hour,
	}
	store := storage.New()
	coordinator := processing.New(store, enricher, cfg.ProgressResetDelay)
	return New(store, coordinator, cfg), store, coordinator
}

type uploadFile struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, field string, files []uploadFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.name)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func doRequest(h *Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)
	return w
}

// seedPhoto registers an already-enriched photo with a real asset on disk
func seedPhoto(t *testing.T, h *Handler, record models.PhotoRecord, asset []byte) models.PhotoRecord {
	t.Helper()
	id := storage.NewID()
	assetPath := filepath.Join(h.cfg.UploadDir, id+".jpg")
	if err := os.WriteFile(assetPath, asset, 0644); err != nil {
		t.Fatalf("writing asset: %v", err)
	}
	record.ID = id
	record.AssetPath = assetPath
	record.ImageURL = "/static/uploads/" + id + ".jpg"
	added := h.store.Add(record)
	return added[0]
}

func TestHealthcheck(t *testing.T) {
	h, _, _ := newTestHandler(t, &stubEnricher{})

	w := doRequest(h, httptest.NewRequest("GET", "/healthcheck", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK body, got %q", w.Body.String())
	}
}

func TestStaticRejectsTraversal(t *testing.T) {
	h, _, _ := newTestHandler(t, &stubEnricher{})

	w := doRequest(h, httptest.NewRequest("GET", "/static/uploads/%2e%2e/secret", nil))
	if w.Code == http.StatusOK {
		t.Errorf("Expected traversal rejection, got %d", w.Code)
	}
}
