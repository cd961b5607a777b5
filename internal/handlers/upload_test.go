package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Code24x7-R/Photobook/internal/models"
)

func TestUploadRegistersAndEnriches(t *testing.T) {
	stub := &stubEnricher{enrichment: models.Enrichment{
		Title:   "Sunset",
		Caption: "The sun sets.",
		Album:   "Nature",
		Tags:    []string{"sunset"},
	}}
	h, store, coordinator := newTestHandler(t, stub)

	body, contentType := multipartBody(t, "photos", []uploadFile{
		{name: "beach.jpg", data: jpegBytes},
		{name: "forest.png", data: pngBytes},
	})
	r := httptest.NewRequest("POST", "/api/photos", body)
	r.Header.Set("Content-Type", contentType)

	w := doRequest(h, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Photos   []models.PhotoRecord `json:"photos"`
		Progress models.Progress      `json:"progress"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if len(response.Photos) != 2 {
		t.Fatalf("Expected 2 photos, got %d", len(response.Photos))
	}
	if response.Progress.Total != 2 {
		t.Errorf("Expected progress total 2, got %d", response.Progress.Total)
	}

	first := response.Photos[0]
	if first.ID == "" {
		t.Error("Expected photo id assigned")
	}
	if !first.Enriching {
		t.Error("Expected photo to start enriching")
	}
	if first.FileName != "beach.jpg" {
		t.Errorf("Expected original file name kept, got %q", first.FileName)
	}
	if first.MIMEType != "image/jpeg" {
		t.Errorf("Expected sniffed MIME type, got %q", first.MIMEType)
	}
	if !strings.HasPrefix(first.ImageURL, "/static/uploads/") {
		t.Errorf("Expected served image URL, got %q", first.ImageURL)
	}

	coordinator.Wait()
	record, _ := store.Get(first.ID)
	if record.Title != "Sunset" || record.Album != "Nature" {
		t.Errorf("Expected enrichment applied, got %+v", record)
	}

	// The stored asset must hold the original bytes for re-enrichment and
	// export.
	data, err := os.ReadFile(record.AssetPath)
	if err != nil {
		t.Fatalf("Expected stored asset readable: %v", err)
	}
	if string(data) != string(jpegBytes) {
		t.Error("Expected asset to hold original bytes")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	h, store, _ := newTestHandler(t, &stubEnricher{})

	body, contentType := multipartBody(t, "photos", []uploadFile{
		{name: "beach.jpg", data: jpegBytes},
		{name: "notes.txt", data: []byte("just some text, definitely not pixels")},
	})
	r := httptest.NewRequest("POST", "/api/photos", body)
	r.Header.Set("Content-Type", contentType)

	w := doRequest(h, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "notes.txt") {
		t.Errorf("Expected error to name the bad file, got %q", w.Body.String())
	}

	// One bad file rejects the whole batch with no side effects.
	if store.Len() != 0 {
		t.Errorf("Expected registry untouched, got %d records", store.Len())
	}
	entries, err := os.ReadDir(h.cfg.UploadDir)
	if err == nil && len(entries) != 0 {
		t.Errorf("Expected no stored assets, got %d", len(entries))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	h, store, _ := newTestHandler(t, &stubEnricher{})

	big := make([]byte, h.cfg.MaxUploadBytes+1)
	copy(big, jpegBytes)

	body, contentType := multipartBody(t, "photos", []uploadFile{
		{name: "huge.jpg", data: big},
	})
	r := httptest.NewRequest("POST", "/api/photos", body)
	r.Header.Set("Content-Type", contentType)

	w := doRequest(h, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "too large") {
		t.Errorf("Expected size error, got %q", w.Body.String())
	}
	if store.Len() != 0 {
		t.Errorf("Expected registry untouched, got %d records", store.Len())
	}
}

func TestUploadRequiresPhotos(t *testing.T) {
	h, _, _ := newTestHandler(t, &stubEnricher{})

	body, contentType := multipartBody(t, "photos", nil)
	r := httptest.NewRequest("POST", "/api/photos", body)
	r.Header.Set("Content-Type", contentType)

	w := doRequest(h, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty upload, got %d", w.Code)
	}
}

func TestUploadAcceptsLegacyFieldName(t *testing.T) {
	h, store, _ := newTestHandler(t, &stubEnricher{})

	body, contentType := multipartBody(t, "files", []uploadFile{
		{name: "beach.jpg", data: jpegBytes},
	})
	r := httptest.NewRequest("POST", "/api/photos", body)
	r.Header.Set("Content-Type", contentType)

	w := doRequest(h, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 record, got %d", store.Len())
	}
}
