package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/storage"
)

type pendingUpload struct {
	name string
	mime string
	data []byte
}

// handleUpload accepts a multipart batch of photos, registers them, and
// starts enrichment. The whole batch is validated before anything is written,
// so a bad file rejects the request without side effects.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Invalid multipart request: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No photos in request", http.StatusBadRequest)
		return
	}

	pending := make([]pendingUpload, 0, len(headers))
	for _, header := range headers {
		upload, err := h.readUpload(header)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		pending = append(pending, upload)
	}

	if err := h.ensureUploadsDir(); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	records := make([]models.PhotoRecord, 0, len(pending))
	for _, upload := range pending {
		id := storage.NewID()
		assetName, assetPath, err := h.saveAsset(id, upload.name, upload.mime, upload.data)
		if err != nil {
			for _, record := range records {
				h.removeAsset(record.AssetPath)
			}
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		records = append(records, models.PhotoRecord{
			ID:        id,
			ImageURL:  "/static/uploads/" + assetName,
			AssetPath: assetPath,
			FileName:  upload.name,
			MIMEType:  upload.mime,
			Enriching: true,
		})
	}

	// Enrichment outlives this request, so it is not tied to the request
	// context.
	added := h.coordinator.Process(context.Background(), records...)

	h.writeJSON(w, map[string]any{
		"photos":   added,
		"progress": h.coordinator.Progress(),
	})
}

func (h *Handler) readUpload(header *multipart.FileHeader) (pendingUpload, error) {
	file, err := header.Open()
	if err != nil {
		return pendingUpload{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		return pendingUpload{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	if int64(len(data)) > h.cfg.MaxUploadBytes {
		return pendingUpload{}, fmt.Errorf("%s is too large (max %d bytes)", header.Filename, h.cfg.MaxUploadBytes)
	}
	if len(data) == 0 {
		return pendingUpload{}, fmt.Errorf("%s is empty", header.Filename)
	}

	mimeType, ok := detectImageMIME(data)
	if !ok {
		return pendingUpload{}, fmt.Errorf("%s is not an image (%s)", header.Filename, mimeType)
	}

	return pendingUpload{name: header.Filename, mime: mimeType, data: data}, nil
}
