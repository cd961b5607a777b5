package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/photobook"
	"github.com/Code24x7-R/Photobook/internal/storage"
)

// HandleBook downloads the current photobook as a self-contained document.
// The document is built fully in memory first; a failure sends an error
// instead of a truncated file.
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records := h.store.List()
	photos := make([]photobook.Photo, 0, len(records))
	for _, record := range records {
		data, err := os.ReadFile(record.AssetPath)
		if err != nil {
			h.writeError(w, "Failed to read photo "+record.FileName+": "+err.Error(), http.StatusInternalServerError)
			return
		}
		photos = append(photos, photobook.Photo{
			FileName: record.FileName,
			MIMEType: record.MIMEType,
			Title:    record.Title,
			Caption:  record.Caption,
			Album:    record.Album,
			Tags:     record.Tags,
			Image:    data,
		})
	}

	var buf bytes.Buffer
	if err := photobook.Encode(&buf, photos); err != nil {
		h.writeError(w, "Failed to build photobook: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := "photobook-" + time.Now().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write photobook download", "error", err)
	}
}

// HandleBookImport decodes an uploaded photobook document and appends its
// photos to the registry with fresh ids. A failure anywhere leaves the
// registry untouched.
func (h *Handler) HandleBookImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reader io.Reader
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("book")
		if err != nil {
			h.writeError(w, "Failed to read photobook file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		reader = file
	} else {
		reader = r.Body
	}

	photos, err := photobook.Decode(reader)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ensureUploadsDir(); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	records := make([]models.PhotoRecord, 0, len(photos))
	for _, photo := range photos {
		id := storage.NewID()
		assetName, assetPath, err := h.saveAsset(id, photo.FileName, photo.MIMEType, photo.Image)
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
			FileName:  photo.FileName,
			MIMEType:  photo.MIMEType,
			Title:     photo.Title,
			Caption:   photo.Caption,
			Album:     photo.Album,
			Tags:      photo.Tags,
		})
	}

	appended := h.store.Append(records...)
	slog.Info("Photobook imported", "photos", len(appended))

	h.writeJSON(w, map[string]any{
		"imported": len(appended),
		"photos":   appended,
	})
}

// HandleBookNew clears the registry and its stored assets. The UI asks for
// confirmation before calling this.
func (h *Handler) HandleBookNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	removed := h.store.Clear()
	for _, record := range removed {
		h.removeAsset(record.AssetPath)
	}
	slog.Info("Started new photobook", "cleared", len(removed))

	h.writeJSON(w, map[string]any{"cleared": len(removed)})
}
