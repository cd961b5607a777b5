package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/Code24x7-R/Photobook/internal/config"
	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/processing"
	"github.com/Code24x7-R/Photobook/internal/storage"
)

type Handler struct {
	store       *storage.PhotoStore
	coordinator *processing.Coordinator
	cfg         config.Config
}

func New(store *storage.PhotoStore, coordinator *processing.Coordinator, cfg config.Config) *Handler {
	return &Handler{
		store:       store,
		coordinator: coordinator,
		cfg:         cfg,
	}
}

// Routes wires every endpoint onto a fresh mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/photos", h.HandlePhotos)
	mux.HandleFunc("/api/photos/", h.HandlePhotoDetail)
	mux.HandleFunc("/api/albums", h.HandleAlbums)
	mux.HandleFunc("/api/albums/rename", h.HandleAlbumRename)
	mux.HandleFunc("/api/book", h.HandleBook)
	mux.HandleFunc("/api/book/import", h.HandleBookImport)
	mux.HandleFunc("/api/book/new", h.HandleBookNew)
	mux.HandleFunc("/api/progress", h.HandleProgress)
	mux.HandleFunc("/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "error", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Photo helpers
func (h *Handler) getPhotoOrError(w http.ResponseWriter, id string) (models.PhotoRecord, bool) {
	record, exists := h.store.Get(id)
	if !exists {
		h.writeError(w, "Photo not found", http.StatusNotFound)
		return models.PhotoRecord{}, false
	}
	return record, true
}

// File operation helpers
func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll(h.cfg.UploadDir, 0755)
}
