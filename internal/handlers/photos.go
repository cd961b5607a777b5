package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

func (h *Handler) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, map[string]any{
			"photos":   h.store.List(),
			"progress": h.coordinator.Progress(),
		})
	case "POST":
		h.handleUpload(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandlePhotoDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/photos/")

	if strings.HasSuffix(id, "/enrich") {
		h.handleReenrich(w, r, strings.TrimSuffix(id, "/enrich"))
		return
	}

	switch r.Method {
	case "GET":
		record, ok := h.getPhotoOrError(w, id)
		if !ok {
			return
		}
		h.writeJSON(w, record)
	case "PATCH":
		h.handleEdit(w, r, id)
	case "DELETE":
		h.handleDelete(w, id)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEdit applies title, caption, or tag changes to one photo. Absent
// fields are left alone; a blank title is rejected rather than committed.
func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request, id string) {
	var request struct {
		Title   *string   `json:"title"`
		Caption *string   `json:"caption"`
		Tags    *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Title == nil && request.Caption == nil && request.Tags == nil {
		h.writeError(w, "Nothing to edit", http.StatusBadRequest)
		return
	}

	if _, ok := h.getPhotoOrError(w, id); !ok {
		return
	}

	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			h.writeError(w, "Title cannot be empty", http.StatusBadRequest)
			return
		}
		h.store.SetTitle(id, title)
	}
	if request.Caption != nil {
		h.store.SetCaption(id, strings.TrimSpace(*request.Caption))
	}
	if request.Tags != nil {
		tags := make([]string, 0, len(*request.Tags))
		for _, tag := range *request.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		h.store.SetTags(id, tags)
	}

	record, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, "Photo not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, record)
}

func (h *Handler) handleDelete(w http.ResponseWriter, id string) {
	removed, ok := h.store.Remove(id)
	if !ok {
		h.writeError(w, "Photo not found", http.StatusNotFound)
		return
	}
	h.removeAsset(removed.AssetPath)
	h.writeJSON(w, map[string]any{"deleted": removed.ID})
}

// handleReenrich reruns enrichment for one photo from its stored asset
func (h *Handler) handleReenrich(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Enrichment outlives this request, so it is not tied to the request
	// context.
	if err := h.coordinator.Reenrich(context.Background(), id); err != nil {
		h.writeError(w, "Photo not found", http.StatusNotFound)
		return
	}

	record, ok := h.getPhotoOrError(w, id)
	if !ok {
		return
	}
	h.writeJSON(w, record)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.coordinator.Progress())
}
