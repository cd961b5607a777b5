package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (h *Handler) HandleAlbums(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.store.Albums())
}

// HandleAlbumRename moves every photo from one album to another. Renaming
// onto an existing album merges the two groups.
func (h *Handler) HandleAlbumRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		OldName string `json:"old_name"`
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	newName := strings.TrimSpace(request.NewName)
	if newName == "" {
		h.writeError(w, "new_name is required", http.StatusBadRequest)
		return
	}

	renamed := h.store.RenameAlbum(request.OldName, newName)
	h.writeJSON(w, map[string]any{
		"renamed": renamed,
		"albums":  h.store.Albums(),
	})
}
