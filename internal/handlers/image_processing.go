package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// detectImageMIME sniffs the content type and reports whether the bytes look
// like an image
func detectImageMIME(data []byte) (string, bool) {
	mimeType := http.DetectContentType(data)
	return mimeType, strings.HasPrefix(mimeType, "image/")
}

// extensionFor maps an image MIME type to a stored-asset file extension
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}

// saveAsset writes image bytes under the uploads directory, named by photo id
// so every record owns exactly one file. Returns the asset filename and path.
func (h *Handler) saveAsset(id, originalName, mimeType string, data []byte) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = extensionFor(mimeType)
	}

	assetName := id + ext
	assetPath := filepath.Join(h.cfg.UploadDir, assetName)
	if err := os.WriteFile(assetPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save image: %w", err)
	}

	slog.Info("Image saved", "filename", assetName, "bytes", len(data))
	return assetName, assetPath, nil
}

// removeAsset deletes a stored image, logging rather than failing when the
// file is already gone
func (h *Handler) removeAsset(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove stored image", "path", path, "error", err)
	}
}
