package captioning

import (
	"encoding/json"
	"strings"

	"github.com/Code24x7-R/Photobook/internal/models"
)

// ShapeError reports a provider response that does not match the required
// {title, caption, album, tags} contract. It is distinguishable from transport
// failures so callers can tell a misbehaving model from a broken connection.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "unexpected response shape: " + e.Reason
}

// ParseEnrichment extracts validated photo metadata from a raw model response.
// Markdown code fences around the JSON are tolerated.
func ParseEnrichment(response string) (models.Enrichment, error) {
	var empty models.Enrichment

	cleaned := stripCodeFences(response)
	if cleaned == "" {
		return empty, &ShapeError{Reason: "empty payload"}
	}

	var parsed struct {
		Title   *string   `json:"title"`
		Caption *string   `json:"caption"`
		Album   *string   `json:"album"`
		Tags    *[]string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return empty, &ShapeError{Reason: "payload is not a JSON object with the expected field types"}
	}

	var missing []string
	if parsed.Title == nil || strings.TrimSpace(*parsed.Title) == "" {
		missing = append(missing, "title")
	}
	if parsed.Caption == nil || strings.TrimSpace(*parsed.Caption) == "" {
		missing = append(missing, "caption")
	}
	if parsed.Album == nil || strings.TrimSpace(*parsed.Album) == "" {
		missing = append(missing, "album")
	}
	if parsed.Tags == nil {
		missing = append(missing, "tags")
	}
	if len(missing) > 0 {
		return empty, &ShapeError{Reason: "missing required fields: " + strings.Join(missing, ", ")}
	}

	enrichment := models.Enrichment{
		Title:   strings.TrimSpace(*parsed.Title),
		Caption: strings.TrimSpace(*parsed.Caption),
		Album:   strings.TrimSpace(*parsed.Album),
	}
	for _, tag := range *parsed.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			enrichment.Tags = append(enrichment.Tags, tag)
		}
	}

	return enrichment, nil
}

// stripCodeFences trims markdown code blocks some models wrap around JSON
func stripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
