package photobook

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Version is the document schema version this build reads and writes
const Version = 1

// Document is the portable photobook file: all photo metadata plus the
// original image bytes, self-contained so a saved book opens anywhere.
type Document struct {
	Photobook bool      `json:"photobook"`
	Version   int       `json:"version"`
	SavedAt   time.Time `json:"saved_at"`
	Photos    []Photo   `json:"photos"`
}

// Photo is one exported entry. Image carries the original file bytes;
// encoding/json represents them as base64.
type Photo struct {
	FileName string   `json:"file_name"`
	MIMEType string   `json:"mime_type"`
	Title    string   `json:"title"`
	Caption  string   `json:"caption"`
	Album    string   `json:"album"`
	Tags     []string `json:"tags"`
	Image    []byte   `json:"image"`
}

// FormatError reports a file that is not a readable photobook document
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "not a photobook document: " + e.Reason
}

// Encode writes photos as a photobook document
func Encode(w io.Writer, photos []Photo) error {
	document := Document{
		Photobook: true,
		Version:   Version,
		SavedAt:   time.Now().UTC(),
		Photos:    photos,
	}
	if err := json.NewEncoder(w).Encode(document); err != nil {
		return fmt.Errorf("encoding photobook document: %w", err)
	}
	return nil
}

// Decode reads a photobook document and returns its photos. Input without
// the document marker or with an unsupported version is rejected with a
// FormatError so callers can tell a bad file from an I/O failure.
func Decode(r io.Reader) ([]Photo, error) {
	var document Document
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, &FormatError{Reason: "invalid JSON"}
	}
	if !document.Photobook {
		return nil, &FormatError{Reason: "missing document marker"}
	}
	if document.Version != Version {
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported version %d", document.Version)}
	}
	return document.Photos, nil
}
