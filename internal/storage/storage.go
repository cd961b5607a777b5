package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Code24x7-R/Photobook/internal/models"
)

// Album names the registry assigns on its own.
const (
	AlbumUnassigned    = "Unassigned"
	AlbumProcessing    = "Processing..."
	AlbumUncategorized = "Uncategorized"
)

// PhotoStore holds the session's photos in upload order. All mutation goes
// through its methods; reads return copies.
type PhotoStore struct {
	mu      sync.RWMutex
	records []models.PhotoRecord
	index   map[string]int
}

func New() *PhotoStore {
	return &PhotoStore{
		index: make(map[string]int),
	}
}

// NewID returns a fresh photo identifier
func NewID() string {
	return ulid.Make().String()
}

// Add registers freshly uploaded photos. Records without an ID get one
// assigned; the stored copies are returned.
func (s *PhotoStore) Add(records ...models.PhotoRecord) []models.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(records)
}

// Append registers externally decoded records, used by photobook import
func (s *PhotoStore) Append(records ...models.PhotoRecord) []models.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(records)
}

func (s *PhotoStore) add(records []models.PhotoRecord) []models.PhotoRecord {
	added := make([]models.PhotoRecord, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			record.ID = NewID()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}
		stored := record.Clone()
		s.index[stored.ID] = len(s.records)
		s.records = append(s.records, stored)
		added = append(added, stored.Clone())
	}
	return added
}

// ApplyEnrichment merges one enrichment result into its record. A failed
// attempt parks the photo in the Unassigned album with the error message.
// Unknown ids are ignored so photos deleted mid-flight absorb late results.
func (s *PhotoStore) ApplyEnrichment(id string, enrichment models.Enrichment, enrichErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}

	record := &s.records[i]
	record.Enriching = false
	if enrichErr != nil {
		record.Error = enrichErr.Error()
		record.Album = AlbumUnassigned
		record.Tags = nil
		return
	}

	record.Error = ""
	record.Title = enrichment.Title
	record.Caption = enrichment.Caption
	record.Album = enrichment.Album
	record.Tags = append([]string(nil), enrichment.Tags...)
}

func (s *PhotoStore) SetTitle(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records[i].Title = title
	return true
}

func (s *PhotoStore) SetCaption(id, caption string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records[i].Caption = caption
	return true
}

// SetTags replaces a record's tags. Duplicates are dropped, first occurrence
// wins, comparison is case-sensitive.
func (s *PhotoStore) SetTags(id string, tags []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	seen := make(map[string]struct{}, len(tags))
	deduped := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		deduped = append(deduped, tag)
	}
	s.records[i].Tags = deduped
	return true
}

// RenameAlbum moves every photo in album old to album new and reports how
// many moved. An empty new name is a no-op; renaming onto an existing album
// merges the two.
func (s *PhotoStore) RenameAlbum(old, new string) int {
	new = strings.TrimSpace(new)
	if new == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	renamed := 0
	for i := range s.records {
		if s.records[i].Album == old {
			s.records[i].Album = new
			renamed++
		}
	}
	return renamed
}

// MarkEnriching flags a record for another enrichment pass and clears any
// previous error. Reports whether the id existed.
func (s *PhotoStore) MarkEnriching(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records[i].Enriching = true
	s.records[i].Error = ""
	return true
}

// Remove deletes one record, preserving the order of the rest. The removed
// record is returned so the caller can release its asset.
func (s *PhotoStore) Remove(id string) (models.PhotoRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.PhotoRecord{}, false
	}

	removed := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	return removed, true
}

// Clear empties the registry and returns the removed records
func (s *PhotoStore) Clear() []models.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.records
	s.records = nil
	s.index = make(map[string]int)
	return removed
}

func (s *PhotoStore) Get(id string) (models.PhotoRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.PhotoRecord{}, false
	}
	return s.records[i].Clone(), true
}

// List returns a snapshot of all records in upload order
func (s *PhotoStore) List() []models.PhotoRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.PhotoRecord, 0, len(s.records))
	for _, record := range s.records {
		result = append(result, record.Clone())
	}
	return result
}

func (s *PhotoStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
