package storage

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Code24x7-R/Photobook/internal/models"
)

// Albums groups the current photos for display. Photos still enriching land
// under the in-progress placeholder and photos without an album under
// Uncategorized. Groups are ordered with English collation; photos keep
// upload order within a group. The grouping is recomputed on every call.
func (s *PhotoStore) Albums() []models.AlbumGroup {
	records := s.List()

	var order []string
	groups := make(map[string][]models.PhotoRecord)
	for _, record := range records {
		name := record.Album
		if record.Enriching {
			name = AlbumProcessing
		} else if name == "" {
			name = AlbumUncategorized
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], record)
	}

	// Collators keep internal buffers, so build one per call rather than
	// sharing across requests.
	collator := collate.New(language.English)
	sort.Slice(order, func(i, j int) bool {
		return collator.CompareString(order[i], order[j]) < 0
	})

	result := make([]models.AlbumGroup, 0, len(order))
	for _, name := range order {
		result = append(result, models.AlbumGroup{Name: name, Photos: groups[name]})
	}
	return result
}
