package storage

import (
	"errors"
	"testing"

	"github.com/Code24x7-R/Photobook/internal/models"
)

func TestAddAssignsIDs(t *testing.T) {
	store := New()

	added := store.Add(
		models.PhotoRecord{FileName: "a.jpg", Enriching: true},
		models.PhotoRecord{FileName: "b.jpg", Enriching: true},
	)

	if len(added) != 2 {
		t.Fatalf("Expected 2 records added, got %d", len(added))
	}
	if added[0].ID == "" || added[1].ID == "" {
		t.Error("Expected IDs to be assigned")
	}
	if added[0].ID == added[1].ID {
		t.Error("Expected distinct IDs")
	}
	if added[0].CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if store.Len() != 2 {
		t.Errorf("Expected store length 2, got %d", store.Len())
	}
}

func TestAddPreservesOrder(t *testing.T) {
	store := New()
	store.Add(
		models.PhotoRecord{FileName: "first.jpg"},
		models.PhotoRecord{FileName: "second.jpg"},
		models.PhotoRecord{FileName: "third.jpg"},
	)

	records := store.List()
	names := []string{"first.jpg", "second.jpg", "third.jpg"}
	for i, want := range names {
		if records[i].FileName != want {
			t.Errorf("Expected %s at position %d, got %s", want, i, records[i].FileName)
		}
	}
}

func TestApplyEnrichmentSuccess(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg", Enriching: true})

	store.ApplyEnrichment(added[0].ID, models.Enrichment{
		Title:   "Sunset",
		Caption: "The sun sets over the bay.",
		Album:   "Nature",
		Tags:    []string{"sunset", "bay"},
	}, nil)

	record, ok := store.Get(added[0].ID)
	if !ok {
		t.Fatal("Expected record to exist")
	}
	if record.Enriching {
		t.Error("Expected enriching to be cleared")
	}
	if record.Title != "Sunset" || record.Album != "Nature" {
		t.Errorf("Expected enrichment applied, got %+v", record)
	}
	if len(record.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", record.Tags)
	}
}

func TestApplyEnrichmentFailure(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg", Enriching: true})

	store.ApplyEnrichment(added[0].ID, models.Enrichment{}, errors.New("model unavailable"))

	record, _ := store.Get(added[0].ID)
	if record.Enriching {
		t.Error("Expected enriching to be cleared")
	}
	if record.Album != AlbumUnassigned {
		t.Errorf("Expected failed photo in %q, got %q", AlbumUnassigned, record.Album)
	}
	if record.Error != "model unavailable" {
		t.Errorf("Expected error message retained, got %q", record.Error)
	}
	if record.Tags != nil {
		t.Errorf("Expected tags cleared on failure, got %v", record.Tags)
	}
}

func TestApplyEnrichmentUnknownID(t *testing.T) {
	store := New()
	store.Add(models.PhotoRecord{FileName: "a.jpg"})

	store.ApplyEnrichment("nope", models.Enrichment{Title: "x"}, nil)

	if store.Len() != 1 {
		t.Errorf("Expected store unchanged, got length %d", store.Len())
	}
}

func TestApplyEnrichmentClearsError(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg", Enriching: true})
	id := added[0].ID

	store.ApplyEnrichment(id, models.Enrichment{}, errors.New("timeout"))
	store.MarkEnriching(id)
	store.ApplyEnrichment(id, models.Enrichment{Title: "t", Caption: "c", Album: "Trips"}, nil)

	record, _ := store.Get(id)
	if record.Error != "" {
		t.Errorf("Expected error cleared after successful retry, got %q", record.Error)
	}
	if record.Album != "Trips" {
		t.Errorf("Expected album from retry, got %q", record.Album)
	}
}

func TestSetTitleAndCaption(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg"})
	id := added[0].ID

	if !store.SetTitle(id, "New Title") {
		t.Error("Expected SetTitle to succeed")
	}
	if !store.SetCaption(id, "New caption.") {
		t.Error("Expected SetCaption to succeed")
	}

	record, _ := store.Get(id)
	if record.Title != "New Title" || record.Caption != "New caption." {
		t.Errorf("Expected edits applied, got %+v", record)
	}

	if store.SetTitle("missing", "x") {
		t.Error("Expected SetTitle to report unknown id")
	}
	if store.SetCaption("missing", "x") {
		t.Error("Expected SetCaption to report unknown id")
	}
}

func TestSetTagsDeduplicates(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg"})
	id := added[0].ID

	store.SetTags(id, []string{"sea", "Sea", "sea", "sand"})

	record, _ := store.Get(id)
	want := []string{"sea", "Sea", "sand"}
	if len(record.Tags) != len(want) {
		t.Fatalf("Expected %d tags, got %v", len(want), record.Tags)
	}
	for i, tag := range want {
		if record.Tags[i] != tag {
			t.Errorf("Expected tag %q at %d, got %q", tag, i, record.Tags[i])
		}
	}
}

func TestRenameAlbum(t *testing.T) {
	store := New()
	store.Add(
		models.PhotoRecord{FileName: "a.jpg", Album: "Trip"},
		models.PhotoRecord{FileName: "b.jpg", Album: "Trip"},
		models.PhotoRecord{FileName: "c.jpg", Album: "Other"},
	)

	renamed := store.RenameAlbum("Trip", "Italy 2025")
	if renamed != 2 {
		t.Errorf("Expected 2 photos renamed, got %d", renamed)
	}

	for _, record := range store.List() {
		if record.Album == "Trip" {
			t.Error("Expected no photos left in old album")
		}
	}
}

func TestRenameAlbumEmptyNameNoOp(t *testing.T) {
	store := New()
	store.Add(models.PhotoRecord{FileName: "a.jpg", Album: "Trip"})

	if renamed := store.RenameAlbum("Trip", "   "); renamed != 0 {
		t.Errorf("Expected blank rename to be a no-op, got %d", renamed)
	}

	record := store.List()[0]
	if record.Album != "Trip" {
		t.Errorf("Expected album unchanged, got %q", record.Album)
	}
}

func TestRenameAlbumMerges(t *testing.T) {
	store := New()
	store.Add(
		models.PhotoRecord{FileName: "a.jpg", Album: "Beach"},
		models.PhotoRecord{FileName: "b.jpg", Album: "Coast"},
	)

	store.RenameAlbum("Coast", "Beach")

	for _, record := range store.List() {
		if record.Album != "Beach" {
			t.Errorf("Expected merged album, got %q", record.Album)
		}
	}
}

func TestMarkEnriching(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg"})
	id := added[0].ID
	store.ApplyEnrichment(id, models.Enrichment{}, errors.New("boom"))

	if !store.MarkEnriching(id) {
		t.Fatal("Expected MarkEnriching to succeed")
	}

	record, _ := store.Get(id)
	if !record.Enriching {
		t.Error("Expected enriching flag set")
	}
	if record.Error != "" {
		t.Errorf("Expected error cleared, got %q", record.Error)
	}

	if store.MarkEnriching("missing") {
		t.Error("Expected MarkEnriching to report unknown id")
	}
}

func TestRemove(t *testing.T) {
	store := New()
	added := store.Add(
		models.PhotoRecord{FileName: "a.jpg"},
		models.PhotoRecord{FileName: "b.jpg"},
		models.PhotoRecord{FileName: "c.jpg"},
	)

	removed, ok := store.Remove(added[1].ID)
	if !ok {
		t.Fatal("Expected Remove to succeed")
	}
	if removed.FileName != "b.jpg" {
		t.Errorf("Expected removed record b.jpg, got %s", removed.FileName)
	}

	records := store.List()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records left, got %d", len(records))
	}
	if records[0].FileName != "a.jpg" || records[1].FileName != "c.jpg" {
		t.Errorf("Expected order preserved, got %s, %s", records[0].FileName, records[1].FileName)
	}

	// Index must still resolve records that shifted down.
	record, ok := store.Get(added[2].ID)
	if !ok || record.FileName != "c.jpg" {
		t.Errorf("Expected c.jpg still reachable by id, got %+v ok=%v", record, ok)
	}

	if _, ok := store.Remove("missing"); ok {
		t.Error("Expected Remove to report unknown id")
	}
}

func TestClear(t *testing.T) {
	store := New()
	store.Add(
		models.PhotoRecord{FileName: "a.jpg"},
		models.PhotoRecord{FileName: "b.jpg"},
	)

	removed := store.Clear()
	if len(removed) != 2 {
		t.Errorf("Expected 2 removed records, got %d", len(removed))
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}

	store.Add(models.PhotoRecord{FileName: "c.jpg"})
	if store.Len() != 1 {
		t.Errorf("Expected store usable after clear, got %d", store.Len())
	}
}

func TestListReturnsCopies(t *testing.T) {
	store := New()
	added := store.Add(models.PhotoRecord{FileName: "a.jpg", Tags: []string{"x"}})

	records := store.List()
	records[0].Title = "mutated"
	records[0].Tags[0] = "mutated"

	record, _ := store.Get(added[0].ID)
	if record.Title == "mutated" {
		t.Error("Expected List to return copies")
	}
	if record.Tags[0] == "mutated" {
		t.Error("Expected tag slices to be copied")
	}
}
