package captioning

import (
	"errors"
	"testing"
)

func TestParseEnrichmentPlainJSON(t *testing.T) {
	response := `{"title":"Golden Hour","caption":"A beach at sunset.","album":"Nature","tags":["sunset","beach","ocean"]}`

	enrichment, err := ParseEnrichment(response)
	if err != nil {
		t.Fatalf("ParseEnrichment failed: %v", err)
	}

	if enrichment.Title != "Golden Hour" {
		t.Errorf("Expected title 'Golden Hour', got %q", enrichment.Title)
	}
	if enrichment.Caption != "A beach at sunset." {
		t.Errorf("Expected caption 'A beach at sunset.', got %q", enrichment.Caption)
	}
	if enrichment.Album != "Nature" {
		t.Errorf("Expected album 'Nature', got %q", enrichment.Album)
	}
	if len(enrichment.Tags) != 3 {
		t.Errorf("Expected 3 tags, got %d", len(enrichment.Tags))
	}
}

func TestParseEnrichmentStripsCodeFences(t *testing.T) {
	response := "```json\n{\"title\":\"City Lights\",\"caption\":\"Downtown at night.\",\"album\":\"City Life\",\"tags\":[\"night\",\"city\",\"lights\"]}\n```"

	enrichment, err := ParseEnrichment(response)
	if err != nil {
		t.Fatalf("ParseEnrichment failed: %v", err)
	}

	if enrichment.Title != "City Lights" {
		t.Errorf("Expected title 'City Lights', got %q", enrichment.Title)
	}
}

func TestParseEnrichmentTrimsFields(t *testing.T) {
	response := `{"title":"  Quiet Morning ","caption":" Fog over the lake. ","album":" Nature ","tags":[" fog ","lake","","  "]}`

	enrichment, err := ParseEnrichment(response)
	if err != nil {
		t.Fatalf("ParseEnrichment failed: %v", err)
	}

	if enrichment.Title != "Quiet Morning" {
		t.Errorf("Expected trimmed title, got %q", enrichment.Title)
	}
	if len(enrichment.Tags) != 2 {
		t.Errorf("Expected empty tags dropped, got %v", enrichment.Tags)
	}
	if enrichment.Tags[0] != "fog" {
		t.Errorf("Expected first tag 'fog', got %q", enrichment.Tags[0])
	}
}

func TestParseEnrichmentMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no title", `{"caption":"c","album":"a","tags":["x","y","z"]}`},
		{"empty title", `{"title":"  ","caption":"c","album":"a","tags":["x"]}`},
		{"no caption", `{"title":"t","album":"a","tags":["x"]}`},
		{"no album", `{"title":"t","caption":"c","tags":["x"]}`},
		{"no tags", `{"title":"t","caption":"c","album":"a"}`},
		{"null tags", `{"title":"t","caption":"c","album":"a","tags":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnrichment(tt.response)
			if err == nil {
				t.Fatal("Expected error for incomplete payload")
			}
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("Expected ShapeError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseEnrichmentWrongTypes(t *testing.T) {
	_, err := ParseEnrichment(`{"title":"t","caption":"c","album":"a","tags":"sunset"}`)
	if err == nil {
		t.Fatal("Expected error when tags is not a sequence")
	}
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("Expected ShapeError, got %T: %v", err, err)
	}
}

func TestParseEnrichmentNotJSON(t *testing.T) {
	_, err := ParseEnrichment("Here is a lovely photo of a sunset!")
	if err == nil {
		t.Fatal("Expected error for non-JSON payload")
	}
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("Expected ShapeError, got %T: %v", err, err)
	}
}

func TestParseEnrichmentEmpty(t *testing.T) {
	_, err := ParseEnrichment("   ")
	if err == nil {
		t.Fatal("Expected error for empty payload")
	}
}
