package dataset

// CaptionRecord is one reference photo in a captioning evaluation dataset.
// Each record pairs an image with the title, caption, album, and tags a
// good description of that photo should contain.
type CaptionRecord struct {
	// Core identifier
	ID string `json:"id" parquet:"id"` // Primary key

	// Image location. ImagePath points at a local file; ImageURL is used by
	// the fetch step when no local copy exists yet.
	ImagePath string `json:"image_path" parquet:"image_path"`
	ImageURL  string `json:"image_url" parquet:"image_url"`

	// Ground truth for comparison against generated enrichments
	Title   string   `json:"title" parquet:"title"`
	Caption string   `json:"caption" parquet:"caption"`
	Album   string   `json:"album" parquet:"album"`
	Tags    []string `json:"tags" parquet:"tags,list"`
}

// ImageSource returns the preferred image location for the record.
// A local path wins over a remote URL.
func (r *CaptionRecord) ImageSource() string {
	if r.ImagePath != "" {
		return r.ImagePath
	}
	return r.ImageURL
}

// HasLocalImage reports whether the record already points at a local file.
func (r *CaptionRecord) HasLocalImage() bool {
	return r.ImagePath != ""
}

// PrimaryTag returns the first tag if available (useful for summaries)
func (r *CaptionRecord) PrimaryTag() string {
	if len(r.Tags) > 0 {
		return r.Tags[0]
	}
	return ""
}
