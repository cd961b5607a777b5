package models

import "time"

// PhotoRecord represents one uploaded or imported photo in the current photobook
type PhotoRecord struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	AssetPath string    `json:"-"`
	FileName  string    `json:"file_name"`
	MIMEType  string    `json:"mime_type"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Album     string    `json:"album"`
	Tags      []string  `json:"tags"`
	Enriching bool      `json:"enriching"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrichment is the validated metadata a provider generated for one photo
type Enrichment struct {
	Title   string   `json:"title"`
	Caption string   `json:"caption"`
	Album   string   `json:"album"`
	Tags    []string `json:"tags"`
}

// Progress tracks settled vs. outstanding enrichment work across all batches
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Done reports whether all counted work has settled
func (p Progress) Done() bool {
	return p.Total > 0 && p.Completed >= p.Total
}

// AlbumGroup is one bucket of the album projection
type AlbumGroup struct {
	Name   string        `json:"name"`
	Photos []PhotoRecord `json:"photos"`
}

// Clone returns a deep copy so store snapshots never share tag slices
func (r PhotoRecord) Clone() PhotoRecord {
	out := r
	if r.Tags != nil {
		out.Tags = make([]string, len(r.Tags))
		copy(out.Tags, r.Tags)
	}
	return out
}
