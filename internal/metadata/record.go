// Package metadata reconciles scanned media units against external
// catalog providers and produces the series records the library serves.
package metadata

import (
	"time"

	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/pkg/mediafile"
)

// SeriesRecord is the persisted metadata for one media unit. It couples
// provider-sourced fields (title, overview, images) with the local file
// layout discovered by the most recent scan.
type SeriesRecord struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Kind       scanner.Kind    `json:"kind"`
	Overview   string          `json:"overview,omitempty"`
	Genres     []string        `json:"genres,omitempty"`
	PosterURL  string          `json:"poster_url,omitempty"`
	BannerURL  string          `json:"banner_url,omitempty"`
	PosterPath string          `json:"poster_path,omitempty"`
	BannerPath string          `json:"banner_path,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	ProviderID string          `json:"provider_id,omitempty"`
	FolderPath string          `json:"folder_path"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Episodes   []EpisodeRecord `json:"episodes"`
}

// EpisodeRecord is one episode within a series record. Provider-only
// episodes carry no file reference; local-only episodes carry no
// provider fields beyond a synthesized title.
type EpisodeRecord struct {
	Season       *int             `json:"season,omitempty"`
	Number       mediafile.Number `json:"number"`
	Title        string           `json:"title"`
	AirDate      *time.Time       `json:"air_date,omitempty"`
	ThumbnailURL string           `json:"thumbnail_url,omitempty"`
	ThumbPath    string           `json:"thumb_path,omitempty"`
	File         string           `json:"file,omitempty"`
	Subtitle     string           `json:"subtitle,omitempty"`
	Subtitles    []string         `json:"subtitles,omitempty"`
}

// Downloaded reports whether a local file backs this episode.
func (e *EpisodeRecord) Downloaded() bool {
	return e.File != ""
}

// FileEpisodeCount is the number of episodes backed by a local file.
// Records where this is zero are purged rather than persisted.
func (r *SeriesRecord) FileEpisodeCount() int {
	n := 0
	for i := range r.Episodes {
		if r.Episodes[i].Downloaded() {
			n++
		}
	}
	return n
}
