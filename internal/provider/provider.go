// Package provider defines the metadata-catalog capability the
// reconciliation engine consumes, and adapts the concrete AniList, MAL,
// and TVDB clients to it.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/vmunix/mediashelf/pkg/mediafile"
)

// Sentinel errors shared across providers. Adapters translate their
// client's errors into these so the engine never cares which catalog it
// is talking to.
var (
	// ErrRateLimited marks a transient, retryable condition. It is an
	// expected state of the upstream APIs, never a user-facing failure.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrNotFound means the provider has no matching entry. A valid
	// outcome, not an error in the engine's taxonomy.
	ErrNotFound = errors.New("no matching entry")
)

// Status is a provider's release status for a series, folded into a
// common vocabulary.
type Status string

const (
	StatusUnknown        Status = "unknown"
	StatusFinished       Status = "finished"
	StatusReleasing      Status = "releasing"
	StatusNotYetReleased Status = "not_yet_released"
	StatusCancelled      Status = "cancelled"
	StatusHiatus         Status = "hiatus"
)

// Acceptable reports whether a candidate in this status can be matched
// against local files. Unreleased, cancelled, and paused series cannot
// have produced the files on disk.
func (s Status) Acceptable() bool {
	switch s {
	case StatusNotYetReleased, StatusCancelled, StatusHiatus:
		return false
	default:
		return true
	}
}

// Candidate is one search result from a provider. Transient: evaluated
// and either promoted into a series record or discarded.
type Candidate struct {
	ID         string
	Title      string
	AltTitles  []string
	Episodes   *int // nil when the provider does not know the count
	Status     Status
	Overview   string
	Genres     []string
	PosterURL  string
	BannerURL  string
	Similarity float64 // ranking score against the search query
}

// Episode is one provider-reported episode.
type Episode struct {
	Season       int // 0 when the provider has no season concept
	Number       int
	Title        string
	AirDate      *time.Time
	ThumbnailURL string
}

// Provider is the capability the reconciliation engine consumes: search
// for a series by title, then fetch its episode list.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
	Episodes(ctx context.Context, id string) ([]Episode, error)
}

// rankCandidates orders candidates by fuzzy title similarity against the
// query, preserving provider order among equals, and records each score.
func rankCandidates(query string, candidates []Candidate) []Candidate {
	for i := range candidates {
		candidates[i].Similarity = mediafile.BestSimilarity(query,
			append([]string{candidates[i].Title}, candidates[i].AltTitles...)...)
	}
	// Stable insertion sort: candidate lists are short.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].Similarity > candidates[j-1].Similarity; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
	return candidates
}
