package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vmunix/mediashelf/pkg/tvdb"
)

// TVDB adapts the TVDB client to the Provider interface. TVDB search
// results carry no episode count, so its candidates always report an
// unknown count and are only accepted through the low-confidence path.
type TVDB struct {
	client *tvdb.Client
}

// NewTVDB wraps a TVDB client.
func NewTVDB(client *tvdb.Client) *TVDB {
	return &TVDB{client: client}
}

func (p *TVDB) Name() string { return "tvdb" }

func (p *TVDB) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	results, err := p.client.Search(ctx, query)
	if err != nil {
		return nil, translateTVDBErr(err)
	}
	if len(results) > limit {
		results = results[:limit]
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, Candidate{
			ID:        strconv.Itoa(r.ID),
			Title:     r.Name,
			AltTitles: r.Aliases,
			Episodes:  nil,
			Status:    tvdbStatus(r.Status),
			Overview:  r.Overview,
			Genres:    r.Genres,
			PosterURL: r.Image,
		})
	}

	return rankCandidates(query, candidates), nil
}

func (p *TVDB) Episodes(ctx context.Context, id string) ([]Episode, error) {
	seriesID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("bad tvdb id %q: %w", id, err)
	}

	eps, err := p.client.GetEpisodes(ctx, seriesID)
	if err != nil {
		return nil, translateTVDBErr(err)
	}

	episodes := make([]Episode, 0, len(eps))
	for _, ep := range eps {
		e := Episode{
			Season:       ep.Season,
			Number:       ep.Episode,
			Title:        ep.Name,
			ThumbnailURL: ep.Image,
		}
		if !ep.AirDate.IsZero() {
			aired := ep.AirDate
			e.AirDate = &aired
		}
		episodes = append(episodes, e)
	}
	return episodes, nil
}

func tvdbStatus(s string) Status {
	switch {
	case strings.EqualFold(s, "Ended"):
		return StatusFinished
	case strings.EqualFold(s, "Continuing"):
		return StatusReleasing
	case strings.EqualFold(s, "Upcoming"):
		return StatusNotYetReleased
	default:
		return StatusUnknown
	}
}

func translateTVDBErr(err error) error {
	switch {
	case errors.Is(err, tvdb.ErrRateLimited):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case errors.Is(err, tvdb.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}
