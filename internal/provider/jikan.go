package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vmunix/mediashelf/internal/jikan"
)

// MAL adapts the Jikan (MyAnimeList) client to the Provider interface.
type MAL struct {
	client *jikan.Client
}

// NewMAL wraps a Jikan client.
func NewMAL(client *jikan.Client) *MAL {
	return &MAL{client: client}
}

func (p *MAL) Name() string { return "myanimelist" }

func (p *MAL) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	results, err := p.client.Search(ctx, query, limit)
	if err != nil {
		return nil, translateJikanErr(err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, a := range results {
		title := a.TitleEnglish
		if title == "" {
			title = a.Title
		}
		genres := make([]string, 0, len(a.Genres))
		for _, g := range a.Genres {
			genres = append(genres, g.Name)
		}
		candidates = append(candidates, Candidate{
			ID:        strconv.Itoa(a.MalID),
			Title:     title,
			AltTitles: []string{a.Title, a.TitleJapanese},
			Episodes:  a.Episodes,
			Status:    malStatus(a.Status),
			Overview:  a.Synopsis,
			Genres:    genres,
			PosterURL: a.Images.JPG.LargeImageURL,
		})
	}

	return rankCandidates(query, candidates), nil
}

func (p *MAL) Episodes(ctx context.Context, id string) ([]Episode, error) {
	malID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("bad mal id %q: %w", id, err)
	}

	eps, err := p.client.GetEpisodes(ctx, malID)
	if err != nil {
		return nil, translateJikanErr(err)
	}

	episodes := make([]Episode, 0, len(eps))
	for i, ep := range eps {
		episodes = append(episodes, Episode{
			Number:  i + 1,
			Title:   ep.Title,
			AirDate: ep.Aired,
		})
	}
	return episodes, nil
}

func malStatus(s string) Status {
	switch {
	case strings.EqualFold(s, "Finished Airing"):
		return StatusFinished
	case strings.EqualFold(s, "Currently Airing"):
		return StatusReleasing
	case strings.EqualFold(s, "Not yet aired"):
		return StatusNotYetReleased
	default:
		return StatusUnknown
	}
}

func translateJikanErr(err error) error {
	switch {
	case errors.Is(err, jikan.ErrRateLimited):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case errors.Is(err, jikan.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}
