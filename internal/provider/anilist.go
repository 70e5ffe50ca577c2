package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vmunix/mediashelf/internal/anilist"
)

// AniList adapts the AniList client to the Provider interface.
type AniList struct {
	client *anilist.Client
}

// NewAniList wraps an AniList client.
func NewAniList(client *anilist.Client) *AniList {
	return &AniList{client: client}
}

func (p *AniList) Name() string { return "anilist" }

func (p *AniList) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	media, err := p.client.Search(ctx, query, limit)
	if err != nil {
		return nil, translateAniListErr(err)
	}

	candidates := make([]Candidate, 0, len(media))
	for _, m := range media {
		title := m.Title.English
		if title == "" {
			title = m.Title.Romaji
		}
		candidates = append(candidates, Candidate{
			ID:        strconv.Itoa(m.ID),
			Title:     title,
			AltTitles: []string{m.Title.Romaji, m.Title.Native},
			Episodes:  m.Episodes,
			Status:    anilistStatus(m.Status),
			Overview:  m.Description,
			Genres:    m.Genres,
			PosterURL: m.CoverImage.Large,
			BannerURL: m.BannerImage,
		})
	}

	return rankCandidates(query, candidates), nil
}

func (p *AniList) Episodes(ctx context.Context, id string) ([]Episode, error) {
	mediaID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("bad anilist id %q: %w", id, err)
	}

	media, err := p.client.GetMedia(ctx, mediaID)
	if err != nil {
		return nil, translateAniListErr(err)
	}

	episodes := make([]Episode, 0, len(media.StreamingEps))
	for i, ep := range media.StreamingEps {
		episodes = append(episodes, Episode{
			Number:       i + 1,
			Title:        ep.Title,
			ThumbnailURL: ep.Thumbnail,
		})
	}
	return episodes, nil
}

func anilistStatus(s string) Status {
	switch s {
	case "FINISHED":
		return StatusFinished
	case "RELEASING":
		return StatusReleasing
	case "NOT_YET_RELEASED":
		return StatusNotYetReleased
	case "CANCELLED":
		return StatusCancelled
	case "HIATUS":
		return StatusHiatus
	default:
		return StatusUnknown
	}
}

func translateAniListErr(err error) error {
	switch {
	case errors.Is(err, anilist.ErrRateLimited):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case errors.Is(err, anilist.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}
