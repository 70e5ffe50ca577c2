// Package anilist provides a client for the AniList GraphQL API.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://graphql.anilist.co"

// Sentinel errors for AniList API responses.
var (
	ErrNotFound    = errors.New("anime not found")
	ErrRateLimited = errors.New("rate limited: too many requests")
)

// Media is one anime entry from AniList.
type Media struct {
	ID           int      `json:"id"`
	Title        Title    `json:"title"`
	Episodes     *int     `json:"episodes"` // nil when AniList does not know the count
	Status       string   `json:"status"`   // FINISHED, RELEASING, NOT_YET_RELEASED, CANCELLED, HIATUS
	Description  string   `json:"description"`
	Genres       []string `json:"genres"`
	CoverImage   Cover    `json:"coverImage"`
	BannerImage  string   `json:"bannerImage"`
	StreamingEps []StreamingEpisode `json:"streamingEpisodes"`
}

// Title holds the alternate titles AniList tracks per entry.
type Title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// Cover holds cover image URLs.
type Cover struct {
	Large string `json:"large"`
}

// StreamingEpisode is AniList's per-episode listing.
type StreamingEpisode struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

const searchQuery = `
query ($search: String, $perPage: Int) {
  Page(perPage: $perPage) {
    media(search: $search, type: ANIME, sort: SEARCH_MATCH) {
      id
      title { romaji english native }
      episodes
      status
      description
      genres
      coverImage { large }
      bannerImage
    }
  }
}`

const mediaQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    title { romaji english native }
    episodes
    status
    streamingEpisodes { title thumbnail }
  }
}`

// Client is an AniList GraphQL client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "anilist")
	}
}

// New creates a new AniList client. AniList needs no API key for search.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to limit anime matching the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Media, error) {
	start := time.Now()

	var resp struct {
		Data struct {
			Page struct {
				Media []Media `json:"media"`
			} `json:"Page"`
		} `json:"data"`
	}

	vars := map[string]any{"search": query, "perPage": limit}
	if err := c.post(ctx, searchQuery, vars, &resp); err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(resp.Data.Page.Media), "duration_ms", time.Since(start).Milliseconds())
	}

	return resp.Data.Page.Media, nil
}

// GetMedia fetches one anime by AniList id, including its streaming
// episode list.
func (c *Client) GetMedia(ctx context.Context, id int) (*Media, error) {
	var resp struct {
		Data struct {
			Media *Media `json:"Media"`
		} `json:"data"`
	}

	if err := c.post(ctx, mediaQuery, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Media == nil {
		return nil, ErrNotFound
	}
	return resp.Data.Media, nil
}

// post executes one GraphQL request.
func (c *Client) post(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("AniList API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
