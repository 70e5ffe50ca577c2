// Package jikan provides a client for the Jikan REST API, an unofficial
// mirror of MyAnimeList.
package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.jikan.moe/v4"

// Sentinel errors for Jikan API responses.
var (
	ErrNotFound    = errors.New("anime not found")
	ErrRateLimited = errors.New("rate limited: too many requests")
)

// Anime is one MyAnimeList entry as reported by Jikan.
type Anime struct {
	MalID         int    `json:"mal_id"`
	Title         string `json:"title"`
	TitleEnglish  string `json:"title_english"`
	TitleJapanese string `json:"title_japanese"`
	Episodes      *int   `json:"episodes"` // nil when MAL does not know the count
	Status        string `json:"status"`   // "Finished Airing", "Currently Airing", "Not yet aired"
	Synopsis      string `json:"synopsis"`
	Genres        []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Images struct {
		JPG struct {
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

// Episode is one episode listing from Jikan.
type Episode struct {
	MalID int        `json:"mal_id"`
	Title string     `json:"title"`
	Aired *time.Time `json:"aired"`
}

// Client is a Jikan REST client.
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
		c.log = log.With("component", "jikan")
	}
}

// New creates a new Jikan client.
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
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Anime, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("/anime?q=%s&limit=%d", url.QueryEscape(query), limit)

	var resp struct {
		Data []Anime `json:"data"`
	}
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(resp.Data), "duration_ms", time.Since(start).Milliseconds())
	}

	return resp.Data, nil
}

// GetEpisodes fetches all episodes for an anime, handling pagination.
func (c *Client) GetEpisodes(ctx context.Context, malID int) ([]Episode, error) {
	var all []Episode
	page := 1

	for {
		endpoint := fmt.Sprintf("/anime/%d/episodes?page=%d", malID, page)

		var resp struct {
			Data       []Episode `json:"data"`
			Pagination struct {
				HasNextPage bool `json:"has_next_page"`
			} `json:"pagination"`
		}
		if err := c.get(ctx, endpoint, &resp); err != nil {
			return nil, err
		}

		all = append(all, resp.Data...)

		if !resp.Pagination.HasNextPage {
			break
		}
		page++

		// Safety limit to prevent infinite loops
		if page > 100 {
			if c.log != nil {
				c.log.Warn("hit pagination limit", "mal_id", malID, "pages", page)
			}
			break
		}
	}

	return all, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
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
		return fmt.Errorf("jikan API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
