package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/mediashelf/internal/provider"
	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/pkg/mediafile"
)

const (
	defaultSearchLimit = 5
	defaultMaxRetries  = 3
	defaultRetryBase   = time.Second
)

// Engine matches scanned media units against metadata providers,
// reusing cached records when the cached title still covers the unit.
type Engine struct {
	providers   []provider.Provider
	log         *slog.Logger
	searchLimit int
	maxRetries  int
	retryBase   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for reconciliation decisions.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithSearchLimit caps how many candidates each provider is asked for.
func WithSearchLimit(n int) Option {
	return func(e *Engine) {
		e.searchLimit = n
	}
}

// WithRetryPolicy overrides the rate-limit retry count and backoff base.
func WithRetryPolicy(maxRetries int, base time.Duration) Option {
	return func(e *Engine) {
		e.maxRetries = maxRetries
		e.retryBase = base
	}
}

// NewEngine creates a reconciliation engine. Providers are consulted in
// the order given; the first acceptable candidate wins.
func NewEngine(providers []provider.Provider, opts ...Option) *Engine {
	e := &Engine{
		providers:   providers,
		searchLimit: defaultSearchLimit,
		maxRetries:  defaultMaxRetries,
		retryBase:   defaultRetryBase,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile produces the series record for one media unit. A nil
// existing record means first contact; otherwise the cached record is
// reused when its title still matches and its poster is already local.
// The returned record may have zero file episodes; the caller purges
// those before persisting.
func (e *Engine) Reconcile(ctx context.Context, unit *scanner.MediaUnit, existing *SeriesRecord) *SeriesRecord {
	if e.cacheValid(unit, existing) {
		if e.log != nil {
			e.log.Debug("cache hit", "unit", unit.ID, "title", existing.Title)
		}
		return e.refresh(unit, existing)
	}

	candidate, prov := e.findCandidate(ctx, unit)
	if candidate == nil {
		if e.log != nil {
			e.log.Info("no provider match, keeping local record", "unit", unit.ID, "name", unit.Name)
		}
		return e.localRecord(unit)
	}

	episodes, err := e.fetchEpisodes(ctx, prov, candidate.ID)
	if err != nil {
		if e.log != nil {
			e.log.Warn("episode fetch failed, synthesizing placeholders",
				"unit", unit.ID, "provider", prov.Name(), "error", err)
		}
		episodes = placeholderEpisodes(unit.CanonicalEpisodeCount())
	}

	rec := &SeriesRecord{
		ID:         unit.ID,
		Title:      candidate.Title,
		Kind:       unit.Kind,
		Overview:   candidate.Overview,
		Genres:     candidate.Genres,
		PosterURL:  candidate.PosterURL,
		BannerURL:  candidate.BannerURL,
		Provider:   prov.Name(),
		ProviderID: candidate.ID,
		FolderPath: unit.Path,
		UpdatedAt:  time.Now(),
		Episodes:   mergeEpisodes(episodes, unit.Files),
	}
	return rec
}

// cacheValid implements the cache-trust decision: the record must carry
// both a title and a locally cached poster, and the titles must match
// under the normalized comparison. Short names always force a re-fetch.
func (e *Engine) cacheValid(unit *scanner.MediaUnit, existing *SeriesRecord) bool {
	if existing == nil || existing.Title == "" || existing.PosterPath == "" {
		return false
	}
	return mediafile.TitlesMatch(existing.Title, unit.Name)
}

// refresh keeps the cached provider fields and rebuilds the file side
// of the episode list from the current scan.
func (e *Engine) refresh(unit *scanner.MediaUnit, existing *SeriesRecord) *SeriesRecord {
	rec := *existing
	rec.FolderPath = unit.Path
	rec.UpdatedAt = time.Now()

	provEps := make([]provider.Episode, 0, len(existing.Episodes))
	for _, ep := range existing.Episodes {
		if !ep.Number.IsWhole() {
			// Fractional entries came from local files, not the
			// provider; the current scan regenerates them.
			continue
		}
		provEps = append(provEps, provider.Episode{
			Season:       seasonOrZero(ep.Season),
			Number:       int(ep.Number),
			Title:        ep.Title,
			AirDate:      ep.AirDate,
			ThumbnailURL: ep.ThumbnailURL,
		})
	}
	rec.Episodes = mergeEpisodes(provEps, unit.Files)
	restoreThumbPaths(existing.Episodes, rec.Episodes)
	return &rec
}

// restoreThumbPaths carries cached thumbnail copies across a refresh.
// The provider episode shape has no local-path field, so the merge
// rebuilds episodes without them.
func restoreThumbPaths(old, merged []EpisodeRecord) {
	type epKey struct {
		season int
		number mediafile.Number
	}
	paths := make(map[epKey]string, len(old))
	for _, ep := range old {
		if ep.ThumbPath != "" {
			paths[epKey{seasonOrZero(ep.Season), ep.Number}] = ep.ThumbPath
		}
	}
	for i := range merged {
		if merged[i].ThumbPath == "" {
			merged[i].ThumbPath = paths[epKey{seasonOrZero(merged[i].Season), merged[i].Number}]
		}
	}
}

// findCandidate walks the providers in priority order and returns the
// first acceptable candidate, with the provider that produced it.
func (e *Engine) findCandidate(ctx context.Context, unit *scanner.MediaUnit) (*provider.Candidate, provider.Provider) {
	query := searchQuery(unit)
	want := unit.CanonicalEpisodeCount()

	for _, prov := range e.providers {
		var candidates []provider.Candidate
		err := provider.Retry(ctx, e.maxRetries, e.retryBase, isRateLimited, func() error {
			var err error
			candidates, err = prov.Search(ctx, query, e.searchLimit)
			return err
		})
		if err != nil {
			if errors.Is(err, provider.ErrRateLimited) {
				if e.log != nil {
					e.log.Warn("provider rate limited, trying next",
						"provider", prov.Name(), "query", query)
				}
			} else if !errors.Is(err, provider.ErrNotFound) {
				if e.log != nil {
					e.log.Warn("provider search failed",
						"provider", prov.Name(), "query", query, "error", err)
				}
			}
			continue
		}

		if c := acceptCandidate(candidates, want); c != nil {
			if e.log != nil {
				e.log.Info("matched", "provider", prov.Name(), "title", c.Title,
					"confidence", matchConfidence(query, c))
				if c.Episodes == nil {
					e.log.Info("accepted candidate with unknown episode count",
						"provider", prov.Name(), "title", c.Title)
				}
			}
			return c, prov
		}
	}
	return nil, nil
}

// acceptCandidate picks from a ranked candidate list: first one whose
// status allows a match and whose episode count covers the local count.
// If none covers it, the first acceptable candidate with an unknown
// count is a lower-confidence fallback.
func acceptCandidate(candidates []provider.Candidate, want int) *provider.Candidate {
	var unknown *provider.Candidate
	for i := range candidates {
		c := &candidates[i]
		if !c.Status.Acceptable() {
			continue
		}
		if c.Episodes != nil && *c.Episodes >= want {
			return c
		}
		if c.Episodes == nil && unknown == nil {
			unknown = c
		}
	}
	return unknown
}

func (e *Engine) fetchEpisodes(ctx context.Context, prov provider.Provider, id string) ([]provider.Episode, error) {
	var episodes []provider.Episode
	err := provider.Retry(ctx, e.maxRetries, e.retryBase, isRateLimited, func() error {
		var err error
		episodes, err = prov.Episodes(ctx, id)
		return err
	})
	return episodes, err
}

// localRecord builds a record from local files alone, with the derived
// name as title and no remote fields.
func (e *Engine) localRecord(unit *scanner.MediaUnit) *SeriesRecord {
	rec := &SeriesRecord{
		ID:         unit.ID,
		Title:      unit.Name,
		Kind:       unit.Kind,
		FolderPath: unit.Path,
		UpdatedAt:  time.Now(),
	}
	for _, f := range unit.Files {
		rec.Episodes = append(rec.Episodes, localEpisode(f))
	}
	return rec
}

// searchQuery builds the provider search string. Season and part are
// appended only when greater than one; "Season 1" and "Part 1" degrade
// generic search results.
func searchQuery(unit *scanner.MediaUnit) string {
	q := unit.Name
	if unit.Part != nil && *unit.Part > 1 {
		q = fmt.Sprintf("%s Part %d", q, *unit.Part)
	} else if unit.Season != nil && *unit.Season > 1 {
		q = fmt.Sprintf("%s Season %d", q, *unit.Season)
	}
	return q
}

// placeholderEpisodes synthesizes generic entries when a match was
// accepted but its episode list could not be fetched.
func placeholderEpisodes(count int) []provider.Episode {
	episodes := make([]provider.Episode, 0, count)
	for k := 1; k <= count; k++ {
		episodes = append(episodes, provider.Episode{
			Number: k,
			Title:  fmt.Sprintf("Episode %d", k),
		})
	}
	return episodes
}

// matchConfidence grades the accepted candidate's title against the
// search query, across the primary and alternate titles.
func matchConfidence(query string, c *provider.Candidate) string {
	score := mediafile.BestSimilarity(query, append([]string{c.Title}, c.AltTitles...)...)
	return mediafile.ConfidenceFor(score).String()
}

func isRateLimited(err error) bool {
	return errors.Is(err, provider.ErrRateLimited)
}

func seasonOrZero(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}
