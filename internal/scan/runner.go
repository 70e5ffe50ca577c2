// Package scan orchestrates a full library pass: walk the roots,
// reconcile each media unit against the metadata engine, fetch artwork
// and thumbnails, then replace the persisted catalog in one step.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/vmunix/mediashelf/internal/events"
	"github.com/vmunix/mediashelf/internal/images"
	"github.com/vmunix/mediashelf/internal/metadata"
	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/internal/store"
	"github.com/vmunix/mediashelf/internal/thumbs"
)

// ErrScanInFlight is returned when a scan is requested while another
// one is still running. Overlapping scans would race on the store.
var ErrScanInFlight = errors.New("scan already in flight")

// defaultUnitDelay is the courtesy pause between successive units'
// provider calls, independent of per-call retry backoff.
const defaultUnitDelay = 500 * time.Millisecond

// Runner drives scans. Units are processed sequentially; provider APIs
// rate-limit per caller, so parallel fan-out would mostly back off.
type Runner struct {
	scanner   *scanner.Scanner
	engine    *metadata.Engine
	store     *store.Store
	images    *images.Cache     // may be nil
	thumbs    *thumbs.Extractor // may be nil
	bus       *events.Bus       // may be nil
	log       *slog.Logger
	unitDelay time.Duration

	mu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithImageCache enables artwork downloads into the given cache.
func WithImageCache(c *images.Cache) Option {
	return func(r *Runner) {
		r.images = c
	}
}

// WithThumbnails enables frame extraction for episodes that end up
// without a local thumbnail.
func WithThumbnails(e *thumbs.Extractor) Option {
	return func(r *Runner) {
		r.thumbs = e
	}
}

// WithBus publishes scan lifecycle events on the given bus.
func WithBus(bus *events.Bus) Option {
	return func(r *Runner) {
		r.bus = bus
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithUnitDelay overrides the pause between units.
func WithUnitDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.unitDelay = d
	}
}

// NewRunner creates a scan runner.
func NewRunner(sc *scanner.Scanner, engine *metadata.Engine, st *store.Store, opts ...Option) *Runner {
	r := &Runner{
		scanner:   sc,
		engine:    engine,
		store:     st,
		unitDelay: defaultUnitDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one full scan of the given roots. Only one scan may be
// in flight at a time; a second call returns ErrScanInFlight. A fatal
// failure leaves the previously persisted catalog untouched.
func (r *Runner) Run(ctx context.Context, roots []string) error {
	if !r.mu.TryLock() {
		return ErrScanInFlight
	}
	defer r.mu.Unlock()

	scanID := "scan-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	r.publish(ctx, events.NewScanStarted(scanID, roots))

	existing, err := r.store.Load(ctx)
	if err != nil {
		r.publish(ctx, events.NewScanFailed(scanID, err))
		return fmt.Errorf("load catalog: %w", err)
	}

	var units []*scanner.MediaUnit
	for _, root := range roots {
		found, err := r.scanner.Scan(ctx, root)
		if err != nil {
			r.publish(ctx, events.NewScanFailed(scanID, err))
			return fmt.Errorf("scan %s: %w", root, err)
		}
		units = append(units, found...)
	}

	records := make(map[string]*metadata.SeriesRecord, len(units))
	for i, unit := range units {
		// Cancellation is honored at unit boundaries only; a unit in
		// progress finishes its provider exchange.
		if err := ctx.Err(); err != nil {
			r.publish(ctx, events.NewScanFailed(scanID, err))
			return err
		}
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				r.publish(ctx, events.NewScanFailed(scanID, err))
				return err
			}
		}

		rec := r.engine.Reconcile(ctx, unit, existing[unit.ID])
		records[rec.ID] = rec

		if rec.Provider != "" {
			r.publish(ctx, events.NewSeriesResolved(rec.ID, rec.Title, rec.Provider, len(rec.Episodes)))
		} else {
			r.publish(ctx, events.NewSeriesLocalOnly(rec.ID, rec.Title))
		}
	}

	r.fetchArtwork(ctx, records)
	r.extractThumbs(ctx, records)

	if err := r.store.Replace(ctx, records); err != nil {
		r.publish(ctx, events.NewScanFailed(scanID, err))
		return fmt.Errorf("persist catalog: %w", err)
	}

	persisted := 0
	for _, rec := range records {
		if rec.FileEpisodeCount() > 0 {
			persisted++
		}
	}
	if r.log != nil {
		r.log.Info("scan complete", "units", len(units), "records", persisted)
	}
	r.publish(ctx, events.NewScanCompleted(scanID, len(units), persisted))
	return nil
}

// fetchArtwork downloads posters, banners, and episode thumbnails for
// records that have a remote URL but no local copy yet.
func (r *Runner) fetchArtwork(ctx context.Context, records map[string]*metadata.SeriesRecord) {
	if r.images == nil {
		return
	}

	var urls []string
	for _, rec := range records {
		if rec.PosterURL != "" && rec.PosterPath == "" {
			urls = append(urls, rec.PosterURL)
		}
		if rec.BannerURL != "" && rec.BannerPath == "" {
			urls = append(urls, rec.BannerURL)
		}
		for i := range rec.Episodes {
			ep := &rec.Episodes[i]
			if ep.ThumbnailURL != "" && ep.ThumbPath == "" {
				urls = append(urls, ep.ThumbnailURL)
			}
		}
	}
	if len(urls) == 0 {
		return
	}

	paths := r.images.DownloadAll(ctx, urls)
	for _, rec := range records {
		if p, ok := paths[rec.PosterURL]; ok {
			rec.PosterPath = p
		}
		if p, ok := paths[rec.BannerURL]; ok {
			rec.BannerPath = p
		}
		for i := range rec.Episodes {
			ep := &rec.Episodes[i]
			if p, ok := paths[ep.ThumbnailURL]; ok && ep.ThumbPath == "" {
				ep.ThumbPath = p
			}
		}
	}
}

// extractThumbs generates frames for file-backed episodes still missing
// a local thumbnail, one file at a time. Runs after fetchArtwork, so it
// also backfills episodes whose thumbnail download failed.
func (r *Runner) extractThumbs(ctx context.Context, records map[string]*metadata.SeriesRecord) {
	if r.thumbs == nil {
		return
	}
	for _, rec := range records {
		for i := range rec.Episodes {
			ep := &rec.Episodes[i]
			if ep.File == "" || ep.ThumbPath != "" {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p, err := r.thumbs.Extract(ctx, ep.File)
			if err != nil {
				if r.log != nil {
					r.log.Warn("thumbnail extraction failed", "file", ep.File, "error", err)
				}
				continue
			}
			ep.ThumbPath = p
		}
	}
}

func (r *Runner) pause(ctx context.Context) error {
	select {
	case <-time.After(r.unitDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) publish(ctx context.Context, e events.Event) {
	if r.bus != nil {
		r.bus.Publish(ctx, e)
	}
}
