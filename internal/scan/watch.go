package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long a library must stay quiet after the last
// filesystem event before a rescan fires. Downloads touch a file many
// times; one scan at the end is enough.
const defaultDebounce = 5 * time.Second

// Watcher triggers rescans when files change under the library roots.
type Watcher struct {
	runner   *Runner
	roots    []string
	debounce time.Duration
	log      *slog.Logger
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce overrides the quiet period before a rescan.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(log *slog.Logger) WatchOption {
	return func(w *Watcher) {
		w.log = log
	}
}

// NewWatcher creates a watcher that rescans roots via runner.
func NewWatcher(runner *Runner, roots []string, opts ...WatchOption) *Watcher {
	w := &Watcher{
		runner:   runner,
		roots:    roots,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch runs an initial scan, then blocks rescanning on filesystem
// changes until the context is canceled.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, root := range w.roots {
		if err := fsw.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	if err := w.rescan(ctx); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.log != nil {
				w.log.Debug("filesystem event", "op", event.Op.String(), "path", event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if w.log != nil {
				w.log.Warn("watcher error", "error", err)
			}

		case <-fire:
			timer = nil
			fire = nil
			if err := w.rescan(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) rescan(ctx context.Context) error {
	err := w.runner.Run(ctx, w.roots)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrScanInFlight):
		if w.log != nil {
			w.log.Debug("rescan skipped, scan already running")
		}
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		// A failed scan leaves the old catalog in place; keep
		// watching rather than exiting.
		if w.log != nil {
			w.log.Error("rescan failed", "error", err)
		}
		return nil
	}
}
