// Package images maintains a local cache of provider artwork, keyed by
// a hash of the source URL so repeated scans never re-download a poster
// that is already on disk.
package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 5
	batchPause = 250 * time.Millisecond
)

// Cache downloads and stores remote images under a single directory.
type Cache struct {
	dir    string
	client *http.Client
	log    *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cache *Cache) {
		cache.client = c
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(cache *Cache) {
		cache.log = log
	}
}

// New creates an image cache rooted at dir, creating it if needed.
func New(dir string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	c := &Cache{
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Path returns the cache path an image URL maps to, whether or not it
// has been downloaded yet.
func (c *Cache) Path(url string) string {
	sum := sha256.Sum256([]byte(url))
	name := hex.EncodeToString(sum[:8])
	if ext := strings.ToLower(path.Ext(path.Base(url))); ext != "" && len(ext) <= 5 {
		name += ext
	} else {
		name += ".jpg"
	}
	return filepath.Join(c.dir, name)
}

// Download fetches one image into the cache and returns its local path.
// Already-cached images are returned without a network call.
func (c *Cache) Download(ctx context.Context, url string) (string, error) {
	dst := c.Path(url)
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("move image into cache: %w", err)
	}
	return dst, nil
}

// DownloadAll fetches a set of URLs in batches, pausing briefly between
// batches to stay polite to image hosts. Failed downloads are logged
// and omitted from the result; one bad URL never fails the set.
func (c *Cache) DownloadAll(ctx context.Context, urls []string) map[string]string {
	paths := make(map[string]string, len(urls))

	for start := 0; start < len(urls); start += batchSize {
		end := min(start+batchSize, len(urls))
		batch := urls[start:end]

		results := make([]string, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, url := range batch {
			g.Go(func() error {
				p, err := c.Download(gctx, url)
				if err != nil {
					if c.log != nil {
						c.log.Warn("image download failed", "url", url, "error", err)
					}
					return nil
				}
				results[i] = p
				return nil
			})
		}
		_ = g.Wait()

		for i, url := range batch {
			if results[i] != "" {
				paths[url] = results[i]
			}
		}

		if end < len(urls) {
			select {
			case <-time.After(batchPause):
			case <-ctx.Done():
				return paths
			}
		}
	}
	return paths
}
