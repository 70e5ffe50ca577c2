package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmunix/mediashelf/internal/anilist"
	"github.com/vmunix/mediashelf/internal/config"
	"github.com/vmunix/mediashelf/internal/events"
	"github.com/vmunix/mediashelf/internal/images"
	"github.com/vmunix/mediashelf/internal/jikan"
	"github.com/vmunix/mediashelf/internal/metadata"
	"github.com/vmunix/mediashelf/internal/provider"
	"github.com/vmunix/mediashelf/internal/scan"
	"github.com/vmunix/mediashelf/internal/scanner"
	"github.com/vmunix/mediashelf/internal/store"
	"github.com/vmunix/mediashelf/internal/thumbs"
	"github.com/vmunix/mediashelf/pkg/tvdb"
)

// loadConfig resolves the config path, loads the file, and aggregates
// unresolved env vars and validation problems into one error.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = discovered
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &config.ConfigError{
		Path:    path,
		Missing: config.MissingEnvVars(path),
		Errors:  cfg.Validate(),
	}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildProviders assembles the provider chain in configured order.
func buildProviders(cfg *config.Config, logger *slog.Logger) ([]provider.Provider, error) {
	var providers []provider.Provider
	for _, name := range cfg.Providers.Order {
		switch name {
		case "anilist":
			providers = append(providers,
				provider.NewAniList(anilist.New(anilist.WithLogger(logger.With("component", "anilist")))))
		case "myanimelist":
			providers = append(providers,
				provider.NewMAL(jikan.New(jikan.WithLogger(logger.With("component", "jikan")))))
		case "tvdb":
			if cfg.Providers.TVDB == nil || cfg.Providers.TVDB.APIKey == "" {
				return nil, fmt.Errorf("tvdb configured without an api key")
			}
			providers = append(providers,
				provider.NewTVDB(tvdb.New(cfg.Providers.TVDB.APIKey,
					tvdb.WithLogger(logger.With("component", "tvdb")))))
		default:
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	return providers, nil
}

// buildRunner wires the full scan pipeline from config. The returned
// cleanup closes the store and bus.
func buildRunner(cfg *config.Config, logger *slog.Logger, bus *events.Bus) (*scan.Runner, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	providers, err := buildProviders(cfg, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	engine := metadata.NewEngine(providers,
		metadata.WithLogger(logger.With("component", "engine")),
		metadata.WithSearchLimit(cfg.Providers.SearchLimit))

	opts := []scan.Option{
		scan.WithLogger(logger.With("component", "scan")),
		scan.WithUnitDelay(cfg.Scan.UnitDelay.Duration()),
		scan.WithBus(bus),
	}

	imgCache, err := images.New(cfg.Cache.ImagesDir,
		images.WithLogger(logger.With("component", "images")))
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	opts = append(opts, scan.WithImageCache(imgCache))

	if cfg.Thumbnails.Enabled {
		extractor, err := thumbs.New(cfg.Cache.ThumbsDir,
			thumbs.WithFFmpegPath(cfg.Thumbnails.FFmpegPath),
			thumbs.WithLogger(logger.With("component", "thumbs")))
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		opts = append(opts, scan.WithThumbnails(extractor))
	}

	runner := scan.NewRunner(
		scanner.New(logger.With("component", "scanner")),
		engine,
		st,
		opts...)

	cleanup := func() {
		_ = st.Close()
	}
	return runner, cleanup, nil
}
