// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Scan       ScanConfig       `toml:"scan"`
	Database   DatabaseConfig   `toml:"database"`
	Cache      CacheConfig      `toml:"cache"`
	Thumbnails ThumbnailsConfig `toml:"thumbnails"`
	Providers  ProvidersConfig  `toml:"providers"`
	Log        LogConfig        `toml:"log"`
}

type ScanConfig struct {
	Roots         []string `toml:"roots"`
	UnitDelay     duration `toml:"unit_delay"`
	WatchDebounce duration `toml:"watch_debounce"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type CacheConfig struct {
	ImagesDir string `toml:"images_dir"`
	ThumbsDir string `toml:"thumbs_dir"`
}

type ThumbnailsConfig struct {
	Enabled    bool   `toml:"enabled"`
	FFmpegPath string `toml:"ffmpeg_path"`
}

type ProvidersConfig struct {
	Order       []string    `toml:"order"`
	SearchLimit int         `toml:"search_limit"`
	TVDB        *TVDBConfig `toml:"tvdb"`
}

type TVDBConfig struct {
	APIKey string `toml:"api_key"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// duration wraps time.Duration so TOML strings like "500ms" decode.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d duration) Duration() time.Duration { return time.Duration(d) }

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with every field at its default value, ready
// to be adjusted and written back out.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/mediashelf.db"
	}
	if cfg.Cache.ImagesDir == "" {
		cfg.Cache.ImagesDir = "./data/images"
	}
	if cfg.Cache.ThumbsDir == "" {
		cfg.Cache.ThumbsDir = "./data/thumbs"
	}
	if cfg.Thumbnails.FFmpegPath == "" {
		cfg.Thumbnails.FFmpegPath = "ffmpeg"
	}
	if len(cfg.Providers.Order) == 0 {
		cfg.Providers.Order = []string{"anilist", "myanimelist", "tvdb"}
	}
	if cfg.Providers.SearchLimit == 0 {
		cfg.Providers.SearchLimit = 5
	}
	if cfg.Scan.UnitDelay == 0 {
		cfg.Scan.UnitDelay = duration(500 * time.Millisecond)
	}
	if cfg.Scan.WatchDebounce == 0 {
		cfg.Scan.WatchDebounce = duration(5 * time.Second)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}

// MissingEnvVars reports unresolved ${VAR} references in the raw file,
// used to produce a precise error before decoding fails confusingly.
func MissingEnvVars(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var missing []string
	for _, m := range envVarPattern.FindAllStringSubmatch(string(data), -1) {
		if _, ok := os.LookupEnv(m[1]); !ok {
			missing = append(missing, m[1])
		}
	}
	return missing
}
