package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

var validProviders = map[string]bool{
	"anilist": true, "myanimelist": true, "tvdb": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if len(c.Scan.Roots) == 0 {
		errs = append(errs, "scan.roots: at least one library root must be configured")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be text or json; got %q", c.Log.Format))
	}

	usesTVDB := false
	for _, name := range c.Providers.Order {
		if !validProviders[name] {
			errs = append(errs, fmt.Sprintf("providers.order: unknown provider %q", name))
		}
		if name == "tvdb" {
			usesTVDB = true
		}
	}
	if usesTVDB && (c.Providers.TVDB == nil || c.Providers.TVDB.APIKey == "") {
		errs = append(errs, "providers.tvdb.api_key: required when tvdb is in providers.order")
	}
	if c.Providers.SearchLimit < 0 {
		errs = append(errs, fmt.Sprintf("providers.search_limit: must be positive, got %d", c.Providers.SearchLimit))
	}

	// Library path warnings (non-fatal)
	for _, root := range c.Scan.Roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("scan.roots: warning: directory %q does not exist", root))
		}
	}

	return errs
}
