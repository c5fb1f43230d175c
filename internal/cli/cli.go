package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mvollmer/lanegraph/pkg/cache"
	"github.com/mvollmer/lanegraph/pkg/config"
	"github.com/mvollmer/lanegraph/pkg/pipeline"
	"github.com/mvollmer/lanegraph/pkg/source/git"
)

// appName is the application name used for directories and display.
const appName = "lanegraph"

// configPath is the value of the persistent --config flag.
var configPath string

// loadConfig reads the configured TOML file, or the defaults when
// --config was not given and no file exists at the default location.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = defaultConfigPath()
	}
	return config.Load(path)
}

// defaultConfigPath returns ~/.config/lanegraph/config.toml, honoring
// XDG_CONFIG_HOME when set.
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// newRunner creates a pipeline runner backed by the configured cache.
func newRunner(ctx context.Context, cfg config.Config, noCache bool, logger *log.Logger) (*pipeline.Runner, error) {
	c, err := openCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, logger), nil
}

// openCache builds the cache backend selected by the configuration.
// Backends that cannot be opened are not papered over; the caller decides
// whether to fall back to --no-cache.
func openCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "null":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(cfg.RedisURL)
	case "mongo":
		return cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// openSource opens the repository named by the first positional argument,
// defaulting to the current directory.
func openSource(args []string) (*git.Source, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	return git.Open(path)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/lanegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}
