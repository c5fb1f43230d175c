// Package config loads the optional lanegraph.toml configuration file
// and applies defaults for everything it leaves out.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mvollmer/lanegraph/pkg/layout"
)

// Sentinel errors for configuration loading.
var (
	// ErrUnknownBackend is returned for an unrecognized cache backend
	// name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrBadPremium is returned when a take-over premium is negative.
	ErrBadPremium = errors.New("take-over premium must not be negative")
)

// Duration wraps time.Duration so TOML can decode values like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the full application configuration.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// EngineConfig tunes the layout engine.
type EngineConfig struct {
	// Linear selects the single-column engine.
	Linear bool `toml:"linear"`

	HeadTakeoverPremium  float64 `toml:"head_takeover_premium"`
	ReuseTakeoverPremium float64 `toml:"reuse_takeover_premium"`
	HeadLookahead        int     `toml:"head_lookahead"`

	// Palette overrides the built-in branch color palette.
	Palette []string `toml:"palette"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "null", "redis", "mongo".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory.
	Dir string `toml:"dir"`

	// RedisURL is the redis backend's connection URL.
	RedisURL string `toml:"redis_url"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// TTL bounds entry lifetime; zero means no expiration.
	TTL Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// Debounce is the quiet period after a repository change before the
	// layout is recomputed and broadcast.
	Debounce Duration `toml:"debounce"`
}

// RenderConfig configures rendered output.
type RenderConfig struct {
	Format    string `toml:"format"`
	RowHeight int    `toml:"row_height"`
	LaneWidth int    `toml:"lane_width"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			HeadTakeoverPremium:  layout.DefaultHeadTakeoverPremium,
			ReuseTakeoverPremium: layout.DefaultReuseTakeoverPremium,
			HeadLookahead:        layout.DefaultHeadLookahead,
		},
		Cache: CacheConfig{
			Backend:         "file",
			MongoDatabase:   "lanegraph",
			MongoCollection: "layouts",
			TTL:             Duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:     ":8087",
			Debounce: Duration{250 * time.Millisecond},
		},
		Render: RenderConfig{
			Format:    "svg",
			RowHeight: 40,
			LaneWidth: 24,
		},
	}
}

// Load reads path and overlays it on the defaults. A missing file is
// not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "null", "redis", "mongo":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Cache.Backend)
	}
	if c.Engine.HeadTakeoverPremium < 0 || c.Engine.ReuseTakeoverPremium < 0 {
		return ErrBadPremium
	}
	return nil
}

// Layout converts the section into engine tuning.
func (e EngineConfig) Layout() layout.Config {
	return layout.Config{
		HeadTakeoverPremium:  e.HeadTakeoverPremium,
		ReuseTakeoverPremium: e.ReuseTakeoverPremium,
		HeadLookahead:        e.HeadLookahead,
		Palette:              e.Palette,
	}
}
