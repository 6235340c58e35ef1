// Package config loads engine configuration from YAML with MSMAP_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-msmap/pkg/highlight"
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/validation"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete engine configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Map       MapConfig       `yaml:"map"`
	Layout    LayoutConfig    `yaml:"layout"`
	Highlight HighlightConfig `yaml:"highlight"`
}

// LogConfig configures the JSON logger
type LogConfig struct {
	Level string `yaml:"level"`
}

// MapConfig locates the map document
type MapConfig struct {
	Path          string        `yaml:"path"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// LayoutConfig configures the layout store and fallback placement
type LayoutConfig struct {
	Backend      string         `yaml:"backend"` // memory, file, badger, redis, postgres, s3
	Path         string         `yaml:"path"`
	RedisURL     string         `yaml:"redis_url"`
	PostgresURL  string         `yaml:"postgres_url"`
	S3           S3Config       `yaml:"s3"`
	KeyPrefix    string         `yaml:"key_prefix"`
	Compress     bool           `yaml:"compress"`
	PruneStale   bool           `yaml:"prune_stale"`
	WriteTimeout time.Duration  `yaml:"write_timeout"`
	Fallback     FallbackConfig `yaml:"fallback"`
}

// S3Config configures the S3 backend. Without keys the AWS default
// credential chain applies.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// FallbackConfig configures engine-assigned positions
type FallbackConfig struct {
	Mode    string  `yaml:"mode"` // auto, hierarchical, circular
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Padding float64 `yaml:"padding"`
	Spacing float64 `yaml:"spacing"`
}

// HighlightConfig bounds critical-path highlighting
type HighlightConfig struct {
	Direction string `yaml:"direction"` // both, upstream, downstream
	MaxDepth  int    `yaml:"max_depth"`
	MaxNodes  int    `yaml:"max_nodes"`
}

// Default returns the built-in configuration
func Default() *Config {
	fb := layout.DefaultFallbackConfig()
	return &Config{
		Log: LogConfig{Level: "info"},
		Map: MapConfig{WatchDebounce: 250 * time.Millisecond},
		Layout: LayoutConfig{
			Backend:      "memory",
			WriteTimeout: layout.DefaultWriteTimeout,
			Fallback: FallbackConfig{
				Mode:    string(layout.ModeAuto),
				Width:   fb.Width,
				Height:  fb.Height,
				Padding: fb.Padding,
				Spacing: fb.Spacing,
			},
		},
		Highlight: HighlightConfig{
			Direction: highlight.Both.String(),
			MaxDepth:  highlight.DefaultMaxDepth,
			MaxNodes:  highlight.DefaultMaxNodes,
		},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config")

	cv.OneOf("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"})
	cv.MinDuration("map.watch_debounce", c.Map.WatchDebounce, 0)

	cv.OneOf("layout.backend", c.Layout.Backend, []string{"memory", "file", "badger", "redis", "postgres", "s3"})
	cv.When(c.Layout.Backend == "file" || c.Layout.Backend == "badger", func(v *validation.ConfigValidator) {
		v.Required("layout.path", c.Layout.Path)
	})
	cv.When(c.Layout.Backend == "redis", func(v *validation.ConfigValidator) {
		v.Required("layout.redis_url", c.Layout.RedisURL)
	})
	cv.When(c.Layout.Backend == "postgres", func(v *validation.ConfigValidator) {
		v.Required("layout.postgres_url", c.Layout.PostgresURL)
	})
	cv.When(c.Layout.Backend == "s3", func(v *validation.ConfigValidator) {
		v.Required("layout.s3.bucket", c.Layout.S3.Bucket)
	})
	cv.When(c.Layout.S3.AccessKeyID != "", func(v *validation.ConfigValidator) {
		v.Required("layout.s3.secret_access_key", c.Layout.S3.SecretAccessKey)
	})
	cv.MinDuration("layout.write_timeout", c.Layout.WriteTimeout, 10*time.Millisecond)

	cv.OneOf("layout.fallback.mode", c.Layout.Fallback.Mode, []string{"auto", "manual", "hierarchical", "circular"})
	cv.PositiveFloat("layout.fallback.width", c.Layout.Fallback.Width)
	cv.PositiveFloat("layout.fallback.height", c.Layout.Fallback.Height)
	cv.PositiveFloat("layout.fallback.spacing", c.Layout.Fallback.Spacing)

	cv.OneOf("highlight.direction", c.Highlight.Direction, []string{"both", "upstream", "downstream"})
	cv.RangeInt("highlight.max_depth", c.Highlight.MaxDepth, 1, 100)
	cv.RangeInt("highlight.max_nodes", c.Highlight.MaxNodes, 0, 100000)

	if err := cv.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// BackendConfig returns the layout backend selection
func (c *Config) BackendConfig(logger logging.Logger) layout.BackendConfig {
	return layout.BackendConfig{
		Kind:        c.Layout.Backend,
		Path:        c.Layout.Path,
		RedisURL:    c.Layout.RedisURL,
		PostgresURL: c.Layout.PostgresURL,
		S3: layout.S3Options{
			Bucket:          c.Layout.S3.Bucket,
			Region:          c.Layout.S3.Region,
			Prefix:          c.Layout.S3.Prefix,
			Endpoint:        c.Layout.S3.Endpoint,
			AccessKeyID:     c.Layout.S3.AccessKeyID,
			SecretAccessKey: c.Layout.S3.SecretAccessKey,
		},
		Logger: logger,
	}
}

// StoreOptions returns the layout store options, without logger or metrics
func (c *Config) StoreOptions() layout.Options {
	return layout.Options{
		KeyPrefix:    c.Layout.KeyPrefix,
		Compress:     c.Layout.Compress,
		WriteTimeout: c.Layout.WriteTimeout,
	}
}

// FallbackLayout returns the fallback placement settings
func (c *Config) FallbackLayout() (layout.Mode, layout.FallbackConfig) {
	mode, err := layout.ParseMode(c.Layout.Fallback.Mode)
	if err != nil {
		mode = layout.ModeAuto
	}
	return mode, layout.FallbackConfig{
		Width:   c.Layout.Fallback.Width,
		Height:  c.Layout.Fallback.Height,
		Padding: c.Layout.Fallback.Padding,
		Spacing: c.Layout.Fallback.Spacing,
	}
}

// HighlightOptions returns the highlighter bounds
func (c *Config) HighlightOptions() highlight.Options {
	dir, err := highlight.ParseDirection(c.Highlight.Direction)
	if err != nil {
		dir = highlight.Both
	}
	return highlight.Options{Direction: dir, MaxDepth: c.Highlight.MaxDepth, MaxNodes: c.Highlight.MaxNodes}
}
