package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MSMAP_"

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from MSMAP_* variables. Malformed values are
// collected and returned together; well-formed ones are still applied.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	e := envReader{lookup: lookup}

	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("MAP_PATH", &c.Map.Path)
	e.boolean("MAP_WATCH", &c.Map.Watch)
	e.duration("MAP_WATCH_DEBOUNCE", &c.Map.WatchDebounce)

	e.str("LAYOUT_BACKEND", &c.Layout.Backend)
	e.str("LAYOUT_PATH", &c.Layout.Path)
	e.str("LAYOUT_REDIS_URL", &c.Layout.RedisURL)
	e.str("LAYOUT_POSTGRES_URL", &c.Layout.PostgresURL)
	e.str("LAYOUT_S3_BUCKET", &c.Layout.S3.Bucket)
	e.str("LAYOUT_S3_REGION", &c.Layout.S3.Region)
	e.str("LAYOUT_S3_PREFIX", &c.Layout.S3.Prefix)
	e.str("LAYOUT_S3_ENDPOINT", &c.Layout.S3.Endpoint)
	e.str("LAYOUT_KEY_PREFIX", &c.Layout.KeyPrefix)
	e.boolean("LAYOUT_COMPRESS", &c.Layout.Compress)
	e.boolean("LAYOUT_PRUNE_STALE", &c.Layout.PruneStale)
	e.duration("LAYOUT_WRITE_TIMEOUT", &c.Layout.WriteTimeout)
	e.str("LAYOUT_MODE", &c.Layout.Fallback.Mode)

	e.str("HIGHLIGHT_DIRECTION", &c.Highlight.Direction)
	e.integer("HIGHLIGHT_MAX_DEPTH", &c.Highlight.MaxDepth)
	e.integer("HIGHLIGHT_MAX_NODES", &c.Highlight.MaxNodes)

	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Layout.Backend = strings.ToLower(c.Layout.Backend)
	return errors.Join(e.errs...)
}

type envReader struct {
	lookup LookupFunc
	errs   []error
}

func (e *envReader) get(name string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) boolean(name string, dst *bool) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %q is not a boolean", EnvPrefix, name, v))
		return
	}
	*dst = b
}

func (e *envReader) integer(name string, dst *int) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %q is not an integer", EnvPrefix, name, v))
		return
	}
	*dst = n
}

func (e *envReader) duration(name string, dst *time.Duration) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %q is not a duration", EnvPrefix, name, v))
		return
	}
	*dst = d
}
