package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-msmap/pkg/logging"
)

// BackendConfig selects and configures a backend
type BackendConfig struct {
	Kind        string // memory, file, badger, redis, postgres, s3
	Path        string // directory for file and badger
	RedisURL    string
	PostgresURL string
	S3          S3Options
	Logger      logging.Logger
}

// NewBackend builds the backend named by cfg.Kind
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "memory":
		return NewMemoryBackend(), nil
	case "file":
		return NewFileBackend(cfg.Path)
	case "badger":
		return OpenBadger(BadgerOptions{Path: cfg.Path, Logger: cfg.Logger})
	case "redis":
		return NewRedisBackend(cfg.RedisURL)
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgresURL)
	case "s3":
		return NewS3Backend(ctx, cfg.S3)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Kind)
}
