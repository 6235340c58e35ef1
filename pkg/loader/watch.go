package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// DefaultDebounce is the quiet period after the last change before a reload
const DefaultDebounce = 250 * time.Millisecond

// WatchOptions configures Watch
type WatchOptions struct {
	Debounce time.Duration
	Logger   logging.Logger
}

// Watch calls fn with the re-decoded document each time the file at path
// changes, until ctx is cancelled. Bursts of events within the debounce
// period cause one reload. A document that fails to decode is logged and
// skipped, so fn only ever sees good documents.
//
// The parent directory is watched rather than the file so editors that save
// by rename keep triggering reloads.
func Watch(ctx context.Context, path string, opts WatchOptions, fn func(*mapmodel.Document)) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := logging.OrDefault(opts.Logger).With(logging.Component("loader"), logging.Path(path))

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching map document", logging.Duration("debounce", opts.Debounce))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(ev.Name)
			if name != target || ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("map document changed", logging.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.Error(err))

		case <-fire:
			fire = nil
			doc, err := LoadFile(path)
			if err != nil {
				logger.Warn("map document reload failed", logging.Error(err))
				continue
			}
			logger.Info("map document reloaded",
				logging.Int("nodes", len(doc.Nodes)), logging.Int("edges", len(doc.Edges)))
			fn(doc)
		}
	}
}
