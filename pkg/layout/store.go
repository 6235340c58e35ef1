package layout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/metrics"
	"github.com/dd0wney/cluso-msmap/pkg/validation"
)

const (
	// PositionsKey holds the JSON object nodeId -> {x, y}
	PositionsKey = "management-map/positions"
	// PreferencesKey holds the persisted Preferences
	PreferencesKey = "management-map/preferences"

	DefaultWriteTimeout = 5 * time.Second
)

// Options configures a Store
type Options struct {
	KeyPrefix    string        // prepended to both fixed keys
	Compress     bool          // snappy-compress written payloads
	WriteTimeout time.Duration // per backend write; <= 0 uses DefaultWriteTimeout
	Logger       logging.Logger
	Metrics      *metrics.Registry
}

type document uint8

const (
	docPositions document = 1 << iota
	docPreferences
)

// Store keeps position overrides and preferences in memory and mirrors them
// to a Backend from a single writer goroutine. Callers never wait on the
// backend: changes are applied in memory, then coalesced into whole-document
// writes that are attempted once. Backend failures are logged and counted.
type Store struct {
	backend Backend
	opts    Options
	logger  logging.Logger

	mu        sync.RWMutex
	positions map[string]mapmodel.Position
	prefs     Preferences
	pending   document
	closed    bool

	wake      chan struct{}
	flushes   chan chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Open reads the persisted documents from backend and starts the writer.
// A missing key, an unreachable backend or a corrupt payload all yield empty
// state; Open never fails. The Store owns backend and closes it on Close.
func Open(ctx context.Context, backend Backend, opts Options) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}

	s := &Store{
		backend: backend,
		opts:    opts,
		logger:  logging.OrDefault(opts.Logger).With(logging.Component("layout"), logging.Backend(backend.Name())),
		wake:    make(chan struct{}, 1),
		flushes: make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	s.positions = s.loadPositions(ctx)
	s.prefs = s.loadPreferences(ctx)
	s.opts.Metrics.SetLayoutOverrides(len(s.positions))

	s.logger.Info("layout store opened", logging.Count(len(s.positions)))

	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Store) key(k string) string {
	return s.opts.KeyPrefix + k
}

// read reports whether key held a decodable document
func (s *Store) read(ctx context.Context, key string, v any) bool {
	backend := s.backend.Name()

	data, err := s.backend.Get(ctx, s.key(key))
	if errors.Is(err, ErrNotFound) {
		s.opts.Metrics.RecordLayoutRead(backend, "miss")
		s.logger.Debug("no persisted layout document", logging.Key(key))
		return false
	}
	if err != nil {
		s.opts.Metrics.RecordLayoutRead(backend, "error")
		s.logger.Warn("layout read failed, continuing without it", logging.Key(key), logging.Error(err))
		return false
	}
	if err := decodeDocument(data, v); err != nil {
		s.opts.Metrics.RecordLayoutRead(backend, "corrupt")
		s.logger.Warn("layout document corrupt, ignoring it", logging.Key(key), logging.Error(err))
		return false
	}
	s.opts.Metrics.RecordLayoutRead(backend, "hit")
	return true
}

func (s *Store) loadPositions(ctx context.Context) map[string]mapmodel.Position {
	var stored map[string]mapmodel.Position
	if !s.read(ctx, PositionsKey, &stored) {
		return make(map[string]mapmodel.Position)
	}

	positions := make(map[string]mapmodel.Position, len(stored))
	for id, pos := range stored {
		if err := validation.ValidatePosition(id, pos); err != nil {
			s.logger.Warn("skipping invalid persisted position", logging.NodeID(id), logging.Error(err))
			continue
		}
		positions[id] = pos
	}
	return positions
}

func (s *Store) loadPreferences(ctx context.Context) Preferences {
	prefs := DefaultPreferences()
	if !s.read(ctx, PreferencesKey, &prefs) {
		return DefaultPreferences()
	}
	prefs.normalize()
	return prefs
}

// Get returns the override for nodeID
func (s *Store) Get(nodeID string) (mapmodel.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[nodeID]
	return pos, ok
}

// Positions returns a copy of all overrides
func (s *Store) Positions() map[string]mapmodel.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPositions(s.positions)
}

// Len returns the number of overrides
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

// Set records an override and schedules a write
func (s *Store) Set(nodeID string, pos mapmodel.Position) {
	if nodeID == "" {
		return
	}
	s.mu.Lock()
	s.positions[nodeID] = pos
	n := len(s.positions)
	s.mu.Unlock()

	s.opts.Metrics.SetLayoutOverrides(n)
	s.schedule(docPositions)
}

// Prune drops overrides for ids not in live and returns how many went
func (s *Store) Prune(live []string) int {
	keep := make(map[string]bool, len(live))
	for _, id := range live {
		keep[id] = true
	}

	s.mu.Lock()
	removed := 0
	for id := range s.positions {
		if !keep[id] {
			delete(s.positions, id)
			removed++
		}
	}
	n := len(s.positions)
	s.mu.Unlock()

	if removed > 0 {
		s.opts.Metrics.SetLayoutOverrides(n)
		s.logger.Info("pruned stale layout entries", logging.Count(removed))
		s.schedule(docPositions)
	}
	return removed
}

// Reset clears every override and returns the layout mode to auto
func (s *Store) Reset() {
	s.mu.Lock()
	s.positions = make(map[string]mapmodel.Position)
	s.prefs.LayoutMode = ModeAuto
	s.mu.Unlock()

	s.opts.Metrics.SetLayoutOverrides(0)
	s.schedule(docPositions | docPreferences)
}

// Preferences returns a copy of the current preferences
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.clone()
}

// UpdatePreferences applies fn to a copy of the preferences, stores the
// result and schedules a write
func (s *Store) UpdatePreferences(fn func(*Preferences)) {
	s.mu.Lock()
	p := s.prefs.clone()
	fn(&p)
	p.normalize()
	s.prefs = p
	s.mu.Unlock()

	s.schedule(docPreferences)
}

func (s *Store) schedule(docs document) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("layout store closed, change kept in memory only")
		return
	}
	coalesced := s.pending != 0
	s.pending |= docs
	s.mu.Unlock()

	if coalesced {
		s.opts.Metrics.RecordLayoutCoalesced()
		return
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.wake:
			s.writePending()
		case ack := <-s.flushes:
			s.writePending()
			close(ack)
		case <-s.done:
			s.writePending()
			return
		}
	}
}

func (s *Store) writePending() {
	s.mu.Lock()
	docs := s.pending
	s.pending = 0
	var positions map[string]mapmodel.Position
	var prefs Preferences
	if docs&docPositions != 0 {
		positions = copyPositions(s.positions)
	}
	if docs&docPreferences != 0 {
		prefs = s.prefs.clone()
	}
	s.mu.Unlock()

	if docs&docPositions != 0 {
		s.write(PositionsKey, positions)
	}
	if docs&docPreferences != 0 {
		s.write(PreferencesKey, prefs)
	}
}

func (s *Store) write(key string, v any) {
	backend := s.backend.Name()

	data, err := encodeDocument(v, s.opts.Compress)
	if err != nil {
		s.opts.Metrics.RecordLayoutWrite(backend, "error", 0)
		s.logger.Warn("layout encode failed", logging.Key(key), logging.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.WriteTimeout)
	defer cancel()

	start := time.Now()
	err = s.backend.Put(ctx, s.key(key), data)
	elapsed := time.Since(start)

	if err != nil {
		s.opts.Metrics.RecordLayoutWrite(backend, "error", elapsed)
		s.logger.Warn("layout write failed, change not persisted",
			logging.Key(key), logging.Error(err), logging.Latency(elapsed))
		return
	}
	s.opts.Metrics.RecordLayoutWrite(backend, "success", elapsed)
	s.logger.Debug("layout written", logging.Key(key), logging.Int("bytes", len(data)), logging.Latency(elapsed))
}

// Flush waits until every change made before the call has been handed to
// the backend. Write failures are logged, not returned.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	ack := make(chan struct{})
	select {
	case s.flushes <- ack:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes anything pending, stops the writer and closes the backend
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.done)
		s.wg.Wait()
		s.closeErr = s.backend.Close()
		s.logger.Debug("layout store closed")
	})
	return s.closeErr
}

func copyPositions(in map[string]mapmodel.Position) map[string]mapmodel.Position {
	out := make(map[string]mapmodel.Position, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
