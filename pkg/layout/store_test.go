package layout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/metrics"
)

// failingBackend fails every call
type failingBackend struct {
	err error
}

func (f failingBackend) Name() string                                { return "failing" }
func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Put(context.Context, string, []byte) error   { return f.err }
func (f failingBackend) Close() error                                { return nil }

// gatedBackend blocks every Put until the gate is opened and counts writes
type gatedBackend struct {
	*MemoryBackend
	gate chan struct{}

	mu   sync.Mutex
	puts int
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{MemoryBackend: NewMemoryBackend(), gate: make(chan struct{})}
}

func (g *gatedBackend) Put(ctx context.Context, key string, value []byte) error {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return ctx.Err()
	}
	g.mu.Lock()
	g.puts++
	g.mu.Unlock()
	return g.MemoryBackend.Put(ctx, key, value)
}

func (g *gatedBackend) putCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.puts
}

func openStore(t *testing.T, backend Backend, opts Options) *Store {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	s := Open(context.Background(), backend, opts)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTripAcrossReopen(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	s := Open(ctx, backend, Options{Logger: logging.NewNopLogger()})
	s.Set("P1", mapmodel.Position{X: 120.5, Y: -40})
	s.Set("R1", mapmodel.Position{X: 0, Y: 300})
	s.Set("P1", mapmodel.Position{X: 125, Y: -42})
	require.NoError(t, s.Close())

	reopened := openStore(t, backend, Options{})
	pos, ok := reopened.Get("P1")
	require.True(t, ok)
	assert.Equal(t, mapmodel.Position{X: 125, Y: -42}, pos)
	assert.Equal(t, 2, reopened.Len())

	raw, err := backend.Get(ctx, PositionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"P1":{"x":125,"y":-42},"R1":{"x":0,"y":300}}`, string(raw))
}

func TestStore_MissingKeyIsEmpty(t *testing.T) {
	rec := logging.NewRecorder()
	s := openStore(t, NewMemoryBackend(), Options{Logger: rec})

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, DefaultPreferences(), s.Preferences())
	assert.Zero(t, rec.Count(logging.WarnLevel), "a missing key is not a failure")
}

func TestStore_CorruptPayloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, PositionsKey, []byte("{not json")))
	require.NoError(t, backend.Put(ctx, PreferencesKey, []byte("\x00\x01garbage")))

	rec := logging.NewRecorder()
	reg := metrics.NewRegistry()
	s := openStore(t, backend, Options{Logger: rec, Metrics: reg})

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, DefaultPreferences(), s.Preferences())
	assert.Equal(t, 2, rec.Count(logging.WarnLevel))
}

func TestStore_SkipsInvalidPersistedPositions(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, PositionsKey, []byte(`{"ok":{"x":1,"y":1},"":{"x":2,"y":2}}`)))

	s := openStore(t, backend, Options{})
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("ok")
	assert.True(t, ok)
}

func TestStore_BackendFailuresAreSwallowed(t *testing.T) {
	rec := logging.NewRecorder()
	reg := metrics.NewRegistry()
	s := openStore(t, failingBackend{err: errors.New("quota exceeded")}, Options{Logger: rec, Metrics: reg})

	assert.Equal(t, 0, s.Len(), "unreadable backend means no overrides")

	s.Set("A", mapmodel.Position{X: 1, Y: 2})
	require.NoError(t, s.Flush(context.Background()))

	pos, ok := s.Get("A")
	assert.True(t, ok, "override stays in memory when the write fails")
	assert.Equal(t, mapmodel.Position{X: 1, Y: 2}, pos)

	assert.GreaterOrEqual(t, rec.Count(logging.WarnLevel), 3, "two failed reads and one failed write")
	assert.Zero(t, rec.Count(logging.ErrorLevel))
}

func TestStore_SetNeverBlocksAndCoalesces(t *testing.T) {
	backend := newGatedBackend()
	s := openStore(t, backend, Options{WriteTimeout: 10 * time.Second})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Set("N", mapmodel.Position{X: float64(i), Y: float64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Set blocked on a stalled backend")
	}

	close(backend.gate)
	require.NoError(t, s.Flush(context.Background()))

	assert.Less(t, backend.putCount(), 100, "changes must coalesce into fewer writes")

	raw, err := backend.MemoryBackend.Get(context.Background(), PositionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"N":{"x":99,"y":99}}`, string(raw), "last write carries the latest state")
}

func TestStore_WriteTimeout(t *testing.T) {
	backend := newGatedBackend()
	rec := logging.NewRecorder()
	s := openStore(t, backend, Options{Logger: rec, WriteTimeout: 20 * time.Millisecond})

	s.Set("A", mapmodel.Position{X: 1, Y: 1})
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 1, rec.Count(logging.WarnLevel), "timed out write is logged")
	assert.Equal(t, 0, backend.putCount())
}

func TestStore_Compression(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	s := Open(ctx, backend, Options{Compress: true, Logger: logging.NewNopLogger()})
	s.Set("A", mapmodel.Position{X: 10, Y: 20})
	require.NoError(t, s.Close())

	raw, err := backend.Get(ctx, PositionsKey)
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0], "payload should be snappy encoded")

	plain := openStore(t, backend, Options{})
	pos, ok := plain.Get("A")
	require.True(t, ok, "uncompressed store reads compressed payloads")
	assert.Equal(t, mapmodel.Position{X: 10, Y: 20}, pos)
}

func TestStore_KeyPrefix(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	s := Open(ctx, backend, Options{KeyPrefix: "site-b/", Logger: logging.NewNopLogger()})
	s.Set("A", mapmodel.Position{X: 1, Y: 1})
	require.NoError(t, s.Close())

	_, err := backend.Get(ctx, "site-b/"+PositionsKey)
	assert.NoError(t, err)
	_, err = backend.Get(ctx, PositionsKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PruneAndReset(t *testing.T) {
	s := openStore(t, NewMemoryBackend(), Options{})
	s.Set("keep", mapmodel.Position{X: 1, Y: 1})
	s.Set("stale", mapmodel.Position{X: 2, Y: 2})
	s.UpdatePreferences(func(p *Preferences) { p.LayoutMode = ModeManual })

	assert.Equal(t, 1, s.Prune([]string{"keep", "other"}))
	assert.Equal(t, 0, s.Prune([]string{"keep"}))
	_, ok := s.Get("stale")
	assert.False(t, ok)

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, ModeAuto, s.Preferences().LayoutMode)
}

func TestStore_PreferencesRoundTrip(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	s := Open(ctx, backend, Options{Logger: logging.NewNopLogger()})
	s.UpdatePreferences(func(p *Preferences) {
		p.ShowNonCritical = false
		p.LayoutMode = ModeHierarchical
		p.ChecklistProgress = map[string]bool{"item-1": true}
	})
	require.NoError(t, s.Close())

	reopened := openStore(t, backend, Options{})
	prefs := reopened.Preferences()
	assert.False(t, prefs.ShowNonCritical)
	assert.True(t, prefs.ShowDependencies)
	assert.Equal(t, ModeHierarchical, prefs.LayoutMode)
	assert.Equal(t, map[string]bool{"item-1": true}, prefs.ChecklistProgress)

	prefs.ChecklistProgress["item-2"] = true
	assert.Len(t, reopened.Preferences().ChecklistProgress, 1, "Preferences returns a copy")
}

func TestStore_PartialPreferencesKeepDefaults(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, PreferencesKey, []byte(`{"showExternal":false,"layoutMode":"spiral"}`)))

	s := openStore(t, backend, Options{})
	prefs := s.Preferences()
	assert.False(t, prefs.ShowExternal)
	assert.True(t, prefs.ShowDependencies)
	assert.True(t, prefs.HighlightPath, "documents written before highlightPath existed keep it on")
	assert.Equal(t, ModeAuto, prefs.LayoutMode, "unknown mode falls back to auto")
}

func TestStore_ClosedStore(t *testing.T) {
	s := Open(context.Background(), NewMemoryBackend(), Options{Logger: logging.NewNopLogger()})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	s.Set("A", mapmodel.Position{X: 1, Y: 1})
	_, ok := s.Get("A")
	assert.True(t, ok)
	assert.ErrorIs(t, s.Flush(context.Background()), ErrClosed)
}

func TestStore_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	s := openStore(t, NewMemoryBackend(), Options{Metrics: reg})

	s.Set("A", mapmodel.Position{X: 1, Y: 1})
	require.NoError(t, s.Flush(context.Background()))

	var count float64
	families, err := reg.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "msmap_layout_writes_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			count += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), count)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAuto, "Manual": ModeManual, "hierarchical": ModeHierarchical, "circular": ModeCircular} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("spiral")
	assert.Error(t, err)
}
