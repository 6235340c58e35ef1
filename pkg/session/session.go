// Package session ties the map engine together behind the call API a
// rendering layer drives: load a graph, change filters and search, select a
// node, and drop a dragged node.
//
// A Session holds one in-memory snapshot. Every input change recomputes the
// affected results in full; the filtered view is memoised until the next
// change. The only I/O is the layout store's background writer.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-msmap/pkg/filter"
	"github.com/dd0wney/cluso-msmap/pkg/graph"
	"github.com/dd0wney/cluso-msmap/pkg/highlight"
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/metrics"
	"github.com/dd0wney/cluso-msmap/pkg/wizard"
)

// Options configures a Session
type Options struct {
	ID        string // generated when empty
	Logger    logging.Logger
	Metrics   *metrics.Registry
	Highlight highlight.Options

	// FallbackMode places nodes without override or authored position when
	// the persisted layout mode is auto
	FallbackMode layout.Mode
	Fallback     layout.FallbackConfig

	// PruneStale drops overrides for ids missing from each loaded graph.
	// Off by default: stale overrides are kept and reused if the id returns.
	PruneStale bool
}

// Session is one user's view of a management system map
type Session struct {
	id      string
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
	store   *layout.Store

	mu       sync.Mutex
	model    *graph.Model
	catalogs wizard.Catalogs
	resolver *layout.Resolver
	loads    int

	query  filter.Query
	result filter.Result
	fresh  bool

	selected      string
	selection     Selection
	highlightPath bool
}

// New creates an empty session over store. View toggles start from the
// store's persisted preferences. The session does not own store.
func New(store *layout.Store, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Highlight.MaxDepth <= 0 {
		opts.Highlight.MaxDepth = highlight.DefaultMaxDepth
	}
	if opts.FallbackMode == "" {
		opts.FallbackMode = layout.ModeAuto
	}

	logger := logging.OrDefault(opts.Logger).With(logging.Component("session"), logging.SessionID(opts.ID))
	s := &Session{
		id:      opts.ID,
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
		store:   store,
		model:   graph.New(graph.WithLogger(opts.Logger)),
		query:   filter.DefaultQuery(),

		highlightPath: true,
	}

	if store != nil {
		prefs := store.Preferences()
		s.query.Settings = filter.Settings{
			ShowDependencies: prefs.ShowDependencies,
			ShowNonCritical:  prefs.ShowNonCritical,
			ShowExternal:     prefs.ShowExternal,
		}
		s.highlightPath = prefs.HighlightPath
	}
	s.rebuildResolver()
	return s
}

// ID identifies the session in logs
func (s *Session) ID() string {
	return s.id
}

// Load replaces the graph with nodes and edges. Dangling and invalid records
// are dropped and reported, never returned as errors. A selection whose
// node survives the reload is recomputed against the new graph.
func (s *Session) Load(nodes []mapmodel.Node, edges []mapmodel.Edge) *graph.LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(nodes, edges, wizard.Catalogs{})
}

// LoadDocument loads a decoded map document, including its wizard catalogs
func (s *Session) LoadDocument(doc *mapmodel.Document) *graph.LoadReport {
	if doc == nil {
		doc = &mapmodel.Document{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(doc.Nodes, doc.Edges, wizard.CatalogsFor(*doc))
}

func (s *Session) load(nodes []mapmodel.Node, edges []mapmodel.Edge, catalogs wizard.Catalogs) *graph.LoadReport {
	timer := logging.StartTimer(s.logger, "map loaded")

	report := s.model.Load(nodes, edges)
	if len(catalogs.Roles)+len(catalogs.Locations)+len(catalogs.Activities) == 0 {
		catalogs = wizard.CatalogsFor(mapmodel.Document{Nodes: s.model.Nodes()})
	}
	s.catalogs = catalogs

	kind := "initial"
	if s.loads > 0 {
		kind = "reload"
	}
	s.loads++
	s.metrics.RecordLoad(kind, report.NodesLoaded, report.EdgesLoaded,
		report.DroppedNodes(), report.DroppedEdges(), report.NormalizedStatuses)

	if s.opts.PruneStale && s.store != nil {
		s.store.Prune(s.model.NodeIDs())
	}

	s.rebuildResolver()
	s.fresh = false
	s.reselect()

	timer.End(logging.String("kind", kind),
		logging.Int("nodes", report.NodesLoaded),
		logging.Int("edges", report.EdgesLoaded))
	return report
}

// Node returns a loaded node
func (s *Session) Node(id string) (mapmodel.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Node(id)
}

// Stats summarises the loaded graph
func (s *Session) Stats() graph.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Stats()
}

// Catalogs returns the role, location and activity suggestions for the wizard
func (s *Session) Catalogs() wizard.Catalogs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogs
}

// Model exposes the loaded graph for read-only use
func (s *Session) Model() *graph.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// visible returns the memoised filter result, recomputing it when stale.
// Callers hold s.mu.
func (s *Session) visible() filter.Result {
	if s.fresh {
		return s.result
	}
	start := time.Now()
	s.result = filter.Apply(s.model, s.query)
	elapsed := time.Since(start)
	s.fresh = true

	s.metrics.RecordFilter(elapsed, len(s.result.Nodes), len(s.result.Edges))
	s.logger.Debug("filter evaluated",
		logging.Int("visible_nodes", len(s.result.Nodes)),
		logging.Int("visible_edges", len(s.result.Edges)),
		logging.Latency(elapsed))
	return s.result
}

func (s *Session) rebuildResolver() {
	mode := s.opts.FallbackMode
	if s.store != nil {
		if m := s.store.Preferences().LayoutMode; m != layout.ModeAuto && m != layout.ModeManual {
			mode = m
		}
	}
	s.resolver = layout.NewResolver(s.overrides(), s.model.Nodes(), s.model, layout.NewLayout(mode, s.opts.Fallback))
}

func (s *Session) overrides() layout.Overrides {
	if s.store == nil {
		return nil
	}
	return s.store
}
