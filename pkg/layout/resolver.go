package layout

import (
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// Source says where a resolved position came from
type Source string

const (
	SourceOverride Source = "override"
	SourceAuthored Source = "authored"
	SourceFallback Source = "fallback"
)

// Placement is a resolved node position
type Placement struct {
	Position mapmodel.Position `json:"position"`
	Source   Source            `json:"source"`
}

// Overrides is the read side of a Store
type Overrides interface {
	Get(nodeID string) (mapmodel.Position, bool)
}

// Resolver picks, per node, the persisted override, else the authored
// position, else the fallback layout's coordinate. Overrides are read live
// so a drag is visible without rebuilding the resolver.
type Resolver struct {
	overrides Overrides
	order     []string
	authored  map[string]mapmodel.Position
	fallback  map[string]mapmodel.Position
}

// NewResolver computes fallback coordinates for nodes once
func NewResolver(overrides Overrides, nodes []mapmodel.Node, g Graph, fallback Layout) *Resolver {
	r := &Resolver{
		overrides: overrides,
		order:     make([]string, 0, len(nodes)),
		authored:  make(map[string]mapmodel.Position),
	}
	for _, n := range nodes {
		r.order = append(r.order, n.ID)
		if n.Position != nil {
			r.authored[n.ID] = *n.Position
		}
	}
	if fallback == nil {
		fallback = NewLayout(ModeAuto, DefaultFallbackConfig())
	}
	r.fallback = fallback.Compute(g, r.order)
	return r
}

// Get resolves nodeID. An override is returned even for an id that is not
// in the loaded graph; otherwise unknown ids report false.
func (r *Resolver) Get(nodeID string) (Placement, bool) {
	if r.overrides != nil {
		if pos, ok := r.overrides.Get(nodeID); ok {
			return Placement{Position: pos, Source: SourceOverride}, true
		}
	}
	if pos, ok := r.authored[nodeID]; ok {
		return Placement{Position: pos, Source: SourceAuthored}, true
	}
	if pos, ok := r.fallback[nodeID]; ok {
		return Placement{Position: pos, Source: SourceFallback}, true
	}
	return Placement{}, false
}

// All resolves every loaded node
func (r *Resolver) All() map[string]Placement {
	out := make(map[string]Placement, len(r.order))
	for _, id := range r.order {
		if p, ok := r.Get(id); ok {
			out[id] = p
		}
	}
	return out
}
