package session

import (
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/validation"
	"github.com/dd0wney/cluso-msmap/pkg/view"
)

// DragStop records pos as nodeID's override. The store writes it in the
// background; nothing is returned and nothing the backend does reaches
// the caller. Non-finite coordinates are ignored.
func (s *Session) DragStop(nodeID string, pos mapmodel.Position) {
	if s.store == nil || nodeID == "" {
		return
	}
	if err := validation.ValidatePosition(nodeID, pos); err != nil {
		s.logger.Warn("ignoring invalid drag position", logging.NodeID(nodeID), logging.Error(err))
		return
	}
	s.store.Set(nodeID, pos)

	if s.store.Preferences().LayoutMode != layout.ModeManual {
		s.store.UpdatePreferences(func(p *layout.Preferences) { p.LayoutMode = layout.ModeManual })
	}
}

// Position resolves where nodeID is drawn: its override, else its authored
// position, else the fallback layout's coordinate
func (s *Session) Position(nodeID string) (layout.Placement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Get(nodeID)
}

// Positions resolves every loaded node
func (s *Session) Positions() map[string]layout.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.All()
}

// LayoutMode returns the persisted layout mode
func (s *Session) LayoutMode() layout.Mode {
	if s.store == nil {
		return layout.ModeAuto
	}
	return s.store.Preferences().LayoutMode
}

// SetLayoutMode persists mode and recomputes fallback positions for it
func (s *Session) SetLayoutMode(mode layout.Mode) {
	if s.store == nil {
		return
	}
	s.store.UpdatePreferences(func(p *layout.Preferences) { p.LayoutMode = mode })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildResolver()
	s.logger.Info("layout mode changed", logging.String("mode", string(mode)))
}

// ResetLayout forgets every override and returns to automatic layout
func (s *Session) ResetLayout() {
	if s.store == nil {
		return
	}
	s.store.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildResolver()
	s.logger.Info("layout reset")
}

// Projection is the visible graph decorated for a rendering layer
type Projection struct {
	Nodes     []view.Node
	Edges     []view.Edge
	Positions map[string]layout.Placement
	Selection Selection
}

// Project decorates the current visible view with styles and positions
func (s *Session) Project() Projection {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.visible()
	positions := make(map[string]layout.Placement, len(res.Nodes))
	for _, n := range res.Nodes {
		if p, ok := s.resolver.Get(n.ID); ok {
			positions[n.ID] = p
		}
	}
	return Projection{
		Nodes:     view.DecorateNodes(res.Nodes),
		Edges:     view.DecorateEdges(res.Edges),
		Positions: positions,
		Selection: s.selection.clone(),
	}
}
