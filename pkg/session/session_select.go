package session

import (
	"maps"
	"slices"

	"github.com/dd0wney/cluso-msmap/pkg/highlight"
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
)

// Selection is what a node selection shows: the upstream trail leading to
// the node and the critical subtree around it
type Selection struct {
	NodeID     string
	Breadcrumb []string
	Highlight  highlight.Result
}

// Empty reports whether nothing is selected
func (s Selection) Empty() bool {
	return s.NodeID == ""
}

// clone copies the slices and depth map so callers cannot reach session state
func (s Selection) clone() Selection {
	s.Breadcrumb = slices.Clone(s.Breadcrumb)
	s.Highlight.NodeIDs = slices.Clone(s.Highlight.NodeIDs)
	s.Highlight.EdgeIDs = slices.Clone(s.Highlight.EdgeIDs)
	s.Highlight.Depth = maps.Clone(s.Highlight.Depth)
	return s
}

// Select makes nodeID the selected node. An empty or unknown id clears the
// selection and returns an empty Selection.
func (s *Session) Select(nodeID string) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nodeID
	s.reselect()
	return s.selection.clone()
}

// ClearSelection resets the highlight to empty
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.selection = Selection{}
}

// Selection returns the current selection
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.clone()
}

// HighlightPath reports whether selecting a node highlights its critical path
func (s *Session) HighlightPath() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlightPath
}

// SetHighlightPath turns critical-path highlighting on or off and persists
// the choice. Breadcrumbs are kept either way.
func (s *Session) SetHighlightPath(on bool) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if on != s.highlightPath {
		s.highlightPath = on
		if s.store != nil {
			s.store.UpdatePreferences(func(p *layout.Preferences) { p.HighlightPath = on })
		}
		s.logger.Debug("highlight path changed", logging.Bool("highlight_path", on))
		s.reselect()
	}
	return s.selection.clone()
}

// reselect recomputes the selection for s.selected. Callers hold s.mu.
func (s *Session) reselect() {
	if s.selected == "" {
		s.selection = Selection{}
		return
	}
	if !s.model.HasNode(s.selected) {
		s.logger.Debug("selected node not in graph, clearing selection", logging.NodeID(s.selected))
		s.selected = ""
		s.selection = Selection{}
		return
	}

	res := highlight.Result{Anchor: s.selected}
	if s.highlightPath {
		res = highlight.Highlight(s.model, s.selected, s.opts.Highlight)
		s.metrics.RecordHighlight(s.opts.Highlight.Direction.String(), len(res.NodeIDs), res.Truncated)
		if res.Truncated {
			s.logger.Debug("highlight truncated", logging.NodeID(s.selected), logging.Count(len(res.NodeIDs)))
		}
	}

	s.selection = Selection{
		NodeID:     s.selected,
		Breadcrumb: highlight.Breadcrumbs(s.model, s.selected),
		Highlight:  res,
	}
}
