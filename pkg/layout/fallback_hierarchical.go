package layout

import (
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// HierarchicalLayout arranges nodes in levels following edge direction
type HierarchicalLayout struct {
	config FallbackConfig
}

// Compute assigns levels breadth-first from the roots (nodes with no
// incoming edge inside nodeIDs). Nodes reachable only through a cycle start
// a new root at the next free level so every id gets a position.
func (hl *HierarchicalLayout) Compute(g Graph, nodeIDs []string) map[string]mapmodel.Position {
	positions := make(map[string]mapmodel.Position, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return positions
	}

	inSet := make(map[string]bool, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		inSet[nodeID] = true
	}

	roots := make([]string, 0)
	for _, nodeID := range nodeIDs {
		hasParent := false
		for _, e := range g.Incoming(nodeID) {
			if inSet[e.Source] && e.Source != nodeID {
				hasParent = true
				break
			}
		}
		if !hasParent {
			roots = append(roots, nodeID)
		}
	}

	levels := make([][]string, 0)
	visited := make(map[string]bool, len(nodeIDs))

	expand := func(start []string) {
		current := start
		for _, nodeID := range current {
			visited[nodeID] = true
		}
		for len(current) > 0 {
			levels = append(levels, current)
			next := make([]string, 0)
			for _, nodeID := range current {
				for _, e := range g.Outgoing(nodeID) {
					if inSet[e.Target] && !visited[e.Target] {
						visited[e.Target] = true
						next = append(next, e.Target)
					}
				}
			}
			current = next
		}
	}

	expand(roots)
	for _, nodeID := range nodeIDs {
		if !visited[nodeID] {
			expand([]string{nodeID})
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	if levelHeight < hl.config.Spacing/2 {
		levelHeight = hl.config.Spacing / 2
	}
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, nodeID := range level {
			x := hl.config.Padding + spacing*float64(nodeIdx+1)
			positions[nodeID] = mapmodel.Position{X: x, Y: y}
		}
	}
	return positions
}
