// Package highlight computes the critical-path subtree around a selected node.
package highlight

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// Direction selects which way edges are followed from the anchor
type Direction int

const (
	// Both follows incoming and outgoing critical edges
	Both Direction = iota
	// Upstream follows incoming edges: what the anchor depends on
	Upstream
	// Downstream follows outgoing edges: what depends on the anchor
	Downstream
)

func (d Direction) String() string {
	switch d {
	case Upstream:
		return "upstream"
	case Downstream:
		return "downstream"
	default:
		return "both"
	}
}

// ParseDirection parses "upstream", "downstream" or "both"
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return Both, nil
	case "upstream", "up":
		return Upstream, nil
	case "downstream", "down":
		return Downstream, nil
	}
	return Both, fmt.Errorf("unknown highlight direction %q", s)
}

// Graph is the adjacency view the highlighter walks
type Graph interface {
	HasNode(id string) bool
	Outgoing(nodeID string) []mapmodel.Edge
	Incoming(nodeID string) []mapmodel.Edge
}

// Options bounds the traversal
type Options struct {
	Direction Direction
	MaxDepth  int // hops from the anchor; <= 0 uses DefaultMaxDepth
	MaxNodes  int // 0 = unlimited; the anchor counts
}

const (
	DefaultMaxDepth = 10
	DefaultMaxNodes = 200
)

// DefaultOptions follows both directions up to ten hops and 200 nodes
func DefaultOptions() Options {
	return Options{Direction: Both, MaxDepth: DefaultMaxDepth, MaxNodes: DefaultMaxNodes}
}

// Result is the highlighted subtree. NodeIDs is in BFS order with the anchor
// first; every edge in EdgeIDs joins two nodes in NodeIDs.
type Result struct {
	Anchor    string
	NodeIDs   []string
	EdgeIDs   []string
	Depth     map[string]int
	Truncated bool
}

// Empty reports whether nothing is highlighted
func (r Result) Empty() bool {
	return len(r.NodeIDs) == 0
}

// HasNode reports whether id is highlighted
func (r Result) HasNode(id string) bool {
	_, ok := r.Depth[id]
	return ok
}

// HasEdge reports whether id is highlighted
func (r Result) HasEdge(id string) bool {
	for _, e := range r.EdgeIDs {
		if e == id {
			return true
		}
	}
	return false
}

type queueEntry struct {
	nodeID string
	depth  int
}

// Highlight walks critical edges breadth-first from nodeID. The visited set
// guarantees termination on cyclic graphs; each node appears at most once.
// An id absent from g yields an empty result.
func Highlight(g Graph, nodeID string, opts Options) Result {
	if nodeID == "" || !g.HasNode(nodeID) {
		return Result{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	res := Result{
		Anchor:  nodeID,
		NodeIDs: []string{nodeID},
		Depth:   map[string]int{nodeID: 0},
	}
	seenEdges := make(map[string]bool)

	queue := []queueEntry{{nodeID: nodeID, depth: 0}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, step := range neighbours(g, current.nodeID, opts.Direction) {
			if seenEdges[step.edgeID] {
				continue
			}
			if _, visited := res.Depth[step.nodeID]; visited {
				seenEdges[step.edgeID] = true
				res.EdgeIDs = append(res.EdgeIDs, step.edgeID)
				continue
			}
			if current.depth >= opts.MaxDepth {
				res.Truncated = true
				continue
			}
			if opts.MaxNodes > 0 && len(res.NodeIDs) >= opts.MaxNodes {
				res.Truncated = true
				continue
			}

			seenEdges[step.edgeID] = true
			res.EdgeIDs = append(res.EdgeIDs, step.edgeID)
			res.Depth[step.nodeID] = current.depth + 1
			res.NodeIDs = append(res.NodeIDs, step.nodeID)
			queue = append(queue, queueEntry{nodeID: step.nodeID, depth: current.depth + 1})
		}
	}

	return res
}

type step struct {
	edgeID string
	nodeID string
}

func neighbours(g Graph, nodeID string, dir Direction) []step {
	var out []step
	if dir == Downstream || dir == Both {
		for _, e := range g.Outgoing(nodeID) {
			if e.IsCritical() {
				out = append(out, step{edgeID: e.ID, nodeID: e.Target})
			}
		}
	}
	if dir == Upstream || dir == Both {
		for _, e := range g.Incoming(nodeID) {
			if e.IsCritical() {
				out = append(out, step{edgeID: e.ID, nodeID: e.Source})
			}
		}
	}
	return out
}
