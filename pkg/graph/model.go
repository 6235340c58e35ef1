// Package graph holds the authoritative node and edge collections of a
// management system map and answers adjacency queries over them.
package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/validation"
)

// Model is an immutable-after-load snapshot of the map graph. It is not safe
// for concurrent Load calls; reads after Load may be shared.
type Model struct {
	nodes     []mapmodel.Node
	nodeIndex map[string]int
	edges     []mapmodel.Edge
	edgeIndex map[string]int

	// node id -> indexes into edges, in load order
	outgoing map[string][]int
	incoming map[string][]int

	logger logging.Logger
	newID  func() string
}

// Option configures a Model
type Option func(*Model)

// WithLogger sets the logger used for data-quality warnings
func WithLogger(logger logging.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithIDGenerator replaces the generator used for edges without an id
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) { m.newID = fn }
}

// New creates an empty model
func New(opts ...Option) *Model {
	m := &Model{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[string]int),
		outgoing:  make(map[string][]int),
		incoming:  make(map[string][]int),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.OrDefault(m.logger).With(logging.Component("graph"))
	return m
}

// Load replaces the snapshot with the given nodes and edges. Invalid or
// duplicate nodes and edges whose endpoints are not loaded are excluded and
// reported; Load itself never fails.
func (m *Model) Load(nodes []mapmodel.Node, edges []mapmodel.Edge) *LoadReport {
	report := &LoadReport{}

	m.nodes = make([]mapmodel.Node, 0, len(nodes))
	m.nodeIndex = make(map[string]int, len(nodes))
	m.edges = make([]mapmodel.Edge, 0, len(edges))
	m.edgeIndex = make(map[string]int, len(edges))
	m.outgoing = make(map[string][]int)
	m.incoming = make(map[string][]int)

	for i := range nodes {
		node := cloneNode(nodes[i])
		if err := validation.ValidateNode(&node); err != nil {
			m.drop(report, LoadIssue{Entity: EntityNode, ID: node.ID, Index: i, Cause: fmt.Errorf("%w: %v", ErrInvalidNode, err)})
			continue
		}
		if _, exists := m.nodeIndex[node.ID]; exists {
			m.drop(report, LoadIssue{Entity: EntityNode, ID: node.ID, Index: i, Cause: ErrDuplicateNode})
			continue
		}
		if node.Status != "" && !node.Status.Valid() {
			m.logger.Warn("unknown node status normalised to draft",
				logging.NodeID(node.ID), logging.String("status", string(node.Status)))
			report.NormalizedStatuses++
		}
		node.Status = node.Status.Normalize()

		m.nodeIndex[node.ID] = len(m.nodes)
		m.nodes = append(m.nodes, node)
	}

	for i := range edges {
		edge := edges[i]
		if edge.Critical != nil {
			edge.Critical = mapmodel.Bool(*edge.Critical)
		}
		if err := validation.ValidateEdge(&edge); err != nil {
			m.drop(report, LoadIssue{Entity: EntityEdge, ID: edge.ID, Index: i, Cause: fmt.Errorf("%w: %v", ErrInvalidEdge, err)})
			continue
		}
		if _, ok := m.nodeIndex[edge.Source]; !ok {
			m.drop(report, LoadIssue{Entity: EntityEdge, ID: edge.ID, Index: i, Cause: fmt.Errorf("%w: %q", ErrDanglingSource, edge.Source)})
			continue
		}
		if _, ok := m.nodeIndex[edge.Target]; !ok {
			m.drop(report, LoadIssue{Entity: EntityEdge, ID: edge.ID, Index: i, Cause: fmt.Errorf("%w: %q", ErrDanglingTarget, edge.Target)})
			continue
		}
		if edge.ID == "" {
			edge.ID = m.newID()
			report.GeneratedEdgeIDs++
		}
		if _, exists := m.edgeIndex[edge.ID]; exists {
			m.drop(report, LoadIssue{Entity: EntityEdge, ID: edge.ID, Index: i, Cause: ErrDuplicateEdge})
			continue
		}

		idx := len(m.edges)
		m.edgeIndex[edge.ID] = idx
		m.edges = append(m.edges, edge)
		m.outgoing[edge.Source] = append(m.outgoing[edge.Source], idx)
		m.incoming[edge.Target] = append(m.incoming[edge.Target], idx)
	}

	report.NodesLoaded = len(m.nodes)
	report.EdgesLoaded = len(m.edges)

	m.logger.Info("graph loaded",
		logging.Int("nodes", report.NodesLoaded),
		logging.Int("edges", report.EdgesLoaded),
		logging.Int("dropped_nodes", report.DroppedNodes()),
		logging.Int("dropped_edges", report.DroppedEdges()))

	return report
}

func (m *Model) drop(report *LoadReport, issue LoadIssue) {
	report.Issues = append(report.Issues, issue)
	m.logger.Warn("excluded from graph",
		logging.String("entity", issue.Entity),
		logging.String("id", issue.ID),
		logging.Int("index", issue.Index),
		logging.Error(issue.Cause))
}

// Node returns the node with the given id
func (m *Model) Node(id string) (mapmodel.Node, error) {
	idx, ok := m.nodeIndex[id]
	if !ok {
		return mapmodel.Node{}, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return m.nodes[idx], nil
}

// HasNode reports whether id is loaded
func (m *Model) HasNode(id string) bool {
	_, ok := m.nodeIndex[id]
	return ok
}

// Nodes returns all loaded nodes in load order. The slice is shared; callers must not modify it.
func (m *Model) Nodes() []mapmodel.Node {
	return m.nodes
}

// Edges returns the validated edge set in load order. The slice is shared; callers must not modify it.
func (m *Model) Edges() []mapmodel.Edge {
	return m.edges
}

// NodeIDs returns every loaded node id in load order
func (m *Model) NodeIDs() []string {
	ids := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Outgoing returns edges whose source is nodeID
func (m *Model) Outgoing(nodeID string) []mapmodel.Edge {
	return m.collect(m.outgoing[nodeID])
}

// Incoming returns edges whose target is nodeID
func (m *Model) Incoming(nodeID string) []mapmodel.Edge {
	return m.collect(m.incoming[nodeID])
}

func (m *Model) collect(indexes []int) []mapmodel.Edge {
	if len(indexes) == 0 {
		return nil
	}
	out := make([]mapmodel.Edge, len(indexes))
	for i, idx := range indexes {
		out[i] = m.edges[idx]
	}
	return out
}

// Stats summarises the loaded graph
type Stats struct {
	Nodes         int
	Edges         int
	CriticalEdges int
	ByType        map[mapmodel.DocType]int
	ByStatus      map[mapmodel.Status]int
}

// Stats computes counts over the loaded graph
func (m *Model) Stats() Stats {
	s := Stats{
		Nodes:    len(m.nodes),
		Edges:    len(m.edges),
		ByType:   make(map[mapmodel.DocType]int),
		ByStatus: make(map[mapmodel.Status]int),
	}
	for _, n := range m.nodes {
		s.ByType[n.Type]++
		s.ByStatus[n.Status]++
	}
	for _, e := range m.edges {
		if e.IsCritical() {
			s.CriticalEdges++
		}
	}
	return s
}

func cloneNode(n mapmodel.Node) mapmodel.Node {
	n.Location = slices.Clone(n.Location)
	n.ISOClauses = slices.Clone(n.ISOClauses)
	n.Tags = slices.Clone(n.Tags)
	n.Roles = slices.Clone(n.Roles)
	n.Inputs = slices.Clone(n.Inputs)
	n.Outputs = slices.Clone(n.Outputs)
	if n.Position != nil {
		p := *n.Position
		n.Position = &p
	}
	if n.Link != nil {
		l := *n.Link
		n.Link = &l
	}
	return n
}
