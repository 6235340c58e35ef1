package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrInvalidNode    = errors.New("invalid node")
	ErrInvalidEdge    = errors.New("invalid edge")
	ErrDuplicateNode  = errors.New("duplicate node id")
	ErrDuplicateEdge  = errors.New("duplicate edge id")
	ErrDanglingSource = errors.New("edge source not loaded")
	ErrDanglingTarget = errors.New("edge target not loaded")
)

// Entity names used in LoadIssue
const (
	EntityNode = "node"
	EntityEdge = "edge"
)

// LoadIssue describes one record excluded from the usable graph at load time.
// Issues are data-quality findings, never load failures.
type LoadIssue struct {
	Entity string // EntityNode or EntityEdge
	ID     string // may be empty when the record had no id
	Index  int    // position of the record in the input slice
	Cause  error
}

// Error implements the error interface.
func (i LoadIssue) Error() string {
	if i.ID == "" {
		return fmt.Sprintf("%s at index %d: %v", i.Entity, i.Index, i.Cause)
	}
	return fmt.Sprintf("%s %q: %v", i.Entity, i.ID, i.Cause)
}

// Unwrap returns the underlying cause for errors.Is support.
func (i LoadIssue) Unwrap() error {
	return i.Cause
}

// LoadReport summarises a Load call
type LoadReport struct {
	NodesLoaded        int
	EdgesLoaded        int
	GeneratedEdgeIDs   int
	NormalizedStatuses int // unrecognised statuses replaced by draft
	Issues             []LoadIssue
}

// DroppedNodes counts node issues
func (r *LoadReport) DroppedNodes() int {
	return r.count(EntityNode)
}

// DroppedEdges counts edge issues
func (r *LoadReport) DroppedEdges() int {
	return r.count(EntityEdge)
}

func (r *LoadReport) count(entity string) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Entity == entity {
			n++
		}
	}
	return n
}
