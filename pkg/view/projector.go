// Package view maps node types, statuses and edges to a fixed visual
// encoding. Every lookup is total: unknown values get a default style.
package view

import (
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// Shape is the outline a renderer draws a node with
type Shape string

const (
	ShapeRounded  Shape = "rounded"
	ShapeAccented Shape = "accented" // rounded with a heavy left border
	ShapePill     Shape = "pill"
	ShapeDiamond  Shape = "diamond"
)

// NodeStyle is the encoding of a node type. Colours are hex strings.
type NodeStyle struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Shape       Shape  `json:"shape"`
	Icon        string `json:"icon"`
	Fill        string `json:"fill"`
	Border      string `json:"border"`
	Accent      string `json:"accent"` // minimap and legend swatch
}

// StatusStyle is the encoding of a status
type StatusStyle struct {
	Indicator   string `json:"indicator"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// EdgeStyle is the encoding of an edge
type EdgeStyle struct {
	Stroke     string  `json:"stroke"`
	Width      float64 `json:"width"`
	Animated   bool    `json:"animated"`
	Dash       string  `json:"dash,omitempty"` // SVG dasharray, empty = solid
	LabelColor string  `json:"labelColor"`
	LabelSize  int     `json:"labelSize"`
}

const (
	criticalStroke    = "#ef4444"
	nonCriticalStroke = "#6b7280"
	edgeLabelColor    = "#374151"
	edgeLabelSize     = 12
)

// NodeStyleFor returns the style of a node type
func NodeStyleFor(t mapmodel.DocType) NodeStyle {
	switch t {
	case mapmodel.TypePolicy:
		return NodeStyle{"Policy", "High-level organizational commitments and direction", ShapeAccented, "🛡️", "#eff6ff", "#3b82f6", "#3b82f6"}
	case mapmodel.TypeProcedure:
		return NodeStyle{"Procedure", "Step-by-step processes and workflows", ShapeRounded, "⚙️", "#f0fdf4", "#bbf7d0", "#10b981"}
	case mapmodel.TypeWorkInstruction:
		return NodeStyle{"Work Instruction", "Detailed task-specific guidance", ShapePill, "📋", "#faf5ff", "#e9d5ff", "#8b5cf6"}
	case mapmodel.TypeSOP:
		return NodeStyle{"SOP", "Standard operating procedures", ShapeRounded, "✅", "#eef2ff", "#c7d2fe", "#6366f1"}
	case mapmodel.TypeRiskAssessment:
		return NodeStyle{"Risk Assessment", "Risk identification and control measures", ShapeDiamond, "⚠️", "#fff7ed", "#fed7aa", "#f59e0b"}
	case mapmodel.TypeForm:
		return NodeStyle{"Form", "Documentation templates and data collection", ShapeRounded, "📄", "#fdf2f8", "#fbcfe8", "#ec4899"}
	case mapmodel.TypeRecord:
		return NodeStyle{"Record", "Completed documentation and evidence", ShapeRounded, "📁", "#f0fdfa", "#99f6e4", "#14b8a6"}
	case mapmodel.TypeTraining:
		return NodeStyle{"Training", "Competency development programs", ShapeRounded, "🎓", "#fefce8", "#fef08a", "#eab308"}
	case mapmodel.TypeExternalStandard:
		return NodeStyle{"External Standard", "Industry standards and regulations", ShapeRounded, "🔗", "#f9fafb", "#e5e7eb", "#6b7280"}
	default:
		return DefaultNodeStyle()
	}
}

// DefaultNodeStyle is used for types outside the known set
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{"Document", "Unclassified document", ShapeRounded, "📄", "#ffffff", "#e5e7eb", "#6b7280"}
}

// StatusStyleFor returns the style of a status; unknown values look like draft
func StatusStyleFor(s mapmodel.Status) StatusStyle {
	switch s {
	case mapmodel.StatusGreen:
		return StatusStyle{"#22c55e", "Green (Approved)", "Active and compliant"}
	case mapmodel.StatusAmber:
		return StatusStyle{"#eab308", "Amber (Pending)", "Under review or approval"}
	case mapmodel.StatusRed:
		return StatusStyle{"#ef4444", "Red (Issues)", "Non-compliant or requires attention"}
	case mapmodel.StatusArchived:
		return StatusStyle{"#4b5563", "Archived", "No longer active"}
	default:
		return StatusStyle{"#9ca3af", "Draft", "In development"}
	}
}

// DashFor returns the dash pattern of a relationship kind
func DashFor(r mapmodel.Relationship) string {
	switch r {
	case mapmodel.RelOutputToInput:
		return ""
	case mapmodel.RelPrerequisite:
		return "8 4"
	case mapmodel.RelControl:
		return "4 4"
	case mapmodel.RelEvidence:
		return "2 4"
	case mapmodel.RelEscalation:
		return "12 4 2 4"
	case mapmodel.RelReference:
		return "2 2"
	case mapmodel.RelSupports:
		return "6 3"
	case mapmodel.RelGoverns:
		return "10 5"
	default:
		return "6 3"
	}
}

// EdgeStyleFor returns the style of an edge: emphasis from criticality,
// dash from relationship
func EdgeStyleFor(e mapmodel.Edge) EdgeStyle {
	style := EdgeStyle{
		Stroke:     nonCriticalStroke,
		Width:      2,
		Dash:       DashFor(e.Relationship),
		LabelColor: edgeLabelColor,
		LabelSize:  edgeLabelSize,
	}
	if e.IsCritical() {
		style.Stroke = criticalStroke
		style.Width = 3
		style.Animated = true
	}
	return style
}

// Node is a node with its encoding
type Node struct {
	mapmodel.Node
	Style       NodeStyle   `json:"style"`
	StatusStyle StatusStyle `json:"statusStyle"`
}

// Edge is an edge with its encoding
type Edge struct {
	mapmodel.Edge
	Style EdgeStyle `json:"style"`
}

// DecorateNodes pairs each node with its style, preserving order
func DecorateNodes(nodes []mapmodel.Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{Node: n, Style: NodeStyleFor(n.Type), StatusStyle: StatusStyleFor(n.Status)}
	}
	return out
}

// DecorateEdges pairs each edge with its style, preserving order
func DecorateEdges(edges []mapmodel.Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{Edge: e, Style: EdgeStyleFor(e)}
	}
	return out
}
