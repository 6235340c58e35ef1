package layout

import (
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// FallbackConfig configures engine-assigned coordinates
type FallbackConfig struct {
	Width   float64 // Canvas width
	Height  float64 // Canvas height
	Padding float64 // Padding from edges
	Spacing float64 // Grid cell size
}

// DefaultFallbackConfig matches the canvas the map editor opens with
func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{Width: 1600, Height: 1000, Padding: 50, Spacing: 250}
}

// Graph is the adjacency the fallback layouts read
type Graph interface {
	Outgoing(nodeID string) []mapmodel.Edge
	Incoming(nodeID string) []mapmodel.Edge
}

// Layout assigns a coordinate to every id in nodeIDs. Implementations are
// deterministic: the same graph and ids always give the same positions.
type Layout interface {
	Compute(g Graph, nodeIDs []string) map[string]mapmodel.Position
}

// NewLayout returns the fallback layout for a mode. Auto and manual both
// place nodes on a grid.
func NewLayout(mode Mode, config FallbackConfig) Layout {
	def := DefaultFallbackConfig()
	if config.Width <= 0 {
		config.Width = def.Width
	}
	if config.Height <= 0 {
		config.Height = def.Height
	}
	if config.Padding < 0 {
		config.Padding = def.Padding
	}
	if config.Spacing <= 0 {
		config.Spacing = def.Spacing
	}

	switch mode {
	case ModeHierarchical:
		return &HierarchicalLayout{config: config}
	case ModeCircular:
		return &CircularLayout{config: config}
	default:
		return &GridLayout{config: config}
	}
}
