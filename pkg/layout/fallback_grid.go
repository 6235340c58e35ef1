package layout

import (
	"math"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// GridLayout places nodes row by row in load order
type GridLayout struct {
	config FallbackConfig
}

// Compute arranges nodes on a near-square grid
func (gl *GridLayout) Compute(_ Graph, nodeIDs []string) map[string]mapmodel.Position {
	positions := make(map[string]mapmodel.Position, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return positions
	}

	columns := int(math.Ceil(math.Sqrt(float64(len(nodeIDs)))))
	for i, nodeID := range nodeIDs {
		row, col := i/columns, i%columns
		positions[nodeID] = mapmodel.Position{
			X: gl.config.Padding + float64(col)*gl.config.Spacing,
			Y: gl.config.Padding + float64(row)*gl.config.Spacing,
		}
	}
	return positions
}
