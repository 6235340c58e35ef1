package layout

import (
	"math"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config FallbackConfig
}

// Compute places nodes evenly around a circle, starting at three o'clock
func (cl *CircularLayout) Compute(_ Graph, nodeIDs []string) map[string]mapmodel.Position {
	positions := make(map[string]mapmodel.Position, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	if len(nodeIDs) == 1 {
		positions[nodeIDs[0]] = mapmodel.Position{X: centerX, Y: centerY}
		return positions
	}

	radius := math.Max(math.Min(centerX, centerY)-cl.config.Padding, 0)
	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = mapmodel.Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}
