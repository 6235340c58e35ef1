package wizard

import (
	"fmt"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// minutesPerWorkday is the length of a working day in estimates
const minutesPerWorkday = 480

// MinutesFor is the effort estimate of one document of type t
func MinutesFor(t mapmodel.DocType) int {
	switch t {
	case mapmodel.TypePolicy:
		return 30
	case mapmodel.TypeProcedure:
		return 60
	case mapmodel.TypeWorkInstruction, mapmodel.TypeSOP:
		return 45
	case mapmodel.TypeRiskAssessment:
		return 90
	case mapmodel.TypeForm:
		return 15
	case mapmodel.TypeRecord:
		return 10
	case mapmodel.TypeTraining:
		return 120
	case mapmodel.TypeExternalStandard:
		return 0
	default:
		return 30
	}
}

// EstimateMinutes sums MinutesFor over path
func EstimateMinutes(path []mapmodel.Node) int {
	total := 0
	for _, n := range path {
		total += MinutesFor(n.Type)
	}
	return total
}

// FormatDuration renders minutes as "N minutes", "Hh Mm" or "N day(s)" of
// eight working hours
func FormatDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < minutesPerWorkday:
		h, m := minutes/60, minutes%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		days := (minutes + minutesPerWorkday - 1) / minutesPerWorkday
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}
