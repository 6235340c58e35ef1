package view

import (
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// LegendEntry is one row of the legend
type LegendEntry struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color"`
}

// Legend lists every type, status and edge emphasis in display order
type Legend struct {
	Types    []LegendEntry `json:"types"`
	Statuses []LegendEntry `json:"statuses"`
	Edges    []LegendEntry `json:"edges"`
}

// BuildLegend returns the legend for the fixed tables
func BuildLegend() Legend {
	legend := Legend{}

	for _, t := range mapmodel.DocTypes {
		s := NodeStyleFor(t)
		legend.Types = append(legend.Types, LegendEntry{
			Key: string(t), Label: s.Category, Description: s.Description, Icon: s.Icon, Color: s.Accent,
		})
	}

	for _, st := range mapmodel.Statuses {
		s := StatusStyleFor(st)
		legend.Statuses = append(legend.Statuses, LegendEntry{
			Key: string(st), Label: s.Label, Description: s.Description, Color: s.Indicator,
		})
	}

	legend.Edges = []LegendEntry{
		{Key: "critical", Label: "Critical Path", Description: "Essential process flow", Color: criticalStroke},
		{Key: "nonCritical", Label: "Reference", Description: "Supporting relationship", Color: nonCriticalStroke},
	}
	return legend
}
