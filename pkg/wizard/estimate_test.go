package wizard

import (
	"testing"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0 minutes"},
		{45, "45 minutes"},
		{59, "59 minutes"},
		{60, "1h"},
		{90, "1h 30m"},
		{479, "7h 59m"},
		{480, "1 day"},
		{481, "2 days"},
		{1440, "3 days"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestMinutesFor(t *testing.T) {
	tests := map[mapmodel.DocType]int{
		mapmodel.TypePolicy:           30,
		mapmodel.TypeProcedure:        60,
		mapmodel.TypeWorkInstruction:  45,
		mapmodel.TypeSOP:              45,
		mapmodel.TypeRiskAssessment:   90,
		mapmodel.TypeForm:             15,
		mapmodel.TypeRecord:           10,
		mapmodel.TypeTraining:         120,
		mapmodel.TypeExternalStandard: 0,
		"unknown":                     30,
	}
	for typ, want := range tests {
		if got := MinutesFor(typ); got != want {
			t.Errorf("MinutesFor(%s) = %d, want %d", typ, got, want)
		}
	}
}
