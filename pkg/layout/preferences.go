package layout

import (
	"fmt"
	"strings"
)

// Mode is the layout mode chosen by the user
type Mode string

const (
	ModeAuto         Mode = "auto"
	ModeManual       Mode = "manual"
	ModeHierarchical Mode = "hierarchical"
	ModeCircular     Mode = "circular"
)

// ParseMode parses a layout mode name; empty means auto
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeManual, ModeHierarchical, ModeCircular:
		return m, nil
	}
	return ModeAuto, fmt.Errorf("unknown layout mode %q", s)
}

// Preferences are the view settings persisted next to the position overrides
type Preferences struct {
	ShowDependencies  bool            `json:"showDependencies"`
	ShowNonCritical   bool            `json:"showNonCritical"`
	ShowExternal      bool            `json:"showExternal"`
	HighlightPath     bool            `json:"highlightPath"`
	LayoutMode        Mode            `json:"layoutMode"`
	ChecklistProgress map[string]bool `json:"checklistProgress,omitempty"`
}

// DefaultPreferences shows everything and lays out automatically
func DefaultPreferences() Preferences {
	return Preferences{
		ShowDependencies: true,
		ShowNonCritical:  true,
		ShowExternal:     true,
		HighlightPath:    true,
		LayoutMode:       ModeAuto,
	}
}

func (p Preferences) clone() Preferences {
	if p.ChecklistProgress != nil {
		progress := make(map[string]bool, len(p.ChecklistProgress))
		for k, v := range p.ChecklistProgress {
			progress[k] = v
		}
		p.ChecklistProgress = progress
	}
	return p
}

func (p *Preferences) normalize() {
	if mode, err := ParseMode(string(p.LayoutMode)); err == nil {
		p.LayoutMode = mode
	} else {
		p.LayoutMode = ModeAuto
	}
}
