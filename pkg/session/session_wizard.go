package session

import (
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/wizard"
)

// Wizard computes the minimal path for the criteria and marks checklist
// items completed according to the persisted progress
func (s *Session) Wizard(c wizard.Criteria) wizard.Result {
	s.mu.Lock()
	res := wizard.ComputeMinimalPath(s.model, c)
	s.mu.Unlock()

	s.metrics.RecordWizard(len(res.Path))
	s.logger.Debug("minimal path computed",
		logging.Strings("roles", c.Roles),
		logging.Strings("activities", c.Activities),
		logging.Strings("locations", c.Locations),
		logging.Count(len(res.Path)))

	if s.store == nil {
		return res
	}
	progress := s.store.Preferences().ChecklistProgress
	for i := range res.Checklist {
		res.Checklist[i].Completed = progress[res.Checklist[i].ID]
	}
	return res
}

// SetChecklistItem records whether a checklist item is done
func (s *Session) SetChecklistItem(itemID string, completed bool) {
	if s.store == nil || itemID == "" {
		return
	}
	s.store.UpdatePreferences(func(p *layout.Preferences) {
		if p.ChecklistProgress == nil {
			p.ChecklistProgress = make(map[string]bool)
		}
		if completed {
			p.ChecklistProgress[itemID] = true
		} else {
			delete(p.ChecklistProgress, itemID)
		}
	})
}

// ResetChecklist clears all checklist progress
func (s *Session) ResetChecklist() {
	if s.store == nil {
		return
	}
	s.store.UpdatePreferences(func(p *layout.Preferences) { p.ChecklistProgress = nil })
}
