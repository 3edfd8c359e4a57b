package service

import (
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
	"github.com/sakif/cabin-manager/internal/checklist"
)

// ChecklistService serves the departure checklist. DUMMY sessions get the
// visitor variant, like every other read.
type ChecklistService struct {
	list *checklist.Checklist
}

func NewChecklistService(list *checklist.Checklist) *ChecklistService {
	return &ChecklistService{list: list}
}

func (s *ChecklistService) Sections(p *auth.Principal) ([]checklist.Section, error) {
	if err := authz.RequireSession(p); err != nil {
		return nil, err
	}
	return s.list.Sections(authz.ReadsDemoData(p)), nil
}
