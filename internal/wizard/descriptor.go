package wizard

import (
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Validator decides whether a section is complete given the whole
// aggregate, so cross-section prerequisites always read current data.
type Validator func(s *domain.Sections) bool

// Descriptor is the static metadata of one section.
type Descriptor struct {
	ID            domain.SectionID
	Name          string
	FullyOptional bool

	// Problems lists the reasons the section is incomplete. Validate is
	// true exactly when it is empty.
	Problems func(s *domain.Sections) []string

	// Prerequisite gates reachability. Nil means always reachable.
	Prerequisite Validator
}

func (d Descriptor) Validate(s *domain.Sections) bool {
	if s == nil {
		return d.FullyOptional
	}
	return len(d.Problems(s)) == 0
}

// Reachable reports whether the navigator may enter the section.
func (d Descriptor) Reachable(s *domain.Sections) bool {
	return d.Prerequisite == nil || d.Prerequisite(s)
}

// Registry is the ordered, immutable set of section descriptors.
type Registry struct {
	descriptors []Descriptor
}

// DefaultRegistry returns the nine application sections in wizard order.
func DefaultRegistry() *Registry {
	descriptors := []Descriptor{
		{ID: domain.SectionBasic, Problems: basicProblems},
		{ID: domain.SectionConsortium, FullyOptional: true, Problems: none},
		{ID: domain.SectionProposal, Problems: proposalProblems},
		{ID: domain.SectionFund, Problems: fundProblems},
		{ID: domain.SectionBudget, Problems: budgetProblems},
		{ID: domain.SectionFinance, Problems: financeProblems, Prerequisite: BudgetSatisfied},
		{ID: domain.SectionTimeline, Problems: timelineProblems, Prerequisite: BudgetSatisfied},
		{ID: domain.SectionIPR, FullyOptional: true, Problems: none},
		{ID: domain.SectionProjectDocs, Problems: documentProblems},
	}
	for i := range descriptors {
		descriptors[i].Name = descriptors[i].ID.Name()
	}
	return &Registry{descriptors: descriptors}
}

func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Get returns the descriptor for id or ErrUnknownSection.
func (r *Registry) Get(id domain.SectionID) (Descriptor, error) {
	if int(id) < 0 || int(id) >= len(r.descriptors) {
		return Descriptor{}, fmt.Errorf("section %d: %w", int(id), ErrUnknownSection)
	}
	return r.descriptors[id], nil
}

// All returns the descriptors in order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

func (r *Registry) Last() domain.SectionID {
	return domain.SectionID(len(r.descriptors) - 1)
}
