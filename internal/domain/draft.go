package domain

import "fmt"

// Sections is the aggregate of every section payload for one application.
type Sections struct {
	Basic      BasicDetails       `yaml:"basic_details"`
	Consortium Consortium         `yaml:"consortium"`
	Proposal   ProposalDetails    `yaml:"proposal_details"`
	Fund       FundDetails        `yaml:"fund_details"`
	Budget     BudgetEstimate     `yaml:"budget_estimate"`
	Finance    FinanceDetails     `yaml:"finance_details"`
	Timeline   ObjectiveTimelines `yaml:"objective_timelines"`
	IPR        IPRDetails         `yaml:"ipr_details"`
	Documents  ProjectDocuments   `yaml:"project_details"`
}

// NewSections returns an empty aggregate with every numeric default in place.
func NewSections() *Sections {
	s := &Sections{Finance: NewFinanceDetails()}
	for i := range s.Timeline.Milestones {
		s.Timeline.Milestones[i].ID = RowID(i + 1)
	}
	return s
}

// Payload returns a pointer to the payload of the given section.
func (s *Sections) Payload(id SectionID) (any, error) {
	switch id {
	case SectionBasic:
		return &s.Basic, nil
	case SectionConsortium:
		return &s.Consortium, nil
	case SectionProposal:
		return &s.Proposal, nil
	case SectionFund:
		return &s.Fund, nil
	case SectionBudget:
		return &s.Budget, nil
	case SectionFinance:
		return &s.Finance, nil
	case SectionTimeline:
		return &s.Timeline, nil
	case SectionIPR:
		return &s.IPR, nil
	case SectionProjectDocs:
		return &s.Documents, nil
	}
	return nil, fmt.Errorf("payload for %v: unknown section", id)
}

// ApplicationDraft is the root aggregate of one application being edited.
type ApplicationDraft struct {
	// RemoteID is empty until the draft is first persisted.
	RemoteID string
	Status   DraftStatus
	Sections *Sections
}

func NewApplicationDraft() *ApplicationDraft {
	return &ApplicationDraft{
		Status:   DraftInProgress,
		Sections: NewSections(),
	}
}

// Persisted reports whether the draft has a remote identifier.
func (d *ApplicationDraft) Persisted() bool {
	return d.RemoteID != ""
}
