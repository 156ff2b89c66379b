package wizard

import (
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// BudgetSatisfied is the single prerequisite shared by Finance Details and
// Objective-wise Timelines: some line item must carry a positive CAPEX
// year 0, OPEX year 1 or OPEX year 2 total.
func BudgetSatisfied(s *domain.Sections) bool {
	if s == nil {
		return false
	}
	funded := false
	s.Budget.EachItem(func(item *domain.LineItem) {
		if item.Financials.Funded() {
			funded = true
		}
	})
	return funded
}

func none(*domain.Sections) []string { return nil }

func basicProblems(s *domain.Sections) []string {
	var out []string
	for _, f := range s.Basic.RequiredText() {
		if domain.Blank(f.Value) {
			out = append(out, f.Label+" is required")
		}
	}
	for _, f := range s.Basic.RequiredFiles() {
		if !f.Slot.Satisfied() {
			out = append(out, f.Label+" must be attached")
		}
	}
	return out
}

func proposalProblems(s *domain.Sections) []string {
	p := &s.Proposal
	var out []string
	if domain.Blank(p.KeyInformation.ProposalBrief) {
		out = append(out, "proposal brief is required")
	}
	if domain.Blank(p.Summary.ProposedVillage) {
		out = append(out, "proposed village is required")
	}
	if domain.Blank(p.Summary.UseCase) {
		out = append(out, "use case is required")
	}
	return out
}

func fundProblems(s *domain.Sections) []string {
	f := &s.Fund
	switch f.HasLoan {
	case domain.LoanNo:
		return nil
	case domain.LoanYes:
		var out []string
		if domain.Blank(f.LoanDescription) {
			out = append(out, "loan description is required")
		}
		if !(f.LoanAmount > 0) {
			out = append(out, "loan amount must be positive")
		}
		return out
	case "":
		return []string{"select whether the project has a loan"}
	default:
		return []string{fmt.Sprintf("invalid loan selection %q", f.HasLoan)}
	}
}

func budgetProblems(s *domain.Sections) []string {
	if !BudgetSatisfied(s) {
		return []string{"add at least one line item with a positive CAPEX or OPEX total"}
	}
	return nil
}

func financeProblems(s *domain.Sections) []string {
	out := budgetProblems(s)
	for _, a := range s.Finance.Tracked() {
		if a.Value == nil {
			out = append(out, a.Name+" must be a number")
		}
	}
	return out
}

func timelineProblems(s *domain.Sections) []string {
	out := budgetProblems(s)
	for _, m := range s.Timeline.Milestones {
		if m.Filled() && m.Dated() {
			return out
		}
	}
	return append(out, "add at least one milestone with scope of work, start date and end date")
}

func documentProblems(s *domain.Sections) []string {
	var out []string
	for _, f := range s.Documents.RequiredFiles() {
		if !f.Slot.Satisfied() {
			out = append(out, f.Label+" must be attached")
		}
	}
	return out
}
