package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/google/uuid"
)

var testItemCounter atomic.Int64

// Sections options
type SectionsOption func(*domain.Sections)

// WithBudgetItem adds one line item with the given CAPEX year 0 and OPEX
// year 1/2 totals. GrantTotals is not refreshed; edit through a session
// for derived values.
func WithBudgetItem(capex, opex1, opex2 float64) SectionsOption {
	return func(s *domain.Sections) {
		n := testItemCounter.Add(1)
		s.Budget.AddLineItem("Project Cost", "Connectivity", domain.LineItem{
			ID:   uuid.New().String(),
			Name: fmt.Sprintf("Item %d", n),
			Financials: domain.Financials{
				Capex: domain.CapexYears{Year0: domain.BudgetCell{Total: capex}},
				Opex: domain.OpexYears{
					Year1: domain.BudgetCell{Total: opex1},
					Year2: domain.BudgetCell{Total: opex2},
				},
			},
		})
	}
}

// WithCompleteBasic fills every required basic detail and attachment.
func WithCompleteBasic() SectionsOption {
	return func(s *domain.Sections) {
		b := &s.Basic
		b.ApplicantName = "Asha Rao"
		b.Gender = "Female"
		b.Qualification = "M.Tech"
		b.Mobile = "9876543210"
		b.Email = "asha@example.org"
		b.IndividualPAN = "ABCDE1234F"
		b.Organization = "Rural Links Pvt Ltd"
		b.Landline = "0801234567"
		b.Website = "https://rurallinks.example.org"
		b.ProposalBy = "Startup"
		b.TTDFCompany = "Yes"
		b.AddressLine1 = "12 Main Road"
		b.AddressLine2 = "Block B"
		b.StreetVillage = "Hosahalli"
		b.City = "Mysuru"
		b.Country = "India"
		b.State = "Karnataka"
		b.Pincode = "570001"
		for _, slot := range []*domain.FileSlot{
			&b.ApplicantPhoto, &b.Resume, &b.PANFile,
			&b.RegistrationCertificate, &b.ShareHoldingPattern, &b.IndividualPANAttachment,
		} {
			slot.Preview = &domain.FilePreview{URL: "https://media.example.org/" + uuid.New().String() + ".pdf"}
		}
	}
}

func WithCompleteProposal() SectionsOption {
	return func(s *domain.Sections) {
		s.Proposal.KeyInformation.ProposalBrief = "Village broadband backhaul"
		s.Proposal.Summary.ProposedVillage = "Hosahalli"
		s.Proposal.Summary.UseCase = "Telemedicine"
	}
}

func WithLoan(choice string) SectionsOption {
	return func(s *domain.Sections) {
		s.Fund.HasLoan = choice
	}
}

// WithMilestone fills the first empty milestone slot.
func WithMilestone(scope, start, end string) SectionsOption {
	return func(s *domain.Sections) {
		for i := range s.Timeline.Milestones {
			m := &s.Timeline.Milestones[i]
			if m.Filled() {
				continue
			}
			m.ScopeOfWork = scope
			m.StartDate = start
			m.EndDate = end
			m.TimeRequiredMonths = 1
			return
		}
	}
}

func WithProjectDocs() SectionsOption {
	return func(s *domain.Sections) {
		for _, slot := range []*domain.FileSlot{&s.Documents.GanttChart, &s.Documents.DPR, &s.Documents.Presentation} {
			slot.Preview = &domain.FilePreview{URL: "https://media.example.org/" + uuid.New().String() + ".pdf"}
		}
	}
}

// NewTestSections returns a fresh aggregate with the options applied.
func NewTestSections(opts ...SectionsOption) *domain.Sections {
	s := domain.NewSections()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompleteSectionOptions makes every non-optional validator pass.
func CompleteSectionOptions() []SectionsOption {
	return []SectionsOption{
		WithCompleteBasic(),
		WithCompleteProposal(),
		WithLoan(domain.LoanNo),
		WithBudgetItem(100000, 0, 0),
		WithMilestone("Survey", "2026-01-01", "2026-02-01"),
		WithProjectDocs(),
	}
}

func NewTestSubmissionID() string {
	return uuid.New().String()
}
