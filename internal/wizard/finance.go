package wizard

import "github.com/alexanderramin/grantdesk/internal/domain"

// ApplicantShareRate is the applicant's mandatory share of CAPEX year 0.
const ApplicantShareRate = 0.10

// FinanceFields are the values derived from budget totals.
type FinanceFields struct {
	TotalGrant       float64
	ApplicantShare   float64
	GrantAfterShare  float64
	ApplicantShareX2 float64
}

// Recompute derives the finance split from the three budget aggregates.
func Recompute(t domain.BudgetTotals) FinanceFields {
	total := t.CapexYear0 + t.OpexYear1 + t.OpexYear2
	share := ApplicantShareRate * t.CapexYear0
	return FinanceFields{
		TotalGrant:       total,
		ApplicantShare:   share,
		GrantAfterShare:  total - share,
		ApplicantShareX2: share * 2,
	}
}

// ApplyFinance overwrites the derived finance fields and refreshes the
// total project cost.
func ApplyFinance(f *domain.FinanceDetails, ff FinanceFields) {
	f.GrantFromTTDF = domain.Float(ff.TotalGrant)
	f.ContributionApplicant = domain.Float(ff.ApplicantShare)
	f.ActualGrantFromTTDF = domain.Float(ff.GrantAfterShare)
	f.ActualContributionApplicant = domain.Float(ff.ApplicantShareX2)
	RefreshProjectCost(f)
}

// RefreshProjectCost sets the total project cost to actual grant plus
// actual applicant contribution plus expected other contribution.
func RefreshProjectCost(f *domain.FinanceDetails) {
	f.TotalProjectCost = domain.Float64FromPtrWithDefault(0, f.ActualGrantFromTTDF) +
		domain.Float64FromPtrWithDefault(0, f.ActualContributionApplicant) +
		domain.Float64FromPtrWithDefault(0, f.ExpectedOtherContribution)
}
