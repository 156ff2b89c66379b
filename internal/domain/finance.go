package domain

// FinanceDetails holds grant and contribution figures. The six tracked
// amounts are pointers so that an absent value is distinguishable from 0.
type FinanceDetails struct {
	GrantFromTTDF               *float64 `yaml:"grant_from_ttdf"`
	ContributionApplicant       *float64 `yaml:"contribution_applicant"`
	ExpectedOtherContribution   *float64 `yaml:"expected_other_contribution"`
	OtherSourceFunding          *float64 `yaml:"other_source_funding"`
	ActualGrantFromTTDF         *float64 `yaml:"actual_grant_from_ttdf"`
	ActualContributionApplicant *float64 `yaml:"actual_contribution_applicant"`
	TotalProjectCost            float64  `yaml:"total_project_cost"`

	ContributionRows []map[string]any `yaml:"contribution_rows"`
	FundRows         []map[string]any `yaml:"fund_rows"`
}

// NewFinanceDetails returns finance details with every tracked amount set to 0.
func NewFinanceDetails() FinanceDetails {
	return FinanceDetails{
		GrantFromTTDF:               Float(0),
		ContributionApplicant:       Float(0),
		ExpectedOtherContribution:   Float(0),
		OtherSourceFunding:          Float(0),
		ActualGrantFromTTDF:         Float(0),
		ActualContributionApplicant: Float(0),
	}
}

// Tracked returns the six tracked amounts with their wire names.
func (f *FinanceDetails) Tracked() []NamedAmount {
	return []NamedAmount{
		{"grant_from_ttdf", f.GrantFromTTDF},
		{"contribution_applicant", f.ContributionApplicant},
		{"expected_other_contribution", f.ExpectedOtherContribution},
		{"other_source_funding", f.OtherSourceFunding},
		{"actual_grant_from_ttdf", f.ActualGrantFromTTDF},
		{"actual_contribution_applicant", f.ActualContributionApplicant},
	}
}

type NamedAmount struct {
	Name  string
	Value *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
