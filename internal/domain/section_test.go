package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionID(t *testing.T) {
	tests := map[string]SectionID{
		"0":                        SectionBasic,
		"4":                        SectionBudget,
		"budget":                   SectionBudget,
		"budget-estimate":          SectionBudget,
		"Budget Estimate":          SectionBudget,
		"objective-wise-timelines": SectionTimeline,
		"timeline":                 SectionTimeline,
		" IPR ":                    SectionIPR,
		"documents":                SectionProjectDocs,
	}
	for in, want := range tests {
		got, err := ParseSectionID(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseSectionID("9")
	assert.Error(t, err)
	_, err = ParseSectionID("declaration")
	assert.Error(t, err)
}

func TestSectionID_Names(t *testing.T) {
	assert.Len(t, AllSections(), SectionCount)
	assert.Equal(t, "Finance Details", SectionFinance.Name())
	assert.Equal(t, "finance-details", SectionFinance.Key())
	assert.Equal(t, "Section(12)", SectionID(12).Name())
	assert.Equal(t, "", SectionID(-1).Key())
}

func TestEntityKind_Section(t *testing.T) {
	for _, k := range AllEntityKinds() {
		assert.True(t, k.Valid())
		if k == EntityTeamMember {
			assert.Equal(t, SectionProposal, k.Section())
		} else {
			assert.Equal(t, SectionConsortium, k.Section())
		}
	}
	assert.False(t, EntityKind("declaration").Valid())
}

func TestFileSlot(t *testing.T) {
	var s FileSlot
	assert.False(t, s.Satisfied())
	assert.Equal(t, "", s.Describe())

	s.Preview = &FilePreview{URL: "https://media.example.org/dpr.pdf"}
	assert.True(t, s.Satisfied())
	assert.False(t, s.Pending())

	s.Attach("/home/asha/dpr-v2.pdf")
	assert.True(t, s.Pending())
	assert.Equal(t, "dpr-v2.pdf (pending)", s.Describe())
	require.NotNil(t, s.Preview, "preview is kept until the upload replaces it")

	s.Attach("")
	assert.False(t, s.Pending())
	assert.Equal(t, "https://media.example.org/dpr.pdf", s.Describe())
}

func TestBudgetEstimate_Totals(t *testing.T) {
	var b BudgetEstimate
	assert.Equal(t, BudgetTotals{}, b.ComputeTotals())

	b.AddLineItem("Project Cost", "Backhaul", LineItem{Financials: Financials{Capex: CapexYears{Year0: BudgetCell{Total: 100}}}})
	b.AddLineItem("Project Cost", "Backhaul", LineItem{Financials: Financials{Opex: OpexYears{Year1: BudgetCell{Total: 5}}}})
	b.AddLineItem("Project Cost", "Access", LineItem{Financials: Financials{Opex: OpexYears{Year2: BudgetCell{Total: 7}}}})

	require.Len(t, b.Tables, 1)
	assert.Len(t, b.Tables[0].ServiceOfferings, 2)
	assert.Equal(t, 3, b.ItemCount())
	assert.Equal(t, BudgetTotals{CapexYear0: 100, OpexYear1: 5, OpexYear2: 7}, b.ComputeTotals())
}

func TestEstimateEndDate(t *testing.T) {
	assert.Equal(t, "2026-01-31", EstimateEndDate("2026-01-01", 1))
	assert.Equal(t, "2026-01-01", EstimateEndDate("2026-01-01", 0))
	assert.Equal(t, "", EstimateEndDate("", 3))
	assert.Equal(t, "", EstimateEndDate("01/02/2026", 3))
}

func TestNewSections_Defaults(t *testing.T) {
	s := NewSections()
	for _, a := range s.Finance.Tracked() {
		require.NotNil(t, a.Value, a.Name)
	}
	for _, id := range AllSections() {
		p, err := s.Payload(id)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := s.Payload(SectionID(20))
	assert.Error(t, err)
	assert.False(t, NewApplicationDraft().Persisted())
}
