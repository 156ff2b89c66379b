package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/mapping"
	"github.com/alexanderramin/grantdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicRecordWithoutMobile() app.Record {
	return app.Record{
		"full_name":       "Asha Rao",
		"gender":          "Female",
		"qualification":   "M.Tech",
		"email":           "asha@example.org",
		"individual_pan":  "ABCDE1234F",
		"organization":    "Rural Links",
		"landline_number": "0801234567",
		"website_link":    "https://rurallinks.example.org",
		"profile_image":   "/media/photos/asha.png",
		"resume":          "https://cdn.example.org/resume.pdf",
	}
}

func TestLoadDraft_MissingFieldBecomesEmpty(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{domain.SectionBasic: basicRecordWithoutMobile()})

	r := NewReconciler(fake, fake, mapping.NewPreviewer("https://media.example.org/"))
	draft, optional, err := r.LoadDraft(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, optional)

	assert.Equal(t, id, draft.RemoteID)
	assert.Equal(t, "", draft.Sections.Basic.Mobile, "missing mobile maps to the empty string")
	assert.Equal(t, "Asha Rao", draft.Sections.Basic.ApplicantName)
	assert.Equal(t, "https://rurallinks.example.org", draft.Sections.Basic.Website, "secondary key is used as a fallback")
	assert.False(t, validate(t, domain.SectionBasic, draft.Sections), "basic details require a mobile number")

	require.NotNil(t, draft.Sections.Basic.ApplicantPhoto.Preview)
	assert.Equal(t, "https://media.example.org/media/photos/asha.png", draft.Sections.Basic.ApplicantPhoto.Preview.URL)
	assert.Equal(t, "https://cdn.example.org/resume.pdf", draft.Sections.Basic.Resume.Preview.URL, "absolute URLs are kept")
	assert.Nil(t, draft.Sections.Basic.PANFile.Preview)
}

func TestLoadDraft_FinanceDefaultsToZero(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{
		domain.SectionFinance: {"expected_other_contribution": "2500"},
	})

	draft, _, err := NewReconciler(fake, fake, mapping.Previewer{}).LoadDraft(context.Background(), id)
	require.NoError(t, err)
	for _, a := range draft.Sections.Finance.Tracked() {
		require.NotNil(t, a.Value, "%s should default to 0", a.Name)
	}
	assert.Equal(t, 2500.0, *draft.Sections.Finance.ExpectedOtherContribution)
	assert.Equal(t, 0.0, *draft.Sections.Finance.GrantFromTTDF)
}

func TestLoadDraft_FetchFailureReturnsFreshDraft(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{domain.SectionBasic: basicRecordWithoutMobile()})
	fake.Errs["GetSection"] = app.ErrUnauthenticated

	draft, optional, err := NewReconciler(fake, fake, mapping.Previewer{}).LoadDraft(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	assert.ErrorIs(t, err, app.ErrUnauthenticated)

	var w *Warning
	require.True(t, errors.As(err, &w))
	assert.Equal(t, WarnReconciliation, w.Kind)

	require.NotNil(t, draft)
	assert.False(t, draft.Persisted(), "a failed load must not keep the remote id")
	assert.Equal(t, "", draft.Sections.Basic.ApplicantName)
	assert.Nil(t, optional)
}

func TestLoadDraft_OptionalFetchFailureKeepsDraft(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{domain.SectionBasic: basicRecordWithoutMobile()})
	fake.Errs["GetOptionalCompletion"] = errors.New("timeout")

	draft, _, err := NewReconciler(fake, fake, mapping.Previewer{}).LoadDraft(context.Background(), id)
	assert.True(t, IsWarning(err))
	assert.Equal(t, id, draft.RemoteID)
	assert.Equal(t, "Asha Rao", draft.Sections.Basic.ApplicantName)
}

func TestLoadDraft_BudgetTotalsFromTree(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{
		domain.SectionBudget: {
			"budget_estimate": map[string]any{
				"tables": []any{map[string]any{
					"id":    "t1",
					"title": "Project Cost",
					"serviceOfferings": []any{map[string]any{
						"id":   "o1",
						"name": "Backhaul",
						"items": []any{map[string]any{
							"id":   "i1",
							"name": "Radio",
							"financials": map[string]any{
								"capex": map[string]any{"year0": map[string]any{"total": 4000}},
								"opex":  map[string]any{"year1": map[string]any{"total": 100}},
							},
						}},
					}},
				}},
			},
			"capex_year_0": 1,
		},
	})

	draft, _, err := NewReconciler(fake, fake, mapping.Previewer{}).LoadDraft(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, BudgetSatisfied(draft.Sections))
	assert.Equal(t, domain.BudgetTotals{CapexYear0: 4000, OpexYear1: 100}, draft.Sections.Budget.GrantTotals)
}

func TestLoadDraft_MalformedBudgetCellKeepsDraft(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{
		domain.SectionBasic: basicRecordWithoutMobile(),
		domain.SectionBudget: {
			"budget_estimate": map[string]any{
				"tables": []any{map[string]any{
					"title": "Project Cost",
					"serviceOfferings": []any{map[string]any{
						"name": "Backhaul",
						"items": []any{map[string]any{
							"name": "Radio",
							"financials": map[string]any{
								"capex": map[string]any{"year0": map[string]any{"qty": "", "total": "5000"}},
							},
						}},
					}},
				}},
			},
		},
	})

	draft, _, err := NewReconciler(fake, fake, mapping.Previewer{}).LoadDraft(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, draft.RemoteID)
	assert.Equal(t, "Asha Rao", draft.Sections.Basic.ApplicantName)
	require.Equal(t, 1, draft.Sections.Budget.ItemCount())
	assert.Equal(t, 5000.0, draft.Sections.Budget.GrantTotals.CapexYear0)
	assert.True(t, BudgetSatisfied(draft.Sections))
}
