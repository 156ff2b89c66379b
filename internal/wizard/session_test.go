package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSession(t *testing.T) (*Session, *testutil.FakePersistence, *testutil.MemoryStateStore[State]) {
	t.Helper()
	fake := testutil.NewFakePersistence()
	state := &testutil.MemoryStateStore[State]{}
	s := NewSession(fake, WithStateStore(state), WithCall("tmpl-1", "svc-1"))
	return s, fake, state
}

func editAll(t *testing.T, s *Session, opts ...testutil.SectionsOption) {
	t.Helper()
	for _, id := range domain.AllSections() {
		require.NoError(t, s.Edit(id, func(sections *domain.Sections) {
			if id != domain.SectionBasic {
				return
			}
			for _, opt := range opts {
				opt(sections)
			}
		}))
	}
}

func TestSession_BudgetEditRecomputesFinance(t *testing.T) {
	s, _, _ := setupSession(t)

	require.NoError(t, s.Edit(domain.SectionBudget, testutil.WithBudgetItem(100000, 0, 0)))

	f := s.Sections().Finance
	assert.Equal(t, domain.BudgetTotals{CapexYear0: 100000}, s.Sections().Budget.GrantTotals)
	assert.Equal(t, 100000.0, *f.GrantFromTTDF)
	assert.Equal(t, 10000.0, *f.ContributionApplicant)
	assert.Equal(t, 90000.0, *f.ActualGrantFromTTDF)
	assert.Equal(t, 20000.0, *f.ActualContributionApplicant)
	assert.Equal(t, 110000.0, f.TotalProjectCost)
	assert.True(t, s.IsComplete(domain.SectionBudget))
	assert.True(t, s.IsComplete(domain.SectionFinance), "finance completes as soon as the budget does")
	assert.True(t, s.Reachable(domain.SectionTimeline))

	require.NoError(t, s.Edit(domain.SectionBudget, func(sections *domain.Sections) { sections.Budget.Tables = nil }))
	assert.False(t, s.IsComplete(domain.SectionFinance), "finance follows the budget back to invalid")
	assert.False(t, s.Reachable(domain.SectionFinance))
}

func TestSession_FinanceEditRefreshesProjectCost(t *testing.T) {
	s, _, _ := setupSession(t)
	require.NoError(t, s.Edit(domain.SectionFinance, func(sections *domain.Sections) {
		sections.Finance.ExpectedOtherContribution = domain.Float(250)
	}))
	assert.Equal(t, 250.0, s.Sections().Finance.TotalProjectCost)
}

func TestSession_EditUnknownSection(t *testing.T) {
	s, _, _ := setupSession(t)
	err := s.Edit(domain.SectionID(12), func(*domain.Sections) {})
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.NoError(t, s.Edit(domain.SectionFund, testutil.WithLoan(domain.LoanNo)), "session stays usable")
}

func TestSession_FirstSaveCreatesDraft(t *testing.T) {
	s, fake, state := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.Edit(domain.SectionBasic, testutil.WithCompleteBasic()))

	require.NoError(t, s.Save(ctx))
	require.True(t, s.Draft().Persisted())
	assert.Equal(t, 1, fake.Calls("CreateDraft"))
	require.Len(t, fake.Updates, 1)
	assert.Equal(t, domain.SectionBasic, fake.Updates[0].Section)
	assert.Equal(t, s.Draft().RemoteID, fake.Updates[0].SubmissionID)
	assert.Equal(t, "9876543210", fake.Updates[0].Fields["mobile"])

	require.NotNil(t, state.State)
	assert.Equal(t, s.Draft().RemoteID, state.State.SubmissionID)
	assert.Equal(t, "tmpl-1", state.State.TemplateID)

	require.NoError(t, s.Save(ctx))
	assert.Equal(t, 1, fake.Calls("CreateDraft"), "the draft is created once")
	assert.Equal(t, 2, fake.Calls("UpdateSection"))
}

func TestSession_StartCreatesDraftOnly(t *testing.T) {
	s, fake, state := setupSession(t)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.Draft().Persisted())
	assert.Equal(t, 1, fake.Calls("CreateDraft"))
	assert.Equal(t, 0, fake.Calls("UpdateSection"))
	require.NotNil(t, state.State)

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, fake.Calls("CreateDraft"), "an existing draft is kept")
}

func TestSession_SaveWithoutCall(t *testing.T) {
	fake := testutil.NewFakePersistence()
	s := NewSession(fake)
	assert.ErrorIs(t, s.Save(context.Background()), ErrMissingCall)
	assert.Equal(t, 0, fake.Calls("UpdateSection"))
}

func TestSession_SaveFailureIsWarning(t *testing.T) {
	s, fake, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx))

	fake.Errs["UpdateSection"] = fmt.Errorf("update basic details: %w", app.ErrUnauthenticated)
	require.NoError(t, s.Edit(domain.SectionBasic, func(sections *domain.Sections) { sections.Basic.City = "Hassan" }))

	err := s.Save(ctx)
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	assert.ErrorIs(t, err, app.ErrUnauthenticated)
	assert.Equal(t, "Hassan", s.Sections().Basic.City, "local edits are not rolled back")
}

func TestSession_CreateFailureStopsSave(t *testing.T) {
	s, fake, state := setupSession(t)
	fake.Errs["CreateDraft"] = errors.New("503")

	err := s.Save(context.Background())
	assert.True(t, IsWarning(err))
	assert.False(t, s.Draft().Persisted())
	assert.Equal(t, 0, fake.Calls("UpdateSection"))
	assert.Nil(t, state.State)
}

func TestSession_SaveEntities(t *testing.T) {
	s, fake, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.GoTo(domain.SectionConsortium))
	require.NoError(t, s.Edit(domain.SectionConsortium, func(sections *domain.Sections) {
		c := &sections.Consortium
		c.Collaborators = []domain.Collaborator{{ContactPersonName: "Ravi"}, {ContactPersonName: " "}}
		c.ShareHolders = []domain.ShareHolder{{ID: 41, ShareHolderName: "Meena"}}
		c.Equipments = []domain.Equipment{{Item: "Tower", UnitPrice: 10, Quantity: 2, Amount: 20}}
	}))

	require.NoError(t, s.Save(ctx))
	require.Len(t, fake.Added, 2, "rows without a name are skipped")
	assert.Equal(t, domain.EntityCollaborator, fake.Added[0].Kind)
	assert.Equal(t, "principalApplicant", fake.Added[0].Fields["collaborator_type"])
	assert.Equal(t, domain.EntityEquipment, fake.Added[1].Kind)
	require.Len(t, fake.Updated, 1)
	assert.Equal(t, int64(41), fake.Updated[0].ID)

	c := s.Sections().Consortium
	assert.True(t, c.Collaborators[0].ID.Persisted(), "added rows get their new id")
	assert.True(t, c.Equipments[0].ID.Persisted())
	assert.True(t, s.IsComplete(domain.SectionConsortium), "saving an optional section completes it")

	require.NoError(t, s.Save(ctx))
	assert.Len(t, fake.Added, 2, "persisted rows are updated, not added again")
	assert.Len(t, fake.Updated, 4)
}

func TestSession_EntityFailureIsWarning(t *testing.T) {
	s, fake, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.GoTo(domain.SectionProposal))
	require.NoError(t, s.Edit(domain.SectionProposal, func(sections *domain.Sections) {
		sections.Proposal.TeamMembers = []domain.TeamMember{{Name: "Kiran"}}
	}))
	fake.Errs["AddEntity"] = errors.New("400 bad request")

	err := s.Save(ctx)
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	assert.Contains(t, err.Error(), "Kiran")
	assert.False(t, s.Sections().Proposal.TeamMembers[0].ID.Persisted())
	assert.Equal(t, 1, fake.Calls("UpdateSection"), "the section itself was saved")
}

func TestSession_OptionalFlagsSyncedAfterCreate(t *testing.T) {
	s, fake, _ := setupSession(t)
	ctx := context.Background()

	require.NoError(t, s.MarkOptionalComplete(ctx, domain.SectionIPR))
	assert.Equal(t, 0, fake.Calls("SetOptionalCompletion"), "nothing to sync before the draft exists")

	require.NoError(t, s.Save(ctx))
	assert.Equal(t, []domain.SectionID{domain.SectionIPR}, fake.OptionalOn)
}

func TestSession_GoNextPersistsOptionalFlag(t *testing.T) {
	s, fake, state := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx))

	require.NoError(t, s.GoNext(ctx))
	require.NoError(t, s.GoNext(ctx))
	assert.Equal(t, domain.SectionProposal, s.Current())
	assert.Equal(t, []domain.SectionID{domain.SectionConsortium}, fake.OptionalOn)
	assert.Equal(t, int(domain.SectionProposal), state.State.Step)
}

func TestSession_SubmitAll(t *testing.T) {
	s, fake, state := setupSession(t)
	ctx := context.Background()

	_, err := s.SubmitAll(ctx)
	assert.ErrorIs(t, err, ErrNotLastStep)

	editAll(t, s, testutil.CompleteSectionOptions()...)
	require.NoError(t, s.GoTo(domain.SectionProjectDocs))
	_, err = s.SubmitAll(ctx)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, []domain.SectionID{domain.SectionConsortium, domain.SectionIPR}, verr.Sections)

	require.NoError(t, s.MarkOptionalComplete(ctx, domain.SectionConsortium))
	require.NoError(t, s.MarkOptionalComplete(ctx, domain.SectionIPR))
	assert.True(t, s.CanSubmit())
	_, err = s.SubmitAll(ctx)
	assert.ErrorIs(t, err, ErrNoDraft)

	require.NoError(t, s.Save(ctx))
	require.NotNil(t, state.State)
	submitted := s.Draft().RemoteID
	res, err := s.SubmitAll(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{submitted}, fake.Submitted)
	assert.Equal(t, domain.DraftSubmitted, fake.Statuses[submitted])

	assert.False(t, s.Draft().Persisted(), "the submitted draft is cleared from the session")
	assert.Equal(t, domain.DraftInProgress, s.Draft().Status)
	assert.Equal(t, "", s.Sections().Basic.ApplicantName)
	assert.Equal(t, domain.SectionBasic, s.Current())
	assert.Equal(t, 0, s.Percentage())
	assert.Nil(t, state.State, "state is cleared after submission")
	assert.False(t, s.CanSubmit())

	_, err = s.SubmitAll(ctx)
	assert.ErrorIs(t, err, ErrNotLastStep)
	assert.Equal(t, 1, fake.Calls("Submit"))
}

func TestSession_OpenSubmittedDraftIsReadOnly(t *testing.T) {
	s, fake, _ := setupSession(t)
	ctx := context.Background()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{domain.SectionBasic: {"full_name": "Asha Rao"}})
	fake.Statuses[id] = domain.DraftSubmitted

	require.NoError(t, s.Open(ctx, id))
	assert.Equal(t, domain.DraftSubmitted, s.Draft().Status)
	assert.Equal(t, 100, s.Percentage())
	assert.ErrorIs(t, s.Edit(domain.SectionBasic, func(*domain.Sections) {}), ErrSubmitted)
	assert.False(t, s.CanSubmit())
}

func TestSession_InFlightSuppressesDuplicates(t *testing.T) {
	s, fake, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx))

	fake.Gate = make(chan struct{})
	fake.Entered = make(chan struct{})
	done := make(chan error)
	go func() { done <- s.Save(ctx) }()
	<-fake.Entered

	assert.True(t, s.InFlight(ActionSave))
	assert.ErrorIs(t, s.Save(ctx), ErrInFlight)
	assert.ErrorIs(t, s.Edit(domain.SectionBasic, func(*domain.Sections) {}), ErrInFlight)

	close(fake.Gate)
	require.NoError(t, <-done)
	assert.Equal(t, 2, fake.Calls("UpdateSection"), "the rejected save sent nothing")
	assert.False(t, s.InFlight(ActionSave))
}

func TestSession_OpenAndResume(t *testing.T) {
	fake := testutil.NewFakePersistence()
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, map[domain.SectionID]app.Record{
		domain.SectionBasic: basicRecordWithoutMobile(),
		domain.SectionBudget: {"tables": []any{map[string]any{
			"title": "Project Cost",
			"serviceOfferings": []any{map[string]any{
				"name":  "Backhaul",
				"items": []any{map[string]any{"financials": map[string]any{"capex": map[string]any{"year0": map[string]any{"total": 10}}}}},
			}},
		}}},
	})
	fake.Optional[id] = []domain.SectionID{domain.SectionConsortium}

	state := &testutil.MemoryStateStore[State]{State: &State{SubmissionID: id, Step: int(domain.SectionTimeline), TemplateID: "tmpl-9"}}
	s := NewSession(fake, WithStateStore(state))

	require.NoError(t, s.Resume(context.Background()))
	assert.Equal(t, id, s.Draft().RemoteID)
	assert.Equal(t, domain.SectionTimeline, s.Current(), "saved step is restored when reachable")
	assert.True(t, s.IsComplete(domain.SectionConsortium))
	assert.True(t, s.IsComplete(domain.SectionBudget))
	assert.False(t, s.IsComplete(domain.SectionBasic))
	assert.Contains(t, s.Problems(domain.SectionBasic), "mobile is required")
	assert.Equal(t, "tmpl-9", state.State.TemplateID)
}

func TestSession_OpenFailureDegradesToFreshDraft(t *testing.T) {
	s, fake, state := setupSession(t)
	id := testutil.NewTestSubmissionID()
	fake.Seed(id, nil)
	fake.Errs["GetStatus"] = app.ErrUnauthenticated

	err := s.Open(context.Background(), id)
	assert.True(t, IsWarning(err))
	assert.ErrorIs(t, err, app.ErrUnauthenticated)
	assert.False(t, s.Draft().Persisted())
	assert.Nil(t, state.State)
}

func TestSession_DeleteOpenDraftResets(t *testing.T) {
	s, _, state := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.Edit(domain.SectionFund, testutil.WithLoan(domain.LoanNo)))
	require.NoError(t, s.Save(ctx))
	id := s.Draft().RemoteID

	require.NoError(t, s.DeleteDraft(ctx, id))
	assert.False(t, s.Draft().Persisted())
	assert.Equal(t, "", s.Sections().Fund.HasLoan)
	assert.Nil(t, state.State)
}
