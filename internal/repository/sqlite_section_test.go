package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionRecordRepo_UpsertAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	require.NoError(t, NewSQLiteSubmissionRepo(database).Create(context.Background(), newSubmission("s1")))
	repo := NewSQLiteSectionRecordRepo(database)
	ctx := context.Background()

	empty, err := repo.Get(ctx, "s1", domain.SectionFund)
	require.NoError(t, err)
	assert.Empty(t, empty, "a section never saved reads as an empty record")

	require.NoError(t, repo.Upsert(ctx, "s1", domain.SectionFund, app.Record{"has_loan": "No"}))
	require.NoError(t, repo.Upsert(ctx, "s1", domain.SectionFund, app.Record{"has_loan": "Yes", "loan_amount": 50.0}))

	rec, err := repo.Get(ctx, "s1", domain.SectionFund)
	require.NoError(t, err)
	assert.Equal(t, "Yes", rec.String("has_loan"))
	assert.Equal(t, 50.0, rec.Float("loan_amount"))
}

func TestSectionRecordRepo_FilesOverlayPayload(t *testing.T) {
	database := testutil.NewTestDB(t)
	require.NoError(t, NewSQLiteSubmissionRepo(database).Create(context.Background(), newSubmission("s1")))
	repo := NewSQLiteSectionRecordRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "s1", domain.SectionBasic, app.Record{"applicant_name": "Acme"}))
	require.NoError(t, repo.PutFile(ctx, "s1", domain.SectionBasic, "pan_file", "/tmp/pan.pdf"))
	require.NoError(t, repo.PutFile(ctx, "s1", domain.SectionBasic, "pan_file", "/tmp/pan-v2.pdf"))
	require.NoError(t, repo.Upsert(ctx, "s1", domain.SectionBasic, app.Record{"applicant_name": "Acme Ltd"}))

	rec, err := repo.Get(ctx, "s1", domain.SectionBasic)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", rec.String("applicant_name"))
	assert.Equal(t, "/tmp/pan-v2.pdf", rec.String("pan_file"), "files survive a later payload save")
}

func TestSectionRecordRepo_ListSaved(t *testing.T) {
	database := testutil.NewTestDB(t)
	require.NoError(t, NewSQLiteSubmissionRepo(database).Create(context.Background(), newSubmission("s1")))
	repo := NewSQLiteSectionRecordRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "s1", domain.SectionBudget, app.Record{}))
	require.NoError(t, repo.Upsert(ctx, "s1", domain.SectionBasic, app.Record{}))

	saved, err := repo.ListSaved(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionBasic, domain.SectionBudget}, saved)
}

func TestOptionalCompletionRepo_SetAndClear(t *testing.T) {
	database := testutil.NewTestDB(t)
	require.NoError(t, NewSQLiteSubmissionRepo(database).Create(context.Background(), newSubmission("s1")))
	repo := NewSQLiteOptionalCompletionRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "s1", domain.SectionIPR, true))
	require.NoError(t, repo.Set(ctx, "s1", domain.SectionIPR, true))
	require.NoError(t, repo.Set(ctx, "s1", domain.SectionConsortium, true))

	flags, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionConsortium, domain.SectionIPR}, flags)

	require.NoError(t, repo.Set(ctx, "s1", domain.SectionIPR, false))
	flags, err = repo.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionConsortium}, flags)
}
