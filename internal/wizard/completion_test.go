package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_MirrorsValidatorsAfterChange(t *testing.T) {
	reg := DefaultRegistry()
	tr := NewTracker(reg)
	s := testutil.NewTestSections()

	tr.OnDataChanged(s)
	for _, d := range reg.All() {
		if d.FullyOptional {
			assert.False(t, tr.Has(d.ID), "%s should not complete without explicit marking", d.Name)
			continue
		}
		assert.Equal(t, d.Validate(s), tr.Has(d.ID), "%s should mirror its validator", d.Name)
	}

	for _, opt := range testutil.CompleteSectionOptions() {
		opt(s)
		tr.OnDataChanged(s)
		for _, d := range reg.All() {
			if !d.FullyOptional {
				assert.Equal(t, d.Validate(s), tr.Has(d.ID), "%s should mirror its validator", d.Name)
			}
		}
	}
	assert.Equal(t, []domain.SectionID{domain.SectionConsortium, domain.SectionIPR}, tr.Missing())
}

func TestTracker_OptionalOnlyViaMark(t *testing.T) {
	tr := NewTracker(DefaultRegistry())
	ctx := context.Background()
	s := testutil.NewTestSections()

	s.Consortium.TTDFAppliedBefore = "yes"
	tr.OnDataChanged(s)
	assert.False(t, tr.Has(domain.SectionConsortium))

	require.NoError(t, tr.MarkOptionalComplete(ctx, domain.SectionConsortium))
	require.NoError(t, tr.MarkOptionalComplete(ctx, domain.SectionConsortium), "marking is idempotent")
	assert.True(t, tr.Has(domain.SectionConsortium))

	tr.OnDataChanged(testutil.NewTestSections())
	assert.True(t, tr.Has(domain.SectionConsortium), "data changes never clear an optional flag")
}

func TestTracker_MarkRejectsNonOptional(t *testing.T) {
	tr := NewTracker(DefaultRegistry())
	err := tr.MarkOptionalComplete(context.Background(), domain.SectionBudget)
	assert.ErrorIs(t, err, ErrNotOptional)
	assert.False(t, tr.Has(domain.SectionBudget))

	err = tr.MarkOptionalComplete(context.Background(), domain.SectionID(-1))
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestTracker_PersistFailureIsWarning(t *testing.T) {
	tr := NewTracker(DefaultRegistry())
	boom := errors.New("connection reset")
	tr.SetPersister(func(context.Context, domain.SectionID) error { return boom })

	err := tr.MarkOptionalComplete(context.Background(), domain.SectionIPR)
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	assert.ErrorIs(t, err, boom)

	var w *Warning
	require.True(t, errors.As(err, &w))
	assert.Equal(t, WarnOptionalFlag, w.Kind)
	assert.True(t, tr.Has(domain.SectionIPR), "local flag is kept on persistence failure")
}

func TestTracker_SeedFiltersToOptional(t *testing.T) {
	tr := NewTracker(DefaultRegistry())
	tr.Seed(testutil.NewTestSections(), []domain.SectionID{domain.SectionIPR, domain.SectionBudget, domain.SectionID(99)})

	assert.Equal(t, []domain.SectionID{domain.SectionIPR}, tr.Completed())
}

func TestTracker_Percentage(t *testing.T) {
	tr := NewTracker(DefaultRegistry())
	assert.Equal(t, 0, tr.Percentage())

	require.NoError(t, tr.MarkOptionalComplete(context.Background(), domain.SectionConsortium))
	assert.Equal(t, 11, tr.Percentage(), "1 of 9 rounds to 11")

	require.NoError(t, tr.MarkOptionalComplete(context.Background(), domain.SectionIPR))
	assert.Equal(t, 22, tr.Percentage())

	tr.MarkAll()
	assert.Equal(t, 100, tr.Percentage())
	assert.True(t, tr.All())
}
