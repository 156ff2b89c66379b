package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitCalls_PartitionsOnActiveStatus(t *testing.T) {
	current, previous := splitCalls([]app.Call{
		{ID: "c1", Status: "Active"},
		{ID: "c2", Status: "Closed"},
		{ID: "c3", Status: "active"},
	})

	assert.Equal(t, []app.Call{{ID: "c1", Status: "Active"}}, current)
	assert.Len(t, previous, 2, "status match is exact")
}

func TestSplitCalls_EmptyInputYieldsEmptySlices(t *testing.T) {
	current, previous := splitCalls(nil)
	assert.NotNil(t, current)
	assert.NotNil(t, previous)
}

func TestDrafts_KeepsOnlyInProgress(t *testing.T) {
	out := drafts([]app.SubmissionSummary{
		{ID: "a", Status: domain.DraftInProgress},
		{ID: "b", Status: domain.DraftSubmitted},
	})
	assert.Equal(t, []app.SubmissionSummary{{ID: "a", Status: domain.DraftInProgress}}, out)
	assert.NotNil(t, drafts(nil))
}

func TestFallbacks_AreRenderable(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ov := fallbackOverview(now)
	assert.Equal(t, now, ov.Stats.LastUpdated)
	assert.NotNil(t, ov.RecentActivities)
	assert.NotNil(t, ov.CurrentCalls)

	stats := fallbackProposalStats()
	assert.Len(t, stats, len(app.ProposalStatBuckets))
	for _, bucket := range app.ProposalStatBuckets {
		assert.NotNil(t, stats[bucket], bucket)
	}

	detail := fallbackProposalDetail("p-9")
	assert.Equal(t, "p-9", detail.ProposalID)
	assert.Equal(t, "Unknown", detail.Status)
	assert.Len(t, detail.Workflow, 1)
}

func TestNormalizeStage(t *testing.T) {
	assert.Equal(t, "under_review", normalizeStage("  UNDER_REVIEW "))
}
