package service

import (
	"context"
	"sort"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

const recentLimit = 5

// Overview derives the dashboard from local drafts. Submitted applications
// count as under evaluation since nothing evaluates them locally.
func (b *LocalBackend) Overview(ctx context.Context) (*app.DashboardOverview, error) {
	subs, err := b.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	refreshed, err := b.stats.LastRefreshed(ctx)
	if err != nil {
		return nil, err
	}
	if refreshed.IsZero() {
		refreshed = b.now()
	}
	activities, err := b.activities.List(ctx, 0, recentLimit)
	if err != nil {
		return nil, err
	}
	calls, err := b.calls.List(ctx)
	if err != nil {
		return nil, err
	}
	current, _ := splitCalls(calls)

	ov := &app.DashboardOverview{
		Stats:             app.DashboardStats{LastUpdated: refreshed},
		RecentActivities:  activities,
		DraftApplications: drafts(subs),
		CurrentCalls:      current,
		RecentProposals:   []app.ProposalSummary{},
	}
	for _, s := range submitted(subs) {
		ov.Stats.TotalProposals++
		ov.Stats.UnderEvaluation++
		if len(ov.RecentProposals) < recentLimit {
			ov.RecentProposals = append(ov.RecentProposals, proposalSummary(s))
		}
	}
	return ov, nil
}

func (b *LocalBackend) ProposalStats(ctx context.Context) (app.ProposalStats, error) {
	subs, err := b.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	stats := fallbackProposalStats()
	for _, s := range submitted(subs) {
		stats["Submitted"] = append(stats["Submitted"], proposalSummary(s))
	}
	return stats, nil
}

func (b *LocalBackend) ProposalDetail(ctx context.Context, proposalID string) (*app.ProposalDetail, error) {
	sub, err := b.submissions.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	detail := &app.ProposalDetail{
		ProposalID: sub.ID,
		Title:      domain.CoalesceStr(sub.CallName, "Untitled Proposal"),
	}
	if sub.Status != domain.DraftSubmitted {
		detail.Status = "Draft"
		detail.Workflow = []app.WorkflowStage{{
			Stage:  "draft",
			Title:  "Draft",
			Status: "in_progress",
			Date:   sub.UpdatedAt.Format("2006-01-02"),
		}}
		return detail, nil
	}
	detail.Status = "Submitted"
	if sub.SubmittedAt != nil {
		detail.SubmissionDate = sub.SubmittedAt.Format("2006-01-02")
	}
	detail.Workflow = []app.WorkflowStage{
		{Stage: "submitted", Title: "Proposal Submitted", Status: "completed", Date: detail.SubmissionDate},
		{Stage: "screening", Title: "Screening", Status: "pending"},
	}
	return detail, nil
}

func (b *LocalBackend) Calls(ctx context.Context) (*app.CallList, error) {
	calls, err := b.calls.List(ctx)
	if err != nil {
		return nil, err
	}
	current, previous := splitCalls(calls)
	return &app.CallList{Current: current, Previous: previous}, nil
}

func (b *LocalBackend) Activities(ctx context.Context, page, limit int) (*app.ActivityPage, error) {
	offset, limit := pageBounds(page, limit)
	list, err := b.activities.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	count, err := b.activities.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &app.ActivityPage{Results: list, Count: count}, nil
}

func (b *LocalBackend) MarkActivityRead(ctx context.Context, activityID int64) error {
	return b.activities.MarkRead(ctx, activityID)
}

func (b *LocalBackend) RefreshStats(ctx context.Context) error {
	return b.stats.Refresh(ctx, b.now())
}

// Notifications mirrors the activity log; there is no separate
// notification source locally.
func (b *LocalBackend) Notifications(ctx context.Context, page, limit int) (*app.NotificationPage, error) {
	acts, err := b.Activities(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	out := &app.NotificationPage{Count: acts.Count, Results: make([]app.Notification, 0, len(acts.Results))}
	for _, a := range acts.Results {
		out.Results = append(out.Results, app.Notification{
			ID:        a.ID,
			Title:     a.Title,
			Message:   a.Description,
			IsRead:    a.IsRead,
			CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

func pageBounds(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return (page - 1) * limit, limit
}

func submitted(subs []app.SubmissionSummary) []app.SubmissionSummary {
	var out []app.SubmissionSummary
	for _, s := range subs {
		if s.Status == domain.DraftSubmitted {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func proposalSummary(s app.SubmissionSummary) app.ProposalSummary {
	return app.ProposalSummary{
		ID:        s.ID,
		Title:     s.CallName,
		Status:    "Submitted",
		CallName:  s.CallName,
		UpdatedAt: s.UpdatedAt,
	}
}
