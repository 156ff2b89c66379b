package service

import (
	"context"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/contract"
)

type dashboardService struct {
	dashboard app.Dashboard
	lifecycle app.SubmissionLifecycle
	observer  UseCaseObserver
	now       func() time.Time
}

func NewDashboardService(
	dashboard app.Dashboard,
	lifecycle app.SubmissionLifecycle,
	observers ...UseCaseObserver,
) DashboardService {
	return &dashboardService{
		dashboard: dashboard,
		lifecycle: lifecycle,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) Overview(ctx context.Context) contract.Result[*contract.DashboardOverview] {
	startedAt := time.Now()
	ov, err := s.dashboard.Overview(ctx)
	defer observe(ctx, s.observer, "dashboard-overview", startedAt, nil, &err)
	if err != nil {
		return contract.Failed(userMessage(err), fallbackOverview(s.now()))
	}
	if ov.Stats.LastUpdated.IsZero() {
		ov.Stats.LastUpdated = s.now()
	}
	return contract.OK(ov)
}

func (s *dashboardService) ProposalStats(ctx context.Context) contract.Result[contract.ProposalStats] {
	startedAt := time.Now()
	stats, err := s.dashboard.ProposalStats(ctx)
	defer observe(ctx, s.observer, "proposal-stats", startedAt, nil, &err)
	if err != nil {
		return contract.Failed(userMessage(err), fallbackProposalStats())
	}
	for _, bucket := range app.ProposalStatBuckets {
		if stats[bucket] == nil {
			stats[bucket] = []app.ProposalSummary{}
		}
	}
	return contract.OK(stats)
}

func (s *dashboardService) ProposalDetail(ctx context.Context, proposalID string) contract.Result[*contract.ProposalDetail] {
	startedAt := time.Now()
	detail, err := s.dashboard.ProposalDetail(ctx, proposalID)
	defer observe(ctx, s.observer, "proposal-detail", startedAt, map[string]any{"proposal_id": proposalID}, &err)
	if err != nil {
		return contract.Failed(userMessage(err), fallbackProposalDetail(proposalID))
	}
	for i := range detail.Workflow {
		detail.Workflow[i].Stage = normalizeStage(detail.Workflow[i].Stage)
	}
	return contract.OK(detail)
}

// Calls falls back to the overview's Active calls when the calls endpoint
// returns nothing in either list.
func (s *dashboardService) Calls(ctx context.Context) contract.Result[*contract.CallList] {
	startedAt := time.Now()
	fields := map[string]any{}
	calls, err := s.dashboard.Calls(ctx)
	defer observe(ctx, s.observer, "list-calls", startedAt, fields, &err)
	if err != nil {
		return contract.Failed(userMessage(err), &app.CallList{Current: []app.Call{}, Previous: []app.Call{}})
	}
	if len(calls.Current) == 0 && len(calls.Previous) == 0 {
		if ov, ovErr := s.dashboard.Overview(ctx); ovErr == nil {
			current, previous := splitCalls(ov.CurrentCalls)
			calls = &app.CallList{Current: current, Previous: previous}
			fields["source"] = "overview"
		}
	}
	if calls.Current == nil {
		calls.Current = []app.Call{}
	}
	if calls.Previous == nil {
		calls.Previous = []app.Call{}
	}
	return contract.OK(calls)
}

func (s *dashboardService) Drafts(ctx context.Context) contract.Result[[]contract.SubmissionSummary] {
	startedAt := time.Now()
	subs, err := s.lifecycle.ListSubmissions(ctx)
	defer observe(ctx, s.observer, "list-drafts", startedAt, nil, &err)
	if err != nil {
		return contract.Failed(userMessage(err), []app.SubmissionSummary{})
	}
	return contract.OK(drafts(subs))
}

func (s *dashboardService) Activities(ctx context.Context, page, limit int) contract.Result[*contract.ActivityPage] {
	startedAt := time.Now()
	res, err := s.dashboard.Activities(ctx, page, limit)
	defer observe(ctx, s.observer, "list-activities", startedAt, map[string]any{"page": page}, &err)
	if err != nil {
		return contract.Failed(userMessage(err), &app.ActivityPage{Results: []app.Activity{}})
	}
	return contract.OK(res)
}

func (s *dashboardService) Notifications(ctx context.Context, page, limit int) contract.Result[*contract.NotificationPage] {
	startedAt := time.Now()
	res, err := s.dashboard.Notifications(ctx, page, limit)
	defer observe(ctx, s.observer, "list-notifications", startedAt, map[string]any{"page": page}, &err)
	if err != nil {
		return contract.Failed(userMessage(err), &app.NotificationPage{Results: []app.Notification{}})
	}
	return contract.OK(res)
}

func (s *dashboardService) MarkActivityRead(ctx context.Context, activityID int64) contract.Result[bool] {
	startedAt := time.Now()
	err := s.dashboard.MarkActivityRead(ctx, activityID)
	defer observe(ctx, s.observer, "mark-activity-read", startedAt, map[string]any{"activity_id": activityID}, &err)
	if err != nil {
		return contract.Failed(userMessage(err), false)
	}
	return contract.OK(true)
}

func (s *dashboardService) RefreshStats(ctx context.Context) contract.Result[bool] {
	startedAt := time.Now()
	err := s.dashboard.RefreshStats(ctx)
	defer observe(ctx, s.observer, "refresh-stats", startedAt, nil, &err)
	if err != nil {
		return contract.Failed(userMessage(err), false)
	}
	return contract.OK(true)
}

func (s *dashboardService) DeleteDraft(ctx context.Context, submissionID string) contract.Result[bool] {
	startedAt := time.Now()
	err := s.lifecycle.DeleteDraft(ctx, submissionID)
	defer observe(ctx, s.observer, "delete-draft", startedAt, map[string]any{"submission_id": submissionID}, &err)
	if err != nil {
		return contract.Failed(userMessage(err), false)
	}
	return contract.OK(true)
}
