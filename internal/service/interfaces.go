package service

import (
	"context"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/contract"
)

// DashboardService serves the applicant dashboard. Every call succeeds at
// the Go level; collaborator failures come back as an error Result whose
// Data is a renderable fallback.
type DashboardService interface {
	Overview(ctx context.Context) contract.Result[*contract.DashboardOverview]
	ProposalStats(ctx context.Context) contract.Result[contract.ProposalStats]
	ProposalDetail(ctx context.Context, proposalID string) contract.Result[*contract.ProposalDetail]
	Calls(ctx context.Context) contract.Result[*contract.CallList]
	Drafts(ctx context.Context) contract.Result[[]contract.SubmissionSummary]
	Activities(ctx context.Context, page, limit int) contract.Result[*contract.ActivityPage]
	Notifications(ctx context.Context, page, limit int) contract.Result[*contract.NotificationPage]
	MarkActivityRead(ctx context.Context, activityID int64) contract.Result[bool]
	RefreshStats(ctx context.Context) contract.Result[bool]
	DeleteDraft(ctx context.Context, submissionID string) contract.Result[bool]
}

// Backend is everything a storage backend provides: the wizard's
// persistence ports plus dashboard reads.
type Backend interface {
	app.Persistence
	app.Dashboard
}
