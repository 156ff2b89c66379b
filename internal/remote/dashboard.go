package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

const dashboardBase = "applicant-dashboard"

func (c *Client) Overview(ctx context.Context) (*app.DashboardOverview, error) {
	resp, err := c.call(ctx, request{method: http.MethodGet, path: dashboardBase + "/overview/"})
	if err != nil {
		return nil, fmt.Errorf("fetching overview: %w", err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	stats := rec.Object("stats")
	if stats == nil {
		stats = app.Record{}
	}
	out := &app.DashboardOverview{
		Stats: app.DashboardStats{
			TotalProposals:    stats.Int("total_proposals"),
			ApprovedProposals: stats.Int("approved_proposals"),
			UnderEvaluation:   stats.Int("under_evaluation"),
			NotShortlisted:    stats.Int("not_shortlisted"),
			LastUpdated:       parseTime(stats.String("last_updated")),
		},
	}
	for _, a := range rec.Records("recent_activities") {
		out.RecentActivities = append(out.RecentActivities, activity(a))
	}
	for _, d := range rec.Records("draft_applications") {
		out.DraftApplications = append(out.DraftApplications, submission(d))
	}
	for _, cl := range rec.Records("current_calls") {
		out.CurrentCalls = append(out.CurrentCalls, call(cl))
	}
	for _, p := range rec.Records("recent_proposals") {
		out.RecentProposals = append(out.RecentProposals, proposal(p))
	}
	return out, nil
}

func (c *Client) ProposalStats(ctx context.Context) (app.ProposalStats, error) {
	resp, err := c.call(ctx, request{method: http.MethodGet, path: dashboardBase + "/proposal-stats/"})
	if err != nil {
		return nil, fmt.Errorf("fetching proposal stats: %w", err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	out := make(app.ProposalStats, len(app.ProposalStatBuckets))
	for _, bucket := range app.ProposalStatBuckets {
		list := []app.ProposalSummary{}
		for _, p := range rec.Records(bucket) {
			list = append(list, proposal(p))
		}
		out[bucket] = list
	}
	return out, nil
}

func (c *Client) ProposalDetail(ctx context.Context, proposalID string) (*app.ProposalDetail, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   dashboardBase + "/proposal-details/" + url.PathEscape(proposalID) + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching proposal %s: %w", proposalID, err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	detail := &app.ProposalDetail{
		ProposalID:     domain.CoalesceStr(rec.String("proposal_id", "proposalId"), proposalID),
		Title:          domain.CoalesceStr(rec.String("title"), "Untitled Proposal"),
		Status:         domain.CoalesceStr(rec.String("status"), "Unknown"),
		SubmissionDate: rec.String("submission_date", "submissionDate"),
	}
	for _, st := range rec.Records("workflow", "tracking") {
		detail.Workflow = append(detail.Workflow, WorkflowStage(st))
	}
	return detail, nil
}

// WorkflowStage normalizes one tracking entry, falling back across the
// alternative key names servers have used.
func WorkflowStage(rec app.Record) app.WorkflowStage {
	return app.WorkflowStage{
		Stage:     domain.CoalesceStr(rec.String("stage"), strings.ToLower(rec.String("name"))),
		Title:     domain.CoalesceStr(rec.String("title", "name"), "Unknown Stage"),
		Status:    domain.CoalesceStr(rec.String("status"), "pending"),
		Date:      rec.String("date", "timestamp", "created_at"),
		Evaluator: rec.String("evaluator", "assigned_to"),
		Remarks:   rec.String("remarks", "comments", "notes"),
	}
}

func (c *Client) Calls(ctx context.Context) (*app.CallList, error) {
	resp, err := c.call(ctx, request{method: http.MethodGet, path: dashboardBase + "/calls/"})
	if err != nil {
		return nil, fmt.Errorf("fetching calls: %w", err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	out := &app.CallList{}
	for _, cl := range rec.Records("current_calls") {
		out.Current = append(out.Current, call(cl))
	}
	for _, cl := range rec.Records("previous_calls") {
		out.Previous = append(out.Previous, call(cl))
	}
	return out, nil
}

func (c *Client) Activities(ctx context.Context, page, limit int) (*app.ActivityPage, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   dashboardBase + "/activities/",
		query:  pageQuery(page, limit),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	recs, count, err := paged(resp)
	if err != nil {
		return nil, err
	}
	out := &app.ActivityPage{Count: count, Results: []app.Activity{}}
	for _, a := range recs {
		out.Results = append(out.Results, activity(a))
	}
	return out, nil
}

func (c *Client) MarkActivityRead(ctx context.Context, activityID int64) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   dashboardBase + "/activities/" + strconv.FormatInt(activityID, 10) + "/mark_as_read/",
	})
	if err != nil {
		return fmt.Errorf("marking activity %d read: %w", activityID, err)
	}
	return nil
}

func (c *Client) RefreshStats(ctx context.Context) error {
	if _, err := c.call(ctx, request{method: http.MethodPost, path: dashboardBase + "/refresh-stats/"}); err != nil {
		return fmt.Errorf("refreshing stats: %w", err)
	}
	return nil
}

func (c *Client) Notifications(ctx context.Context, page, limit int) (*app.NotificationPage, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   dashboardBase + "/notifications/",
		query:  pageQuery(page, limit),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	recs, count, err := paged(resp)
	if err != nil {
		return nil, err
	}
	out := &app.NotificationPage{Count: count, Results: []app.Notification{}}
	for _, n := range recs {
		out.Results = append(out.Results, app.Notification{
			ID:        n.ID("id"),
			Title:     n.String("title"),
			Message:   n.String("message", "description"),
			IsRead:    n.Bool("is_read"),
			CreatedAt: parseTime(n.String("created_at")),
		})
	}
	return out, nil
}

func pageQuery(page, limit int) url.Values {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
}

// paged reads a {results, count} page. A bare list counts its own length.
func paged(resp *response) ([]app.Record, int, error) {
	recs, err := records(resp.Data, "results")
	if err != nil {
		return nil, 0, err
	}
	count := len(recs)
	if rec, err := record(resp.Data); err == nil {
		if n := rec.Int("count"); n > 0 {
			count = n
		}
	}
	return recs, count, nil
}

func activity(rec app.Record) app.Activity {
	return app.Activity{
		ID:          rec.ID("id"),
		Title:       rec.String("title"),
		Description: rec.String("description"),
		Type:        domain.CoalesceStr(rec.String("activity_type"), "system_update"),
		IsRead:      rec.Bool("is_read"),
		CreatedAt:   parseTime(rec.String("created_at")),
	}
}

func call(rec app.Record) app.Call {
	return app.Call{
		ID:          rec.String("id"),
		TemplateID:  rec.String("template_id", "template"),
		Name:        rec.String("name", "title", "subject"),
		Description: rec.String("description"),
		Status:      rec.String("status"),
		StartDate:   rec.String("start_date", "create_date"),
		EndDate:     rec.String("end_date", "call_end_date"),
	}
}

func proposal(rec app.Record) app.ProposalSummary {
	return app.ProposalSummary{
		ID:        rec.String("id", "proposal_id"),
		Title:     rec.String("title", "project_title"),
		Status:    rec.String("status"),
		CallName:  rec.String("call_name", "call_title"),
		UpdatedAt: parseTime(rec.String("updated_at", "submitted_at")),
	}
}

func submission(rec app.Record) app.SubmissionSummary {
	return app.SubmissionSummary{
		ID:                   rec.String("id", "submission_id"),
		FormID:               rec.String("form_id"),
		CallName:             domain.CoalesceStr(rec.String("call_title", "call_name"), "Untitled Call"),
		Status:               draftStatus(rec.String("status")),
		CompletionPercentage: rec.Int("completion_percentage", "progress"),
		CreatedAt:            parseTime(rec.String("created_at")),
		UpdatedAt:            parseTime(rec.String("updated_at")),
	}
}
