package service

import (
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/remote"
)

// userMessage turns a collaborator error into the text shown next to a
// fallback.
func userMessage(err error) string {
	var se *remote.StatusError
	switch {
	case errors.Is(err, app.ErrUnauthenticated):
		return "Authentication required. Please log in again."
	case errors.Is(err, remote.ErrUnavailable):
		return "Network connection error. Please check your internet connection."
	case errors.As(err, &se) && se.StatusCode >= 500:
		return "Server error. Please try again later."
	case err == nil:
		return ""
	}
	msg := err.Error()
	if msg == "" {
		return "An unexpected error occurred."
	}
	return msg
}

func fallbackOverview(now time.Time) *app.DashboardOverview {
	return &app.DashboardOverview{
		Stats:             app.DashboardStats{LastUpdated: now},
		RecentActivities:  []app.Activity{},
		DraftApplications: []app.SubmissionSummary{},
		CurrentCalls:      []app.Call{},
		RecentProposals:   []app.ProposalSummary{},
	}
}

func fallbackProposalStats() app.ProposalStats {
	out := make(app.ProposalStats, len(app.ProposalStatBuckets))
	for _, bucket := range app.ProposalStatBuckets {
		out[bucket] = []app.ProposalSummary{}
	}
	return out
}

func fallbackProposalDetail(proposalID string) *app.ProposalDetail {
	return &app.ProposalDetail{
		ProposalID: proposalID,
		Title:      "Proposal Details Not Available",
		Status:     "Unknown",
		Workflow: []app.WorkflowStage{{
			Stage:   "submitted",
			Title:   "Proposal Submitted",
			Status:  "completed",
			Date:    "Unknown",
			Remarks: "Data not available - please check back later",
		}},
	}
}

// splitCalls partitions calls on the Active status.
func splitCalls(calls []app.Call) (current, previous []app.Call) {
	current, previous = []app.Call{}, []app.Call{}
	for _, c := range calls {
		if c.Active() {
			current = append(current, c)
		} else {
			previous = append(previous, c)
		}
	}
	return current, previous
}

func drafts(subs []app.SubmissionSummary) []app.SubmissionSummary {
	out := []app.SubmissionSummary{}
	for _, s := range subs {
		if s.Status == domain.DraftInProgress {
			out = append(out, s)
		}
	}
	return out
}

func normalizeStage(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
