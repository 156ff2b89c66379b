package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
)

const draftBarWidth = 10

// FormatOverview renders the applicant dashboard.
func FormatOverview(ov *app.DashboardOverview, now time.Time) string {
	var b strings.Builder

	st := ov.Stats
	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		Bold(fmt.Sprintf("%d proposals", st.TotalProposals)),
		StyleGreen.Render(fmt.Sprintf("%d approved", st.ApprovedProposals)),
		StyleYellow.Render(fmt.Sprintf("%d under evaluation", st.UnderEvaluation)),
		StyleRed.Render(fmt.Sprintf("%d not shortlisted", st.NotShortlisted)),
	)
	b.WriteString(Dim("Updated "+HumanTimestamp(st.LastUpdated, now)) + "\n")

	if len(ov.DraftApplications) > 0 {
		b.WriteString("\n" + Header("Drafts") + "\n")
		b.WriteString(FormatSubmissions(ov.DraftApplications, now))
	}
	if len(ov.CurrentCalls) > 0 {
		b.WriteString("\n" + Header("Open calls") + "\n")
		b.WriteString(formatCallRows(ov.CurrentCalls))
	}
	if len(ov.RecentProposals) > 0 {
		b.WriteString("\n" + Header("Recent proposals") + "\n")
		b.WriteString(FormatProposals(ov.RecentProposals, now))
	}
	if len(ov.RecentActivities) > 0 {
		b.WriteString("\n" + Header("Activity") + "\n")
		b.WriteString(FormatActivities(ov.RecentActivities, now))
	}
	return RenderBox("Dashboard", b.String())
}

func FormatSubmissions(subs []app.SubmissionSummary, now time.Time) string {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.CallName),
			DraftStatusPill(s.Status),
			RenderProgress(s.CompletionPercentage, draftBarWidth),
			HumanTimestamp(s.UpdatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "CALL", "STATUS", "PROGRESS", "UPDATED"}, rows)
}

func FormatCalls(calls *app.CallList) string {
	var b strings.Builder
	b.WriteString(Header("Current calls") + "\n")
	if len(calls.Current) == 0 {
		b.WriteString(Dim("No open calls.") + "\n")
	} else {
		b.WriteString(formatCallRows(calls.Current))
	}
	b.WriteString("\n" + Header("Previous calls") + "\n")
	if len(calls.Previous) == 0 {
		b.WriteString(Dim("No previous calls.") + "\n")
	} else {
		b.WriteString(formatCallRows(calls.Previous))
	}
	return b.String()
}

func formatCallRows(calls []app.Call) string {
	rows := make([][]string, 0, len(calls))
	for _, c := range calls {
		rows = append(rows, []string{
			c.ID,
			Bold(c.Name),
			OrDash(c.TemplateID),
			OrDash(c.StartDate),
			OrDash(c.EndDate),
		})
	}
	return RenderTable([]string{"ID", "NAME", "TEMPLATE", "OPENS", "CLOSES"}, rows)
}

func FormatProposals(list []app.ProposalSummary, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			ProposalStatusStyle(p.Status).Render(p.Status),
			HumanDate(p.UpdatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "UPDATED"}, rows)
}

// FormatProposalStats lists every bucket in display order, empty ones
// included.
func FormatProposalStats(stats app.ProposalStats, now time.Time) string {
	var b strings.Builder
	for i, bucket := range app.ProposalStatBuckets {
		if i > 0 {
			b.WriteString("\n")
		}
		list := stats[bucket]
		b.WriteString(Header(fmt.Sprintf("%s (%d)", bucket, len(list))) + "\n")
		if len(list) > 0 {
			b.WriteString(FormatProposals(list, now))
		}
	}
	return b.String()
}

func FormatProposalDetail(d *app.ProposalDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Bold(d.Title))
	fmt.Fprintf(&b, "%s  %s\n", ProposalStatusStyle(d.Status).Render(d.Status), Dim("submitted "+OrDash(d.SubmissionDate)))
	b.WriteString("\n")
	for _, st := range d.Workflow {
		fmt.Fprintf(&b, "%s %s  %s\n", stageMark(st.Status), Bold(st.Title), Dim(OrDash(st.Date)))
		if st.Evaluator != "" {
			fmt.Fprintf(&b, "    %s\n", Dim("evaluator: "+st.Evaluator))
		}
		if st.Remarks != "" {
			fmt.Fprintf(&b, "    %s\n", st.Remarks)
		}
	}
	return RenderBox("Proposal "+d.ProposalID, b.String())
}

func stageMark(status string) string {
	switch strings.ToLower(status) {
	case "completed":
		return StyleGreen.Render("✔")
	case "in_progress", "current":
		return StyleYellow.Render("●")
	case "rejected":
		return StyleRed.Render("✖")
	default:
		return StyleDim.Render("○")
	}
}

func FormatActivities(list []app.Activity, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		mark := StyleBlue.Render("●")
		if a.IsRead {
			mark = Dim("○")
		}
		rows = append(rows, []string{
			mark,
			strconv.FormatInt(a.ID, 10),
			Bold(a.Title),
			Dim(a.Description),
			HumanTimestamp(a.CreatedAt, now),
		})
	}
	return RenderTable([]string{"", "ID", "TITLE", "DETAIL", "WHEN"}, rows)
}

func FormatNotifications(list []app.Notification, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		mark := StyleBlue.Render("●")
		if n.IsRead {
			mark = Dim("○")
		}
		rows = append(rows, []string{mark, Bold(n.Title), n.Message, HumanTimestamp(n.CreatedAt, now)})
	}
	return RenderTable([]string{"", "TITLE", "MESSAGE", "WHEN"}, rows)
}

// FormatPage prints "page 2 of 5" for a paged listing.
func FormatPage(page, limit, count int) string {
	if limit <= 0 {
		return ""
	}
	pages := max((count+limit-1)/limit, 1)
	return Dim(fmt.Sprintf("page %d of %d, %d total", page, pages, count))
}
