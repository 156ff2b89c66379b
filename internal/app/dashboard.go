package app

import "time"

type DashboardStats struct {
	TotalProposals    int
	ApprovedProposals int
	UnderEvaluation   int
	NotShortlisted    int
	LastUpdated       time.Time
}

type Activity struct {
	ID          int64
	Title       string
	Description string
	Type        string
	IsRead      bool
	CreatedAt   time.Time
}

type Call struct {
	ID          string
	TemplateID  string
	Name        string
	Description string
	Status      string
	StartDate   string
	EndDate     string
}

// Active reports whether the call is currently open for applications.
func (c Call) Active() bool {
	return c.Status == "Active"
}

type ProposalSummary struct {
	ID        string
	Title     string
	Status    string
	CallName  string
	UpdatedAt time.Time
}

type DashboardOverview struct {
	Stats             DashboardStats
	RecentActivities  []Activity
	DraftApplications []SubmissionSummary
	CurrentCalls      []Call
	RecentProposals   []ProposalSummary
}

type CallList struct {
	Current  []Call
	Previous []Call
}

// ProposalStatBuckets lists the proposal-stats buckets in display order.
var ProposalStatBuckets = []string{
	"Submitted",
	"Screening",
	"Evaluation",
	"Interview",
	"Approved",
	"Not Shortlisted",
	"History",
}

// ProposalStats maps each bucket name to the proposals in it.
type ProposalStats map[string][]ProposalSummary

type ActivityPage struct {
	Results []Activity
	Count   int
}

type Notification struct {
	ID        int64
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

type NotificationPage struct {
	Results []Notification
	Count   int
}

type WorkflowStage struct {
	Stage     string
	Title     string
	Status    string
	Date      string
	Evaluator string
	Remarks   string
}

type ProposalDetail struct {
	ProposalID     string
	Title          string
	Status         string
	SubmissionDate string
	Workflow       []WorkflowStage
}
