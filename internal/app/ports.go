package app

import (
	"context"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// SubmissionLifecycle creates, inspects and submits drafts.
type SubmissionLifecycle interface {
	CreateDraft(ctx context.Context, templateID, serviceID string) (*CreatedDraft, error)
	GetStatus(ctx context.Context, submissionID string) (*SectionCompletionSummary, error)
	Submit(ctx context.Context, submissionID string) (*OperationResult, error)
	SetOptionalCompletion(ctx context.Context, submissionID string, section domain.SectionID, completed bool) (*OperationResult, error)
	GetOptionalCompletion(ctx context.Context, submissionID string) ([]domain.SectionID, error)
	DeleteDraft(ctx context.Context, submissionID string) error
	ListSubmissions(ctx context.Context) ([]SubmissionSummary, error)
}

// SectionStore reads and writes one section record of a draft.
type SectionStore interface {
	GetSection(ctx context.Context, submissionID string, section domain.SectionID) (Record, error)
	UpdateSection(ctx context.Context, submissionID string, section domain.SectionID, fields Record, files []FileUpload) (*OperationResult, error)
}

// EntityStore persists list-valued sub-entity rows. Ids are positive once
// persisted.
type EntityStore interface {
	AddEntity(ctx context.Context, submissionID string, kind domain.EntityKind, fields Record, files []FileUpload) (*EntityResult, error)
	UpdateEntity(ctx context.Context, submissionID string, kind domain.EntityKind, id int64, fields Record, files []FileUpload) (*OperationResult, error)
	DeleteEntity(ctx context.Context, kind domain.EntityKind, id int64) (*OperationResult, error)
}

// Persistence bundles the collaborators the editing session needs.
type Persistence interface {
	SubmissionLifecycle
	SectionStore
	EntityStore
}

// Dashboard serves read-only applicant summaries.
type Dashboard interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
	ProposalStats(ctx context.Context) (ProposalStats, error)
	ProposalDetail(ctx context.Context, proposalID string) (*ProposalDetail, error)
	Calls(ctx context.Context) (*CallList, error)
	Activities(ctx context.Context, page, limit int) (*ActivityPage, error)
	MarkActivityRead(ctx context.Context, activityID int64) error
	RefreshStats(ctx context.Context) error
	Notifications(ctx context.Context, page, limit int) (*NotificationPage, error)
}

// CredentialSource supplies the bearer credential for each request.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}
