package app

import (
	"time"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// FileUpload is a local file attached to a multipart field.
type FileUpload struct {
	Field string
	Path  string
}

// OperationResult mirrors the collaborator's {success, message} reply.
type OperationResult struct {
	Success bool
	Message string
}

type CreatedDraft struct {
	ID string
}

// SectionCompletionSummary describes a stored draft.
type SectionCompletionSummary struct {
	SubmissionID string
	Status       domain.DraftStatus
	FormID       string
	CallName     string
	UpdatedAt    time.Time
}

// SubmissionSummary is one row of the applicant's submission list.
type SubmissionSummary struct {
	ID                   string
	FormID               string
	CallName             string
	Status               domain.DraftStatus
	CompletionPercentage int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// EntityResult carries the id assigned to a newly added sub-entity row.
type EntityResult struct {
	ID      int64
	Message string
}
