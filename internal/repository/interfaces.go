package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Submission is one stored draft or submitted application.
type Submission struct {
	ID          string
	TemplateID  string
	ServiceID   string
	FormID      string
	CallName    string
	Status      domain.DraftStatus
	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
	MarkSubmitted(ctx context.Context, id string, at time.Time) error
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// SectionRecordRepo stores one wire record per section, plus the files
// uploaded against its fields.
type SectionRecordRepo interface {
	Get(ctx context.Context, submissionID string, section domain.SectionID) (app.Record, error)
	Upsert(ctx context.Context, submissionID string, section domain.SectionID, payload app.Record) error
	PutFile(ctx context.Context, submissionID string, section domain.SectionID, field, path string) error
	ListSaved(ctx context.Context, submissionID string) ([]domain.SectionID, error)
}

type OptionalCompletionRepo interface {
	Set(ctx context.Context, submissionID string, section domain.SectionID, completed bool) error
	List(ctx context.Context, submissionID string) ([]domain.SectionID, error)
}

// EntityRepo stores sub-entity rows. Ids are allocated by the database
// and always positive.
type EntityRepo interface {
	Create(ctx context.Context, submissionID string, kind domain.EntityKind, payload app.Record) (int64, error)
	Update(ctx context.Context, kind domain.EntityKind, id int64, payload app.Record) error
	Delete(ctx context.Context, kind domain.EntityKind, id int64) error
	ListBySubmission(ctx context.Context, submissionID string, kind domain.EntityKind) ([]app.Record, error)
}

type ActivityRepo interface {
	Create(ctx context.Context, submissionID string, a *app.Activity) error
	List(ctx context.Context, offset, limit int) ([]app.Activity, error)
	Count(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int64) error
}

type CallRepo interface {
	Upsert(ctx context.Context, c *app.Call) error
	List(ctx context.Context) ([]app.Call, error)
	GetByTemplate(ctx context.Context, templateID string) (*app.Call, error)
}

type StatsRepo interface {
	LastRefreshed(ctx context.Context) (time.Time, error)
	Refresh(ctx context.Context, at time.Time) error
}
