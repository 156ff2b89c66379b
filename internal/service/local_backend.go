package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/repository"
	"github.com/google/uuid"
)

// ErrAlreadySubmitted is returned when a write targets a submitted
// application.
var ErrAlreadySubmitted = errors.New("application already submitted")

// entityListKeys names the record key each sub-entity list is served
// under when its owning section is read.
var entityListKeys = map[domain.EntityKind]string{
	domain.EntityCollaborator:   "collaborators",
	domain.EntityShareHolder:    "shareholders",
	domain.EntitySubShareHolder: "sub_shareholders",
	domain.EntityRDStaff:        "rdstaff",
	domain.EntityEquipment:      "equipments",
	domain.EntityTeamMember:     "team_members",
}

// LocalBackend keeps drafts in a SQLite file so the wizard works without
// the grant portal. It serves both the wizard ports and the dashboard.
type LocalBackend struct {
	submissions repository.SubmissionRepo
	sections    repository.SectionRecordRepo
	optional    repository.OptionalCompletionRepo
	entities    repository.EntityRepo
	activities  repository.ActivityRepo
	calls       repository.CallRepo
	stats       repository.StatsRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
	now         func() time.Time
}

var _ Backend = (*LocalBackend)(nil)

func NewLocalBackend(conn *sql.DB, observers ...UseCaseObserver) *LocalBackend {
	return &LocalBackend{
		submissions: repository.NewSQLiteSubmissionRepo(conn),
		sections:    repository.NewSQLiteSectionRecordRepo(conn),
		optional:    repository.NewSQLiteOptionalCompletionRepo(conn),
		entities:    repository.NewSQLiteEntityRepo(conn),
		activities:  repository.NewSQLiteActivityRepo(conn),
		calls:       repository.NewSQLiteCallRepo(conn),
		stats:       repository.NewSQLiteStatsRepo(conn),
		uow:         db.NewSQLiteUnitOfWork(conn),
		observer:    useCaseObserverOrNoop(observers),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (b *LocalBackend) CreateDraft(ctx context.Context, templateID, serviceID string) (created *app.CreatedDraft, err error) {
	startedAt := time.Now()
	fields := map[string]any{"template_id": templateID}
	defer observe(ctx, b.observer, "create-draft", startedAt, fields, &err)

	now := b.now()
	sub := &repository.Submission{
		ID:         uuid.New().String(),
		TemplateID: templateID,
		ServiceID:  serviceID,
		Status:     domain.DraftInProgress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if call, err := repository.NewSQLiteCallRepo(tx).GetByTemplate(ctx, templateID); err == nil {
			sub.CallName = call.Name
			sub.FormID = call.ID
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := repository.NewSQLiteSubmissionRepo(tx).Create(ctx, sub); err != nil {
			return err
		}
		return repository.NewSQLiteActivityRepo(tx).Create(ctx, sub.ID, &app.Activity{
			Type:      "draft_created",
			Title:     "Draft created",
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}
	fields["submission_id"] = sub.ID
	return &app.CreatedDraft{ID: sub.ID}, nil
}

func (b *LocalBackend) GetStatus(ctx context.Context, submissionID string) (*app.SectionCompletionSummary, error) {
	sub, err := b.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return &app.SectionCompletionSummary{
		SubmissionID: sub.ID,
		Status:       sub.Status,
		FormID:       sub.FormID,
		CallName:     sub.CallName,
		UpdatedAt:    sub.UpdatedAt,
	}, nil
}

func (b *LocalBackend) Submit(ctx context.Context, submissionID string) (res *app.OperationResult, err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "submit", startedAt, map[string]any{"submission_id": submissionID}, &err)

	now := b.now()
	err = b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		subs := repository.NewSQLiteSubmissionRepo(tx)
		sub, err := subs.GetByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if sub.Status == domain.DraftSubmitted {
			return fmt.Errorf("submission %s: %w", submissionID, ErrAlreadySubmitted)
		}
		if err := subs.MarkSubmitted(ctx, submissionID, now); err != nil {
			return err
		}
		return repository.NewSQLiteActivityRepo(tx).Create(ctx, submissionID, &app.Activity{
			Type:        "proposal_submitted",
			Title:       "Application submitted",
			Description: sub.CallName,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &app.OperationResult{Success: true, Message: "Application submitted successfully"}, nil
}

func (b *LocalBackend) SetOptionalCompletion(ctx context.Context, submissionID string, section domain.SectionID, completed bool) (*app.OperationResult, error) {
	if _, err := b.draft(ctx, b.submissions, submissionID); err != nil {
		return nil, err
	}
	if err := b.optional.Set(ctx, submissionID, section, completed); err != nil {
		return nil, err
	}
	return &app.OperationResult{Success: true}, nil
}

func (b *LocalBackend) GetOptionalCompletion(ctx context.Context, submissionID string) ([]domain.SectionID, error) {
	if _, err := b.submissions.GetByID(ctx, submissionID); err != nil {
		return nil, err
	}
	return b.optional.List(ctx, submissionID)
}

// DeleteDraft removes a draft and everything stored under it. Submitted
// applications cannot be deleted.
func (b *LocalBackend) DeleteDraft(ctx context.Context, submissionID string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "delete-draft", startedAt, map[string]any{"submission_id": submissionID}, &err)

	return b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		subs := repository.NewSQLiteSubmissionRepo(tx)
		sub, err := b.draft(ctx, subs, submissionID)
		if err != nil {
			return err
		}
		if err := subs.Delete(ctx, submissionID); err != nil {
			return err
		}
		return repository.NewSQLiteActivityRepo(tx).Create(ctx, submissionID, &app.Activity{
			Type:        "draft_deleted",
			Title:       "Draft deleted",
			Description: sub.CallName,
			CreatedAt:   b.now(),
		})
	})
}

func (b *LocalBackend) ListSubmissions(ctx context.Context) ([]app.SubmissionSummary, error) {
	subs, err := b.submissions.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.SubmissionSummary, 0, len(subs))
	for _, sub := range subs {
		pct, err := b.completion(ctx, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, summary(sub, pct))
	}
	return out, nil
}

// completion approximates progress as the share of sections that have been
// saved or explicitly marked complete.
func (b *LocalBackend) completion(ctx context.Context, sub *repository.Submission) (int, error) {
	if sub.Status == domain.DraftSubmitted {
		return 100, nil
	}
	saved, err := b.sections.ListSaved(ctx, sub.ID)
	if err != nil {
		return 0, err
	}
	marked, err := b.optional.List(ctx, sub.ID)
	if err != nil {
		return 0, err
	}
	seen := make(map[domain.SectionID]bool, domain.SectionCount)
	for _, id := range append(saved, marked...) {
		seen[id] = true
	}
	return len(seen) * 100 / domain.SectionCount, nil
}

func (b *LocalBackend) GetSection(ctx context.Context, submissionID string, section domain.SectionID) (app.Record, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("section %d: %w", int(section), app.ErrNotFound)
	}
	if _, err := b.submissions.GetByID(ctx, submissionID); err != nil {
		return nil, err
	}
	rec, err := b.sections.Get(ctx, submissionID, section)
	if err != nil {
		return nil, err
	}
	for _, kind := range domain.AllEntityKinds() {
		if kind.Section() != section {
			continue
		}
		rows, err := b.entities.ListBySubmission(ctx, submissionID, kind)
		if err != nil {
			return nil, err
		}
		list := make([]any, len(rows))
		for i, row := range rows {
			list[i] = map[string]any(row)
		}
		rec[entityListKeys[kind]] = list
	}
	return rec, nil
}

// UpdateSection replaces the stored record. Files are stored by absolute
// path and stay attached until a later upload replaces them.
func (b *LocalBackend) UpdateSection(ctx context.Context, submissionID string, section domain.SectionID, fields app.Record, files []app.FileUpload) (res *app.OperationResult, err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "update-section", startedAt, map[string]any{
		"submission_id": submissionID,
		"section":       section.Key(),
		"files":         len(files),
	}, &err)

	if !section.Valid() {
		return nil, fmt.Errorf("section %d: %w", int(section), app.ErrNotFound)
	}
	payload := app.Merge(fields)
	delete(payload, "submission_id")

	err = b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		subs := repository.NewSQLiteSubmissionRepo(tx)
		if _, err := b.draft(ctx, subs, submissionID); err != nil {
			return err
		}
		sections := repository.NewSQLiteSectionRecordRepo(tx)
		if err := sections.Upsert(ctx, submissionID, section, payload); err != nil {
			return err
		}
		for _, f := range files {
			path, err := filepath.Abs(f.Path)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", f.Path, err)
			}
			if err := sections.PutFile(ctx, submissionID, section, f.Field, path); err != nil {
				return err
			}
		}
		return subs.Touch(ctx, submissionID, b.now())
	})
	if err != nil {
		return nil, err
	}
	return &app.OperationResult{Success: true, Message: section.Name() + " saved"}, nil
}

func (b *LocalBackend) AddEntity(ctx context.Context, submissionID string, kind domain.EntityKind, fields app.Record, files []app.FileUpload) (*app.EntityResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if _, err := b.draft(ctx, b.submissions, submissionID); err != nil {
		return nil, err
	}
	payload, err := entityPayload(fields, files)
	if err != nil {
		return nil, err
	}
	id, err := b.entities.Create(ctx, submissionID, kind, payload)
	if err != nil {
		return nil, err
	}
	return &app.EntityResult{ID: id}, nil
}

func (b *LocalBackend) UpdateEntity(ctx context.Context, submissionID string, kind domain.EntityKind, id int64, fields app.Record, files []app.FileUpload) (*app.OperationResult, error) {
	if _, err := b.draft(ctx, b.submissions, submissionID); err != nil {
		return nil, err
	}
	payload, err := entityPayload(fields, files)
	if err != nil {
		return nil, err
	}
	if err := b.entities.Update(ctx, kind, id, payload); err != nil {
		return nil, err
	}
	return &app.OperationResult{Success: true}, nil
}

func (b *LocalBackend) DeleteEntity(ctx context.Context, kind domain.EntityKind, id int64) (*app.OperationResult, error) {
	if err := b.entities.Delete(ctx, kind, id); err != nil {
		return nil, err
	}
	return &app.OperationResult{Success: true}, nil
}

// ImportCalls upserts the given calls in one transaction.
func (b *LocalBackend) ImportCalls(ctx context.Context, calls []app.Call) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "import-calls", startedAt, map[string]any{"count": len(calls)}, &err)

	return b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCallRepo(tx)
		for i := range calls {
			if calls[i].ID == "" || calls[i].Name == "" {
				return fmt.Errorf("call %d: id and name are required", i+1)
			}
			if err := repo.Upsert(ctx, &calls[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// draft loads a submission and rejects it when already submitted.
func (b *LocalBackend) draft(ctx context.Context, subs repository.SubmissionRepo, id string) (*repository.Submission, error) {
	sub, err := subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == domain.DraftSubmitted {
		return nil, fmt.Errorf("submission %s: %w", id, ErrAlreadySubmitted)
	}
	return sub, nil
}

func entityPayload(fields app.Record, files []app.FileUpload) (app.Record, error) {
	payload := app.Merge(fields)
	delete(payload, "submission_id")
	for _, f := range files {
		path, err := filepath.Abs(f.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f.Path, err)
		}
		payload[f.Field] = path
	}
	return payload, nil
}

func summary(sub *repository.Submission, pct int) app.SubmissionSummary {
	return app.SubmissionSummary{
		ID:                   sub.ID,
		FormID:               sub.FormID,
		CallName:             domain.CoalesceStr(sub.CallName, "Untitled Call"),
		Status:               sub.Status,
		CompletionPercentage: pct,
		CreatedAt:            sub.CreatedAt,
		UpdatedAt:            sub.UpdatedAt,
	}
}
