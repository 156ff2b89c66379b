package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

type SQLiteSubmissionRepo struct {
	db db.DBTX
}

func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

const submissionColumns = `id, template_id, service_id, form_id, call_name, status, submitted_at, created_at, updated_at`

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *Submission) error {
	query := `INSERT INTO submissions (` + submissionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TemplateID,
		s.ServiceID,
		s.FormID,
		s.CallName,
		string(s.Status),
		nullableTime(s.SubmittedAt),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) GetByID(ctx context.Context, id string) (*Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSubmissionRepo) List(ctx context.Context) ([]*Submission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubmissionRepo) MarkSubmitted(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE submissions SET status = ?, submitted_at = ?, updated_at = ? WHERE id = ?`
	return r.exec(ctx, "marking submission submitted", id, query,
		string(domain.DraftSubmitted), formatTime(at), formatTime(at), id)
}

func (r *SQLiteSubmissionRepo) Touch(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "touching submission", id,
		`UPDATE submissions SET updated_at = ? WHERE id = ?`, formatTime(at), id)
}

func (r *SQLiteSubmissionRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "deleting submission", id, `DELETE FROM submissions WHERE id = ?`, id)
}

func (r *SQLiteSubmissionRepo) exec(ctx context.Context, what, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*Submission, error) {
	var (
		s                    Submission
		status               string
		submittedAt          sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&s.ID, &s.TemplateID, &s.ServiceID, &s.FormID, &s.CallName,
		&status, &submittedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning submission: %w", err)
	}
	s.Status = domain.DraftStatus(status)
	s.SubmittedAt = parseNullableTime(submittedAt)
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
