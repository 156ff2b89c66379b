package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

type SQLiteSectionRecordRepo struct {
	db db.DBTX
}

func NewSQLiteSectionRecordRepo(conn db.DBTX) *SQLiteSectionRecordRepo {
	return &SQLiteSectionRecordRepo{db: conn}
}

// Get returns the stored payload with uploaded file paths laid over their
// fields. A section never saved yields an empty record.
func (r *SQLiteSectionRecordRepo) Get(ctx context.Context, submissionID string, section domain.SectionID) (app.Record, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM section_records WHERE submission_id = ? AND section = ?`,
		submissionID, int(section)).Scan(&raw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %s: %w", section.Key(), err)
	}
	rec, err := decodePayload(raw)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT field, path FROM section_files WHERE submission_id = ? AND section = ? ORDER BY field`,
		submissionID, int(section))
	if err != nil {
		return nil, fmt.Errorf("loading files of %s: %w", section.Key(), err)
	}
	defer rows.Close()
	for rows.Next() {
		var field, path string
		if err := rows.Scan(&field, &path); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		rec[field] = path
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return rec, nil
}

func (r *SQLiteSectionRecordRepo) Upsert(ctx context.Context, submissionID string, section domain.SectionID, payload app.Record) error {
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}
	query := `INSERT INTO section_records (submission_id, section, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(submission_id, section) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, submissionID, int(section), raw, nowUTC()); err != nil {
		return fmt.Errorf("saving %s: %w", section.Key(), err)
	}
	return nil
}

func (r *SQLiteSectionRecordRepo) PutFile(ctx context.Context, submissionID string, section domain.SectionID, field, path string) error {
	query := `INSERT INTO section_files (submission_id, section, field, path)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(submission_id, section, field) DO UPDATE SET path = excluded.path`
	if _, err := r.db.ExecContext(ctx, query, submissionID, int(section), field, path); err != nil {
		return fmt.Errorf("saving file %s of %s: %w", field, section.Key(), err)
	}
	return nil
}

// ListSaved returns the sections that have a stored record, in order.
func (r *SQLiteSectionRecordRepo) ListSaved(ctx context.Context, submissionID string) ([]domain.SectionID, error) {
	return listSections(ctx, r.db,
		`SELECT section FROM section_records WHERE submission_id = ? ORDER BY section`, submissionID)
}

type SQLiteOptionalCompletionRepo struct {
	db db.DBTX
}

func NewSQLiteOptionalCompletionRepo(conn db.DBTX) *SQLiteOptionalCompletionRepo {
	return &SQLiteOptionalCompletionRepo{db: conn}
}

func (r *SQLiteOptionalCompletionRepo) Set(ctx context.Context, submissionID string, section domain.SectionID, completed bool) error {
	var err error
	if completed {
		_, err = r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO optional_completions (submission_id, section, completed_at) VALUES (?, ?, ?)`,
			submissionID, int(section), nowUTC())
	} else {
		_, err = r.db.ExecContext(ctx,
			`DELETE FROM optional_completions WHERE submission_id = ? AND section = ?`,
			submissionID, int(section))
	}
	if err != nil {
		return fmt.Errorf("setting completion of %s: %w", section.Key(), err)
	}
	return nil
}

func (r *SQLiteOptionalCompletionRepo) List(ctx context.Context, submissionID string) ([]domain.SectionID, error) {
	return listSections(ctx, r.db,
		`SELECT section FROM optional_completions WHERE submission_id = ? ORDER BY section`, submissionID)
}

func listSections(ctx context.Context, conn db.DBTX, query, submissionID string) ([]domain.SectionID, error) {
	rows, err := conn.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var out []domain.SectionID
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		out = append(out, domain.SectionID(n))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return out, nil
}
