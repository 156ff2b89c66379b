package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

type SQLiteEntityRepo struct {
	db db.DBTX
}

func NewSQLiteEntityRepo(conn db.DBTX) *SQLiteEntityRepo {
	return &SQLiteEntityRepo{db: conn}
}

func (r *SQLiteEntityRepo) Create(ctx context.Context, submissionID string, kind domain.EntityKind, payload app.Record) (int64, error) {
	raw, err := encodePayload(payload)
	if err != nil {
		return 0, err
	}
	now := nowUTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entities (submission_id, kind, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		submissionID, string(kind), raw, now, now)
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading %s id: %w", kind, err)
	}
	return id, nil
}

// Update merges payload over the stored row so file fields not re-sent
// are kept.
func (r *SQLiteEntityRepo) Update(ctx context.Context, kind domain.EntityKind, id int64, payload app.Record) error {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM entities WHERE id = ? AND kind = ?`, id, string(kind)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading %s %d: %w", kind, id, err)
	}
	stored, err := decodePayload(raw)
	if err != nil {
		return err
	}
	merged, err := encodePayload(app.Merge(stored, payload))
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entities SET payload = ?, updated_at = ? WHERE id = ?`,
		merged, time.Now().UTC().Format(time.RFC3339), id); err != nil {
		return fmt.Errorf("updating %s %d: %w", kind, id, err)
	}
	return nil
}

func (r *SQLiteEntityRepo) Delete(ctx context.Context, kind domain.EntityKind, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ? AND kind = ?`, id, string(kind))
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

// ListBySubmission returns the rows of one kind in insertion order, each
// carrying its id under "id".
func (r *SQLiteEntityRepo) ListBySubmission(ctx context.Context, submissionID string, kind domain.EntityKind) ([]app.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payload FROM entities WHERE submission_id = ? AND kind = ? ORDER BY id`,
		submissionID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing %s rows: %w", kind, err)
	}
	defer rows.Close()

	var out []app.Record
	for rows.Next() {
		var (
			id  int64
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", kind, err)
		}
		rec, err := decodePayload(raw)
		if err != nil {
			return nil, err
		}
		rec["id"] = float64(id)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", kind, err)
	}
	return out, nil
}
