package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/db"
)

type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

// Create inserts a and sets its ID. A zero CreatedAt is stamped with the
// current time.
func (r *SQLiteActivityRepo) Create(ctx context.Context, submissionID string, a *app.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.Type == "" {
		a.Type = "system_update"
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (submission_id, activity_type, title, description, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		submissionID, a.Type, a.Title, a.Description, boolToInt(a.IsRead), formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading activity id: %w", err)
	}
	return nil
}

// List returns activities newest first.
func (r *SQLiteActivityRepo) List(ctx context.Context, offset, limit int) ([]app.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, activity_type, title, description, is_read, created_at
		FROM activities ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	out := []app.Activity{}
	for rows.Next() {
		var (
			a         app.Activity
			isRead    int
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Type, &a.Title, &a.Description, &isRead, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.IsRead = isRead != 0
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *SQLiteActivityRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return n, nil
}

func (r *SQLiteActivityRepo) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE activities SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking activity %d read: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	return nil
}

type SQLiteCallRepo struct {
	db db.DBTX
}

func NewSQLiteCallRepo(conn db.DBTX) *SQLiteCallRepo {
	return &SQLiteCallRepo{db: conn}
}

func (r *SQLiteCallRepo) Upsert(ctx context.Context, c *app.Call) error {
	query := `INSERT INTO calls (id, template_id, name, description, status, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET template_id = excluded.template_id, name = excluded.name,
			description = excluded.description, status = excluded.status,
			start_date = excluded.start_date, end_date = excluded.end_date`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.TemplateID, c.Name, c.Description, c.Status, c.StartDate, c.EndDate)
	if err != nil {
		return fmt.Errorf("saving call %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteCallRepo) List(ctx context.Context) ([]app.Call, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, template_id, name, description, status, start_date, end_date FROM calls ORDER BY start_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing calls: %w", err)
	}
	defer rows.Close()

	var out []app.Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calls: %w", err)
	}
	return out, nil
}

func (r *SQLiteCallRepo) GetByTemplate(ctx context.Context, templateID string) (*app.Call, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, template_id, name, description, status, start_date, end_date
		FROM calls WHERE template_id = ? ORDER BY start_date DESC LIMIT 1`, templateID)
	c, err := scanCall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("call for template %s: %w", templateID, ErrNotFound)
	}
	return c, err
}

func scanCall(row scanner) (*app.Call, error) {
	var c app.Call
	err := row.Scan(&c.ID, &c.TemplateID, &c.Name, &c.Description, &c.Status, &c.StartDate, &c.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning call: %w", err)
	}
	return &c, nil
}

type SQLiteStatsRepo struct {
	db db.DBTX
}

func NewSQLiteStatsRepo(conn db.DBTX) *SQLiteStatsRepo {
	return &SQLiteStatsRepo{db: conn}
}

// LastRefreshed returns the zero time when stats were never refreshed.
func (r *SQLiteStatsRepo) LastRefreshed(ctx context.Context) (time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT refreshed_at FROM stats_snapshots WHERE id = 'default'`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("loading stats snapshot: %w", err)
	}
	t, _ := time.Parse(time.RFC3339, raw)
	return t, nil
}

func (r *SQLiteStatsRepo) Refresh(ctx context.Context, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO stats_snapshots (id, refreshed_at) VALUES ('default', ?)`, formatTime(at))
	if err != nil {
		return fmt.Errorf("saving stats snapshot: %w", err)
	}
	return nil
}
