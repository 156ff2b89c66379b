package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Statements are idempotent and rerun on
// every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id           TEXT PRIMARY KEY,
		template_id  TEXT NOT NULL DEFAULT '',
		service_id   TEXT NOT NULL DEFAULT '',
		form_id      TEXT NOT NULL DEFAULT '',
		call_name    TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'draft'
		             CHECK(status IN ('draft','submitted')),
		submitted_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)`,

	`CREATE TABLE IF NOT EXISTS section_records (
		submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		section       INTEGER NOT NULL CHECK(section >= 0 AND section < 9),
		payload       TEXT NOT NULL DEFAULT '{}',
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (submission_id, section)
	)`,

	`CREATE TABLE IF NOT EXISTS section_files (
		submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		section       INTEGER NOT NULL,
		field         TEXT NOT NULL,
		path          TEXT NOT NULL,
		PRIMARY KEY (submission_id, section, field)
	)`,

	`CREATE TABLE IF NOT EXISTS optional_completions (
		submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		section       INTEGER NOT NULL,
		completed_at  TEXT NOT NULL,
		PRIMARY KEY (submission_id, section)
	)`,

	`CREATE TABLE IF NOT EXISTS entities (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		kind          TEXT NOT NULL
		              CHECK(kind IN ('collaborator','shareholder','sub_shareholder','rdstaff','equipment','team_member')),
		payload       TEXT NOT NULL DEFAULT '{}',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entities_submission ON entities(submission_id, kind)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id TEXT NOT NULL DEFAULT '',
		activity_type TEXT NOT NULL DEFAULT 'system_update',
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		is_read       INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at)`,

	`CREATE TABLE IF NOT EXISTS calls (
		id          TEXT PRIMARY KEY,
		template_id TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'Active',
		start_date  TEXT NOT NULL DEFAULT '',
		end_date    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS stats_snapshots (
		id          TEXT PRIMARY KEY DEFAULT 'default',
		refreshed_at TEXT NOT NULL
	)`,
}
