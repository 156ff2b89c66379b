package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestMigrate_CreatesTables(t *testing.T) {
	conn := openTestDB(t)

	for _, table := range []string{
		"submissions", "section_records", "section_files", "optional_completions",
		"entities", "activities", "calls", "stats_snapshots",
	} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, db.Migrate(conn))
	require.NoError(t, db.Migrate(conn))
}

func TestOpenDB_FileBackedReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grantdesk.db")

	conn, err := db.OpenDB(path)
	require.NoError(t, err)
	_, err = conn.Exec(insertSubmission, "kept")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = db.OpenDB(path)
	require.NoError(t, err)
	defer conn.Close()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSchema_CascadeOnSubmissionDelete(t *testing.T) {
	conn := openTestDB(t)
	_, err := conn.Exec(insertSubmission, "s1")
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO section_records (submission_id, section, payload, updated_at) VALUES ('s1', 0, '{}', 'now')`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO entities (submission_id, kind, created_at, updated_at) VALUES ('s1', 'rdstaff', 'now', 'now')`)
	require.NoError(t, err)

	_, err = conn.Exec(`DELETE FROM submissions WHERE id = 's1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM section_records`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM entities`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSchema_RejectsUnknownStatus(t *testing.T) {
	conn := openTestDB(t)
	_, err := conn.Exec(`INSERT INTO submissions (id, status, created_at, updated_at) VALUES ('x', 'archived', 'now', 'now')`)
	assert.Error(t, err)
}
