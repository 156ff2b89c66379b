package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileDB opens a file-backed database so that pooled connections share
// state, which :memory: cannot do.
func newFileDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(filepath.Join(t.TempDir(), "grantdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Draft loading fans out one read per section while a save may be writing.
func TestConcurrentAccess_SectionReadsDuringWrites(t *testing.T) {
	conn := newFileDB(t)
	ctx := context.Background()
	require.NoError(t, NewSQLiteSubmissionRepo(conn).Create(ctx, newSubmission("s1")))
	repo := NewSQLiteSectionRecordRepo(conn)
	for _, id := range domain.AllSections() {
		require.NoError(t, repo.Upsert(ctx, "s1", id, app.Record{"rev": 0.0}))
	}

	const writes = 20
	var wg sync.WaitGroup
	errs := make(chan error, writes+domain.SectionCount*writes)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			if err := repo.Upsert(ctx, "s1", domain.SectionBasic, app.Record{"rev": float64(i)}); err != nil {
				errs <- fmt.Errorf("write %d: %w", i, err)
			}
		}
	}()

	for round := 0; round < writes; round++ {
		for _, id := range domain.AllSections() {
			id := id
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec, err := repo.Get(ctx, "s1", id)
				if err != nil {
					errs <- fmt.Errorf("read %s: %w", id.Key(), err)
					return
				}
				if _, ok := rec["rev"]; !ok {
					errs <- fmt.Errorf("read %s: record missing rev", id.Key())
				}
			}()
		}
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	rec, err := repo.Get(ctx, "s1", domain.SectionBasic)
	require.NoError(t, err)
	assert.Equal(t, float64(writes), rec.Float("rev"))
}

// Concurrent entity inserts all get distinct positive ids.
func TestConcurrentAccess_EntityIDsAreUnique(t *testing.T) {
	conn := newFileDB(t)
	ctx := context.Background()
	require.NoError(t, NewSQLiteSubmissionRepo(conn).Create(ctx, newSubmission("s1")))
	repo := NewSQLiteEntityRepo(conn)

	const n = 25
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.Create(ctx, "s1", domain.EntityRDStaff, app.Record{"name": fmt.Sprintf("staff-%d", i)})
			if assert.NoError(t, err) {
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.Positive(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	rows, err := repo.ListBySubmission(ctx, "s1", domain.EntityRDStaff)
	require.NoError(t, err)
	assert.Len(t, rows, n)
}
