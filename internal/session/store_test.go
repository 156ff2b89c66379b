package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/grantdesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yml"))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, st, "missing file means no saved session")

	want := wizard.State{SubmissionID: "sub-1", Step: 3, TemplateID: "tmpl-1", ServiceID: "svc-1"}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, os.WriteFile(path, []byte("step: [not a number"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.ErrorContains(t, err, "parsing")
}

func TestFileStore_ResumesWizard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	store := NewFileStore(path)
	require.NoError(t, store.Save(wizard.State{SubmissionID: "sub-9", Step: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "submission_id: sub-9")
	assert.NotContains(t, string(data), "template_id", "empty call ids are omitted")
}
