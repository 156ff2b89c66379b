package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG dirs at a temp dir and runs the test from an
// empty working directory. Empty env values count as unset.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, key := range keys {
		t.Setenv("GRANTDESK_"+strings.ToUpper(key), "")
	}
	work := filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, "data", "grantdesk", "grantdesk.db"), cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 1, cfg.MaxRetries)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := Default()
	global.Backend = BackendLocal
	global.TemplateID = "tmpl-global"
	global.ServiceID = "svc-global"
	require.NoError(t, WriteGlobal(global))

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("template_id: tmpl-project\n"), 0o644))
	t.Setenv("GRANTDESK_SERVICE_ID", "svc-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend, "global file applies")
	assert.Equal(t, "tmpl-project", cfg.TemplateID, "project file overrides global")
	assert.Equal(t, "svc-env", cfg.ServiceID, "env overrides files")
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("GRANTDESK_BACKEND", "ftp")

	_, err := Load()
	assert.ErrorContains(t, err, "backend must be")
}

func TestWriteGlobal_OwnerOnly(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Token = "secret"
	require.NoError(t, WriteGlobal(cfg))

	info, err := os.Stat(GlobalPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestGlobalPath_FallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "grantdesk.yml", filepath.Base(got))
	assert.Equal(t, "grantdesk", filepath.Base(filepath.Dir(got)))
}
