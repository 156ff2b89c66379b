package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/config"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/logger"
	"github.com/alexanderramin/grantdesk/internal/mapping"
	"github.com/alexanderramin/grantdesk/internal/remote"
	"github.com/alexanderramin/grantdesk/internal/service"
	"github.com/alexanderramin/grantdesk/internal/testutil"
	"github.com/alexanderramin/grantdesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App over the local backend and an in-memory database.
func testApp(t *testing.T) (*App, *testutil.MemoryStateStore[wizard.State]) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	backend := service.NewLocalBackend(testutil.NewTestDB(t))
	state := &testutil.MemoryStateStore[wizard.State]{}

	cfg := config.Default()
	cfg.Backend = config.BackendLocal
	cfg.TemplateID = "tmpl-1"
	cfg.ServiceID = "svc-1"

	return &App{
		Config:    cfg,
		Log:       logger.Nop(),
		Backend:   backend,
		Dashboard: service.NewDashboardService(backend, backend),
		State:     state,
		Preview:   mapping.NewPreviewer("file://"),
		Calls:     backend,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	}, state
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// startApplication runs 'new' and returns the created id.
func startApplication(t *testing.T, app *App, state *testutil.MemoryStateStore[wizard.State]) string {
	t.Helper()
	out, err := executeCmd(t, app, "new")
	require.NoError(t, err)
	require.Contains(t, out, "Started application")
	require.NotNil(t, state.State)
	require.NotEmpty(t, state.State.SubmissionID)
	return state.State.SubmissionID
}

// writeBasicYAML writes a complete basic-details file whose attachments
// are relative to its own directory.
func writeBasicYAML(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"photo.jpg", "resume.pdf", "pan.pdf", "reg.pdf", "shares.pdf", "ipan.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	doc := `applicant_name: Asha Rao
gender: Female
qualification: M.Tech
mobile: "9876543210"
email: asha@example.org
individual_pan: ABCDE1234F
organization: Rural Links Pvt Ltd
landline: "0801234567"
website: https://rurallinks.example.org
proposal_by: Startup
ttdf_company: "Yes"
address_line_1: 12 Main Road
address_line_2: Block B
street_village: Hosahalli
city: Mysuru
country: India
state: Karnataka
pincode: "570001"
applicant_photo: {local: {path: photo.jpg}}
resume: {local: {path: resume.pdf}}
pan_file: {local: {path: pan.pdf}}
registration_certificate: {local: {path: reg.pdf}}
share_holding_pattern: {local: {path: shares.pdf}}
individual_pan_attachment: {local: {path: ipan.pdf}}
`
	path := filepath.Join(dir, "basic.yml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// --- Wizard commands ---

func TestNewCmd_CreatesDraftAndStatusShowsIt(t *testing.T) {
	app, state := testApp(t)
	id := startApplication(t, app, state)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Basic Details")
	assert.Contains(t, out, "Project Details")
	assert.Contains(t, out, "applicant name is required")
}

func TestNewCmd_RequiresTemplate(t *testing.T) {
	app, _ := testApp(t)
	app.Config.TemplateID = ""

	_, err := executeCmd(t, app, "new")
	assert.ErrorIs(t, err, wizard.ErrMissingCall)

	_, err = executeCmd(t, app, "new", "--template", "tmpl-2")
	assert.NoError(t, err)
}

func TestStatusCmd_NoApplication(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "status")
	assert.ErrorIs(t, err, errNoApplication)
}

func TestNextCmd_AdvancesAndPersistsStep(t *testing.T) {
	app, state := testApp(t)
	startApplication(t, app, state)

	out, err := executeCmd(t, app, "next")
	require.NoError(t, err)
	assert.Contains(t, out, "Consortium Partner Details")
	assert.Equal(t, int(domain.SectionConsortium), state.State.Step)

	out, err = executeCmd(t, app, "prev")
	require.NoError(t, err)
	assert.Contains(t, out, "Basic Details")
	assert.Equal(t, int(domain.SectionBasic), state.State.Step)
}

func TestGotoCmd(t *testing.T) {
	app, state := testApp(t)
	startApplication(t, app, state)

	out, err := executeCmd(t, app, "goto", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "3. Proposal Details")
	assert.Equal(t, int(domain.SectionProposal), state.State.Step)

	_, err = executeCmd(t, app, "goto", "finance")
	assert.ErrorIs(t, err, wizard.ErrNavigationBlocked)

	_, err = executeCmd(t, app, "goto", "10")
	assert.ErrorContains(t, err, "out of range")
}

func TestCompleteCmd(t *testing.T) {
	app, state := testApp(t)
	id := startApplication(t, app, state)

	out, err := executeCmd(t, app, "complete", "consortium")
	require.NoError(t, err)
	assert.Contains(t, out, "Consortium Partner Details marked complete")

	flags, err := app.Backend.GetOptionalCompletion(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, flags, domain.SectionConsortium)

	_, err = executeCmd(t, app, "complete", "basic")
	assert.ErrorIs(t, err, wizard.ErrNotOptional)
}

func TestSectionSetCmd_SavesAndReloads(t *testing.T) {
	app, state := testApp(t)
	startApplication(t, app, state)
	file := writeBasicYAML(t)

	out, err := executeCmd(t, app, "section", "set", "basic", "-f", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved Basic Details")
	assert.Contains(t, out, "Basic Details is complete")

	out, err = executeCmd(t, app, "section", "show", "basic")
	require.NoError(t, err)
	assert.Contains(t, out, "applicant_name: Asha Rao")
	assert.Contains(t, out, filepath.Join(filepath.Dir(file), "resume.pdf"))

	out, err = executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "applicant name is required")
}

func TestSectionSetCmd_RejectsBadYAML(t *testing.T) {
	app, state := testApp(t)
	startApplication(t, app, state)
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("applicant_name: [unterminated"), 0o644))

	_, err := executeCmd(t, app, "section", "set", "basic", "-f", path)
	assert.ErrorContains(t, err, "parsing")
}

func TestSubmitCmd_Guards(t *testing.T) {
	app, state := testApp(t)
	startApplication(t, app, state)

	_, err := executeCmd(t, app, "submit")
	assert.ErrorContains(t, err, "--yes")

	_, err = executeCmd(t, app, "submit", "--yes")
	assert.ErrorIs(t, err, wizard.ErrNotLastStep)
}

// --- Dashboard commands ---

func TestCallsCmd_ImportAndList(t *testing.T) {
	app, _ := testApp(t)
	path := filepath.Join(t.TempDir(), "calls.yml")
	require.NoError(t, os.WriteFile(path, []byte(`calls:
  - id: c1
    template_id: tmpl-1
    name: Rural 5G Pilots
    status: Active
  - id: c0
    name: Village Wi-Fi 2024
    status: Closed
`), 0o644))

	out, err := executeCmd(t, app, "calls", "import", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 calls")

	out, err = executeCmd(t, app, "calls")
	require.NoError(t, err)
	current, previous, ok := strings.Cut(out, "PREVIOUS CALLS")
	require.True(t, ok)
	assert.Contains(t, current, "Rural 5G Pilots")
	assert.Contains(t, previous, "Village Wi-Fi 2024")
}

func TestCallsImport_RemoteBackend(t *testing.T) {
	app, _ := testApp(t)
	app.Calls = nil

	_, err := executeCmd(t, app, "calls", "import", "-f", "calls.yml")
	assert.ErrorContains(t, err, "remote backend")
}

func TestDraftsDeleteCmd_ClearsMatchingSession(t *testing.T) {
	a, state := testApp(t)
	id := startApplication(t, a, state)

	out, err := executeCmd(t, a, "drafts")
	require.NoError(t, err)
	assert.Contains(t, out, formatter.TruncID(id))

	out, err = executeCmd(t, a, "drafts", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted draft")
	assert.Nil(t, state.State)

	_, err = a.Backend.GetStatus(context.Background(), id)
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestDashboardAndActivityCmds(t *testing.T) {
	app, state := testApp(t)
	startApplication(t, app, state)

	out, err := executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "DRAFTS")

	out, err = executeCmd(t, app, "activity", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Draft created")

	_, err = executeCmd(t, app, "activity", "read", "abc")
	assert.ErrorContains(t, err, "invalid activity id")
}

// --- Session and config ---

func TestSessionCmds(t *testing.T) {
	app, state := testApp(t)
	id := startApplication(t, app, state)

	out, err := executeCmd(t, app, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "1. Basic Details")

	_, err = executeCmd(t, app, "session", "clear")
	require.NoError(t, err)
	assert.Nil(t, state.State)

	out, err = executeCmd(t, app, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No session saved")
}

func TestConfigShow_RedactsToken(t *testing.T) {
	app, _ := testApp(t)
	app.Config.Token = "secret-token"

	out, err := executeCmd(t, app, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "secret-token")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, "backend: local")
}

func TestConfigInit_WritesGlobalFile(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "config", "init", "--template", "tmpl-9", "--api-url", "https://portal.example.org/api")
	require.NoError(t, err)

	data, err := os.ReadFile(config.GlobalPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "template_id: tmpl-9")
	assert.Contains(t, string(data), "api_url: https://portal.example.org/api")

	_, err = executeCmd(t, app, "config", "init", "--backend", "cloud")
	assert.ErrorContains(t, err, "backend must be")
}

// --- Error formatting ---

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthenticated", fmt.Errorf("load: %w", app.ErrUnauthenticated), "Authentication failed. Please log in again."},
		{"unavailable", fmt.Errorf("%w: dial tcp", remote.ErrUnavailable), "Network connection error. Please check your internet connection."},
		{"submitted", service.ErrAlreadySubmitted, "This application has already been submitted."},
		{"validation", &wizard.ValidationError{Sections: []domain.SectionID{domain.SectionBasic, domain.SectionFund}}, "Complete these sections before submitting: Basic Details, Fund Details"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatError(tt.err))
		})
	}
}

func TestWarnings_SplitsJoinedErrors(t *testing.T) {
	err := errors.Join(errors.New("upload failed"), fmt.Errorf("x: %w", app.ErrUnauthenticated))
	assert.Equal(t, []string{"upload failed", "Authentication failed. Please log in again."}, warnings(err))
	assert.Nil(t, warnings(nil))
}
