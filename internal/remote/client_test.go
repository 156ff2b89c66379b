package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type recordingObserver struct {
	events []RequestEvent
}

func (r *recordingObserver) OnRequestComplete(e RequestEvent) { r.events = append(r.events, e) }

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/api/"
	cfg.Timeout = 5 * time.Second
	return NewClient(cfg, staticToken("abc"), obs), obs
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "Bearer abc", bearer("abc"))
	assert.Equal(t, "Bearer abc", bearer("Bearer abc"))
	assert.Equal(t, "bearer abc", bearer("bearer abc"), "existing scheme is kept regardless of case")
}

func TestGetSection_SendsTokenAndSubmissionID(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/form-sections/basic-details/retrieve/", r.URL.Path)
		assert.Equal(t, "sub-1", r.URL.Query().Get("submission_id"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"applicant_name": "Acme"},
		})
	})

	rec, err := client.GetSection(context.Background(), "sub-1", domain.SectionBasic)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.String("applicant_name"))
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 1, obs.events[0].Attempts)
}

func TestUpdateSection_JSONForNonFileSections(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/form-sections/consortium-partners/update_general/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sub-1", body["submission_id"])
		assert.Equal(t, "no", body["ttdf_applied_before"])
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "saved"})
	})

	res, err := client.UpdateSection(context.Background(), "sub-1", domain.SectionConsortium,
		app.Record{"ttdf_applied_before": "no"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "saved", res.Message)
}

func TestUpdateSection_MultipartStringifiesObjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/form-sections/ipr-details/update/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "sub-1", r.FormValue("submission_id"))
		assert.Equal(t, `{"a":1}`, r.FormValue("meta"))
		assert.Equal(t, "2.5", r.FormValue("amount"))
		assert.Equal(t, "true", r.FormValue("flag"))

		f, hdr, err := r.FormFile("doc_0")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "resume.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(data))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	_, err := client.UpdateSection(context.Background(), "sub-1", domain.SectionIPR,
		app.Record{"meta": map[string]any{"a": 1}, "amount": 2.5, "flag": true, "skip": nil},
		[]app.FileUpload{{Field: "doc_0", Path: path}})
	require.NoError(t, err)
}

func TestCall_UnauthorizedMapsToSentinel(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "token expired"})
	})

	_, err := client.GetStatus(context.Background(), "sub-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrUnauthenticated)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "token expired", se.Message)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "UNAUTHENTICATED", obs.events[0].ErrorCode)
}

func TestCall_EnvelopeFailureIsStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "bad template"})
	})

	_, err := client.CreateDraft(context.Background(), "t1", "s1")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad template", se.Message)
}

func TestCall_RetriesGetOnServerError(t *testing.T) {
	var hits atomic.Int32
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"status": "draft"}})
	})

	summary, err := client.GetStatus(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DraftInProgress, summary.Status)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, obs.events[0].Attempts)
}

func TestCall_DoesNotRetryWrites(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Submit(context.Background(), "sub-1")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCall_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = base
	cfg.MaxRetries = 0
	client := NewClient(cfg, nil, nil)

	_, err := client.ListSubmissions(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLifecycle_CreateDraftAndCompletionFlags(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/form-sections/submission-control/create-new/":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "tmpl-1", body["template_id"])
			assert.Equal(t, "svc-1", body["service_id"])
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": "new-id"}})
		case "/api/form-sections/submission-control/completion-status/":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"completed_sections": []any{7, 1, 7, 42}},
			})
		case "/api/form-sections/submission-control/update-completion/":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(1), body["section_index"])
			assert.Equal(t, true, body["is_completed"])
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	created, err := client.CreateDraft(ctx, "tmpl-1", "svc-1")
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)

	flags, err := client.GetOptionalCompletion(ctx, "new-id")
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionConsortium, domain.SectionIPR}, flags,
		"duplicates and out-of-range indices are dropped")

	_, err = client.SetOptionalCompletion(ctx, "new-id", domain.SectionConsortium, true)
	require.NoError(t, err)
}

func TestEntities_RoutesAndIDs(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/form-sections/consortium-partners/add_equipment/":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 17}})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/form-sections/proposal-details/update_team_member/":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "5", r.FormValue("team_member_id"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/form-sections/consortium-partners/delete_rdstaff/":
			assert.Equal(t, "9", r.URL.Query().Get("staff_id"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	added, err := client.AddEntity(ctx, "sub-1", domain.EntityEquipment, app.Record{"item": "Router"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(17), added.ID)

	_, err = client.UpdateEntity(ctx, "sub-1", domain.EntityTeamMember, 5, app.Record{"name": "Asha"}, nil)
	require.NoError(t, err)

	_, err = client.DeleteEntity(ctx, domain.EntityRDStaff, 9)
	require.NoError(t, err)
}

func TestListSubmissions_BareList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{
			map[string]any{"id": "a", "status": "draft", "progress": 40},
			map[string]any{"id": "b", "status": "submitted", "call_title": "5G Labs"},
		})
	})

	subs, err := client.ListSubmissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, 40, subs[0].CompletionPercentage)
	assert.Equal(t, "Untitled Call", subs[0].CallName)
	assert.Equal(t, domain.DraftSubmitted, subs[1].Status)
	assert.Equal(t, "5G Labs", subs[1].CallName)
}
