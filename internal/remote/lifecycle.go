package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

const controlBase = "form-sections/submission-control"

func (c *Client) CreateDraft(ctx context.Context, templateID, serviceID string) (*app.CreatedDraft, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   controlBase + "/create-new/",
		body:   app.Record{"template_id": templateID, "service_id": serviceID},
	})
	if err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	id := rec.String("id", "submission_id")
	if id == "" {
		return nil, fmt.Errorf("creating draft: response carried no submission id")
	}
	return &app.CreatedDraft{ID: id}, nil
}

func (c *Client) GetStatus(ctx context.Context, submissionID string) (*app.SectionCompletionSummary, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   controlBase + "/status/",
		query:  url.Values{"submission_id": {submissionID}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching status of %s: %w", submissionID, err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	return &app.SectionCompletionSummary{
		SubmissionID: domain.CoalesceStr(rec.String("id", "submission_id"), submissionID),
		Status:       draftStatus(rec.String("status")),
		FormID:       rec.String("form_id"),
		CallName:     rec.String("call_name", "call_title", "service_name"),
		UpdatedAt:    parseTime(rec.String("updated_at", "last_updated")),
	}, nil
}

func (c *Client) Submit(ctx context.Context, submissionID string) (*app.OperationResult, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   controlBase + "/submit/",
		body:   app.Record{"submission_id": submissionID},
	})
	if err != nil {
		return nil, fmt.Errorf("submitting %s: %w", submissionID, err)
	}
	return &app.OperationResult{Success: true, Message: resp.Message}, nil
}

func (c *Client) SetOptionalCompletion(ctx context.Context, submissionID string, section domain.SectionID, completed bool) (*app.OperationResult, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   controlBase + "/update-completion/",
		body: app.Record{
			"submission_id": submissionID,
			"section_index": int(section),
			"is_completed":  completed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marking %s: %w", section.Key(), err)
	}
	return &app.OperationResult{Success: true, Message: resp.Message}, nil
}

// GetOptionalCompletion returns the section indices the server holds as
// completed. Unknown indices are dropped.
func (c *Client) GetOptionalCompletion(ctx context.Context, submissionID string) ([]domain.SectionID, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   controlBase + "/completion-status/",
		query:  url.Values{"submission_id": {submissionID}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching completion flags of %s: %w", submissionID, err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	raw, _ := rec["completed_sections"].([]any)
	seen := make(map[domain.SectionID]bool, len(raw))
	var out []domain.SectionID
	for _, v := range raw {
		n, ok := v.(float64)
		if !ok {
			continue
		}
		id := domain.SectionID(int(n))
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (c *Client) DeleteDraft(ctx context.Context, submissionID string) error {
	_, err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   "dynamic-forms/submissions/" + url.PathEscape(submissionID) + "/",
	})
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", submissionID, err)
	}
	return nil
}

func (c *Client) ListSubmissions(ctx context.Context) ([]app.SubmissionSummary, error) {
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   controlBase + "/list/",
	})
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	recs, err := records(resp.Data, "results", "submissions")
	if err != nil {
		return nil, err
	}
	out := make([]app.SubmissionSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, submission(rec))
	}
	return out, nil
}

func draftStatus(s string) domain.DraftStatus {
	if domain.DraftStatus(s) == domain.DraftSubmitted {
		return domain.DraftSubmitted
	}
	return domain.DraftInProgress
}
