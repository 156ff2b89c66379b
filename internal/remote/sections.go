package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/mapping"
)

type sectionRoute struct {
	base   string
	update string
}

var sectionRoutes = map[domain.SectionID]sectionRoute{
	domain.SectionBasic:       {base: "form-sections/basic-details", update: "update"},
	domain.SectionConsortium:  {base: "form-sections/consortium-partners", update: "update_general"},
	domain.SectionProposal:    {base: "form-sections/proposal-details", update: "update"},
	domain.SectionFund:        {base: "form-sections/fund-details", update: "update"},
	domain.SectionBudget:      {base: "form-sections/budget-estimate", update: "update"},
	domain.SectionFinance:     {base: "form-sections/finance-details", update: "update"},
	domain.SectionTimeline:    {base: "form-sections/objective-timeline", update: "update"},
	domain.SectionIPR:         {base: "form-sections/ipr-details", update: "update"},
	domain.SectionProjectDocs: {base: "form-sections/project-details", update: "update"},
}

func routeFor(section domain.SectionID) (sectionRoute, error) {
	r, ok := sectionRoutes[section]
	if !ok {
		return sectionRoute{}, fmt.Errorf("no route for section %d", int(section))
	}
	return r, nil
}

func (c *Client) GetSection(ctx context.Context, submissionID string, section domain.SectionID) (app.Record, error) {
	r, err := routeFor(section)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   r.base + "/retrieve/",
		query:  url.Values{"submission_id": {submissionID}},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving %s: %w", section.Key(), err)
	}
	return record(resp.Data)
}

func (c *Client) UpdateSection(ctx context.Context, submissionID string, section domain.SectionID, fields app.Record, files []app.FileUpload) (*app.OperationResult, error) {
	r, err := routeFor(section)
	if err != nil {
		return nil, err
	}
	body := app.Merge(fields, app.Record{"submission_id": submissionID})
	resp, err := c.call(ctx, request{
		method:    http.MethodPatch,
		path:      r.base + "/" + r.update + "/",
		body:      body,
		files:     files,
		multipart: mapping.Multipart(section),
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", section.Key(), err)
	}
	return &app.OperationResult{Success: true, Message: resp.Message}, nil
}
