package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

type entityRoute struct {
	suffix  string
	idParam string
	json    bool
}

var entityRoutes = map[domain.EntityKind]entityRoute{
	domain.EntityCollaborator:   {suffix: "collaborator", idParam: "collaborator_id"},
	domain.EntityShareHolder:    {suffix: "shareholder", idParam: "shareholder_id"},
	domain.EntitySubShareHolder: {suffix: "sub_shareholder", idParam: "sub_shareholder_id"},
	domain.EntityRDStaff:        {suffix: "rdstaff", idParam: "staff_id"},
	domain.EntityEquipment:      {suffix: "equipment", idParam: "equipment_id", json: true},
	domain.EntityTeamMember:     {suffix: "team_member", idParam: "team_member_id"},
}

func entityRouteFor(kind domain.EntityKind) (entityRoute, string, error) {
	r, ok := entityRoutes[kind]
	if !ok {
		return entityRoute{}, "", fmt.Errorf("unknown entity kind %q", kind)
	}
	sr, err := routeFor(kind.Section())
	if err != nil {
		return entityRoute{}, "", err
	}
	return r, sr.base, nil
}

func (c *Client) AddEntity(ctx context.Context, submissionID string, kind domain.EntityKind, fields app.Record, files []app.FileUpload) (*app.EntityResult, error) {
	r, base, err := entityRouteFor(kind)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, request{
		method:    http.MethodPost,
		path:      base + "/add_" + r.suffix + "/",
		body:      app.Merge(fields, app.Record{"submission_id": submissionID}),
		files:     files,
		multipart: !r.json,
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s: %w", kind, err)
	}
	rec, err := record(resp.Data)
	if err != nil {
		return nil, err
	}
	return &app.EntityResult{ID: rec.ID("id", r.idParam), Message: resp.Message}, nil
}

func (c *Client) UpdateEntity(ctx context.Context, submissionID string, kind domain.EntityKind, id int64, fields app.Record, files []app.FileUpload) (*app.OperationResult, error) {
	r, base, err := entityRouteFor(kind)
	if err != nil {
		return nil, err
	}
	body := app.Merge(fields, app.Record{
		"submission_id": submissionID,
		r.idParam:       id,
	})
	resp, err := c.call(ctx, request{
		method:    http.MethodPatch,
		path:      base + "/update_" + r.suffix + "/",
		body:      body,
		files:     files,
		multipart: !r.json,
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s %d: %w", kind, id, err)
	}
	return &app.OperationResult{Success: true, Message: resp.Message}, nil
}

func (c *Client) DeleteEntity(ctx context.Context, kind domain.EntityKind, id int64) (*app.OperationResult, error) {
	r, base, err := entityRouteFor(kind)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   base + "/delete_" + r.suffix + "/",
		query:  url.Values{r.idParam: {strconv.FormatInt(id, 10)}},
	})
	if err != nil {
		return nil, fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	return &app.OperationResult{Success: true, Message: resp.Message}, nil
}
