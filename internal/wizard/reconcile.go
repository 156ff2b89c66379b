package wizard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/mapping"
)

// Reconciler rebuilds a draft from its remote representation.
type Reconciler struct {
	lifecycle app.SubmissionLifecycle
	sections  app.SectionStore
	preview   mapping.Previewer
}

func NewReconciler(lifecycle app.SubmissionLifecycle, sections app.SectionStore, preview mapping.Previewer) *Reconciler {
	return &Reconciler{lifecycle: lifecycle, sections: sections, preview: preview}
}

// LoadDraft fetches every section of remoteID and maps it into a draft.
// On any fetch or mapping failure it returns an empty draft and a
// *Warning. The returned draft is never nil. The second result lists the
// server-persisted optional completion flags.
func (r *Reconciler) LoadDraft(ctx context.Context, remoteID string) (*domain.ApplicationDraft, []domain.SectionID, error) {
	draft, err := r.fetch(ctx, remoteID)
	if err != nil {
		return domain.NewApplicationDraft(), nil, newWarning(WarnReconciliation, nil, err)
	}

	optional, err := r.lifecycle.GetOptionalCompletion(ctx, remoteID)
	if err != nil {
		return draft, nil, newWarning(WarnReconciliation, nil, fmt.Errorf("loading completion flags: %w", err))
	}
	return draft, optional, nil
}

func (r *Reconciler) fetch(ctx context.Context, remoteID string) (*domain.ApplicationDraft, error) {
	summary, err := r.lifecycle.GetStatus(ctx, remoteID)
	if err != nil {
		return nil, fmt.Errorf("loading draft status: %w", err)
	}

	records := make([]app.Record, domain.SectionCount)
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range domain.AllSections() {
		id := id
		g.Go(func() error {
			rec, err := r.sections.GetSection(gctx, remoteID, id)
			if err != nil {
				return fmt.Errorf("loading %s: %w", id.Name(), err)
			}
			records[id] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sections, status := mapping.Decode(app.Merge(records...), r.preview)
	if summary != nil && summary.Status == domain.DraftSubmitted {
		status = domain.DraftSubmitted
	}
	return &domain.ApplicationDraft{
		RemoteID: remoteID,
		Status:   status,
		Sections: sections,
	}, nil
}
