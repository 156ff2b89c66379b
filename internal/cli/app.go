package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/config"
	"github.com/alexanderramin/grantdesk/internal/logger"
	"github.com/alexanderramin/grantdesk/internal/mapping"
	"github.com/alexanderramin/grantdesk/internal/service"
	"github.com/alexanderramin/grantdesk/internal/wizard"
)

// CallImporter loads calls into a backend that has no portal behind it.
type CallImporter interface {
	ImportCalls(ctx context.Context, calls []app.Call) error
}

// App holds everything the commands need.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Backend   service.Backend
	Dashboard service.DashboardService
	State     wizard.StateStore
	Preview   mapping.Previewer

	// Calls is nil when the backend reads calls from the portal.
	Calls CallImporter

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) newSession(opts ...wizard.Option) *wizard.Session {
	base := []wizard.Option{
		wizard.WithStateStore(a.State),
		wizard.WithPreviewer(a.Preview),
	}
	if a.Log != nil {
		base = append(base, wizard.WithLogger(a.Log))
	}
	if a.Config != nil {
		base = append(base, wizard.WithCall(a.Config.TemplateID, a.Config.ServiceID))
	}
	return wizard.NewSession(a.Backend, append(base, opts...)...)
}

// resume reopens the saved application. A reconciliation problem is
// reported on warn and the fresh draft is used, except when the portal
// rejected the credentials.
func (a *App) resume(ctx context.Context, warn io.Writer) (*wizard.Session, error) {
	s := a.newSession()
	err := s.Resume(ctx)
	if err == nil {
		return s, nil
	}
	if wizard.IsWarning(err) && !errors.Is(err, app.ErrUnauthenticated) {
		fmt.Fprint(warn, formatter.FormatWarnings([]string{err.Error()}))
		return s, nil
	}
	return nil, err
}

// resumeDraft is resume for commands that need a saved application.
func (a *App) resumeDraft(ctx context.Context, warn io.Writer) (*wizard.Session, error) {
	s, err := a.resume(ctx, warn)
	if err != nil {
		return nil, err
	}
	if !s.Draft().Persisted() {
		return nil, errNoApplication
	}
	return s, nil
}

var errNoApplication = errors.New("no application in progress; run 'grantdesk new' or 'grantdesk open <id>'")

// wizardStatus collects the session view the formatter renders.
func wizardStatus(s *wizard.Session) formatter.WizardStatus {
	st := formatter.WizardStatus{
		SubmissionID: s.Draft().RemoteID,
		Status:       s.Draft().Status,
		Percentage:   s.Percentage(),
		CanSubmit:    s.CanSubmit(),
	}
	for _, d := range s.Registry().All() {
		st.Sections = append(st.Sections, formatter.SectionLine{
			ID:        d.ID,
			Complete:  s.IsComplete(d.ID),
			Reachable: s.Reachable(d.ID),
			Optional:  d.FullyOptional,
			Current:   s.Current() == d.ID,
			Problems:  s.Problems(d.ID),
		})
	}
	return st
}
