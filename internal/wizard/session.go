package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/mapping"
)

// Action names an operation guarded by an in-flight flag.
type Action string

const (
	ActionSave         Action = "save"
	ActionSubmit       Action = "submit"
	ActionLoad         Action = "load"
	ActionMarkOptional Action = "mark-optional"
	ActionDelete       Action = "delete"
)

// State is what survives between runs: the draft being edited and where
// the applicant left off.
type State struct {
	SubmissionID string `yaml:"submission_id"`
	Step         int    `yaml:"step"`
	TemplateID   string `yaml:"template_id,omitempty"`
	ServiceID    string `yaml:"service_id,omitempty"`
}

// StateStore persists State. Load returns nil, nil when nothing is stored.
type StateStore interface {
	Load() (*State, error)
	Save(st State) error
	Clear() error
}

// Logger is the subset of the structured logger the session needs.
type Logger interface {
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type Option func(*Session)

func WithStateStore(st StateStore) Option {
	return func(s *Session) { s.state = st }
}

func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCall sets the template and service a new draft is created under.
func WithCall(templateID, serviceID string) Option {
	return func(s *Session) {
		s.templateID = templateID
		s.serviceID = serviceID
	}
}

func WithRegistry(r *Registry) Option {
	return func(s *Session) { s.registry = r }
}

func WithPreviewer(p mapping.Previewer) Option {
	return func(s *Session) { s.preview = p }
}

// Session is one applicant editing one draft. Navigation and edits are
// synchronous; persistence calls block on the collaborator and may be run
// from a goroutine, in which case the in-flight flags reject duplicates.
type Session struct {
	persist    app.Persistence
	registry   *Registry
	store      *Store
	tracker    *Tracker
	nav        *Navigator
	reconciler *Reconciler
	state      StateStore
	log        Logger
	preview    mapping.Previewer

	templateID string
	serviceID  string

	mu       sync.Mutex
	inFlight map[Action]bool
}

func NewSession(persist app.Persistence, opts ...Option) *Session {
	s := &Session{
		persist:  persist,
		log:      nopLogger{},
		inFlight: make(map[Action]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}

	s.store = NewStore()
	s.tracker = NewTracker(s.registry)
	s.tracker.SetPersister(s.persistOptional)
	s.nav = NewNavigator(s.registry, s.tracker, s.store.Sections)
	s.reconciler = NewReconciler(persist, persist, s.preview)
	s.store.OnChange(s.onChange)
	s.tracker.Seed(s.store.Sections(), nil)
	return s
}

// Resume reopens the draft recorded in the state store, if any, and
// returns to the saved step when it is still reachable.
func (s *Session) Resume(ctx context.Context) error {
	if s.state == nil {
		return nil
	}
	st, err := s.state.Load()
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}
	if st == nil || st.SubmissionID == "" {
		return nil
	}
	if st.TemplateID != "" {
		s.templateID, s.serviceID = st.TemplateID, st.ServiceID
	}

	openErr := s.Open(ctx, st.SubmissionID)
	if s.store.Draft().Persisted() {
		if err := s.nav.GoTo(domain.SectionID(st.Step)); err != nil {
			s.log.Warn("saved step no longer reachable", "step", st.Step, "error", err)
		}
	}
	return openErr
}

// Open reconciles the remote draft into the session. A reconciliation
// failure leaves an empty, unpersisted draft and returns a *Warning.
func (s *Session) Open(ctx context.Context, remoteID string) error {
	if err := s.begin(ActionLoad); err != nil {
		return err
	}
	defer s.end(ActionLoad)

	draft, optional, err := s.reconciler.LoadDraft(ctx, remoteID)
	s.store.Replace(draft)
	s.tracker.Seed(s.store.Sections(), optional)
	if s.store.Draft().Status == domain.DraftSubmitted {
		s.tracker.MarkAll()
	}
	s.nav.Reset()
	if s.store.Draft().Persisted() {
		s.saveState()
	}
	if err != nil {
		s.log.Warn("draft reconciliation failed", "submission_id", remoteID, "error", err)
	}
	return err
}

// Start creates the remote draft without saving any section, so a new
// application has an id before the first edit.
func (s *Session) Start(ctx context.Context) error {
	if err := s.begin(ActionSave); err != nil {
		return err
	}
	defer s.end(ActionSave)

	warns, err := s.ensureRemote(ctx)
	if err != nil {
		return err
	}
	return errors.Join(warns...)
}

// Reset discards the current draft and starts a fresh one.
func (s *Session) Reset() {
	s.store.Replace(domain.NewApplicationDraft())
	s.tracker.Seed(s.store.Sections(), nil)
	s.nav.Reset()
	if s.state != nil {
		if err := s.state.Clear(); err != nil {
			s.log.Warn("clearing session state failed", "error", err)
		}
	}
}

// Edit mutates one section payload. Budget edits recompute totals and the
// derived finance figures before completion is re-evaluated.
func (s *Session) Edit(id domain.SectionID, fn func(sections *domain.Sections)) error {
	if s.busy(ActionSave, ActionSubmit, ActionLoad) {
		return ErrInFlight
	}
	if s.store.Draft().Status == domain.DraftSubmitted {
		return ErrSubmitted
	}
	if err := s.store.Edit(id, fn); err != nil {
		s.log.Error("edit rejected", "section", int(id), "error", err)
		return err
	}
	return nil
}

func (s *Session) onChange(id domain.SectionID, sections *domain.Sections) {
	switch id {
	case domain.SectionBudget:
		sections.Budget.GrantTotals = sections.Budget.ComputeTotals()
		ApplyFinance(&sections.Finance, Recompute(sections.Budget.GrantTotals))
	case domain.SectionFinance:
		RefreshProjectCost(&sections.Finance)
	}
	s.tracker.OnDataChanged(sections)
}

// Save persists the current section. The draft is created remotely on the
// first save. Collaborator failures come back as joined *Warning values;
// local edits are kept either way.
func (s *Session) Save(ctx context.Context) error {
	if err := s.begin(ActionSave); err != nil {
		return err
	}
	defer s.end(ActionSave)

	draft := s.store.Draft()
	if draft.Status == domain.DraftSubmitted {
		return ErrSubmitted
	}
	id := s.nav.Current()
	desc, err := s.registry.Get(id)
	if err != nil {
		s.log.Error("save rejected", "section", int(id), "error", err)
		return err
	}

	warns, err := s.ensureRemote(ctx)
	if err != nil {
		return err
	}

	sections := s.store.Sections()
	fields, files, err := mapping.Encode(id, sections)
	if err != nil {
		s.log.Error("encoding section failed", "section", id.Name(), "error", err)
		return err
	}
	if _, err := s.persist.UpdateSection(ctx, draft.RemoteID, id, fields, files); err != nil {
		warns = append(warns, newWarning(WarnPersistence, sectionRef(id), err))
	}
	warns = append(warns, s.saveEntities(ctx, draft.RemoteID, id, sections)...)

	if desc.FullyOptional {
		if err := s.tracker.MarkOptionalComplete(ctx, id); err != nil {
			warns = append(warns, err)
		}
	}
	s.tracker.OnDataChanged(sections)
	s.saveState()

	for _, w := range warns {
		s.log.Warn("save incomplete", "section", id.Name(), "error", w)
	}
	return errors.Join(warns...)
}

// ensureRemote creates the remote draft if needed. The error result is
// set only when no remote id could be obtained.
func (s *Session) ensureRemote(ctx context.Context) ([]error, error) {
	draft := s.store.Draft()
	if draft.Persisted() {
		return nil, nil
	}
	if s.templateID == "" {
		return nil, ErrMissingCall
	}
	created, err := s.persist.CreateDraft(ctx, s.templateID, s.serviceID)
	if err != nil {
		return nil, newWarning(WarnPersistence, nil, fmt.Errorf("creating draft: %w", err))
	}
	draft.RemoteID = created.ID
	s.saveState()

	// Flags marked before the draft existed were only recorded locally.
	var warns []error
	for _, id := range s.tracker.CompletedOptional() {
		if err := s.persistOptional(ctx, id); err != nil {
			warns = append(warns, newWarning(WarnOptionalFlag, sectionRef(id), err))
		}
	}
	return warns, nil
}

func (s *Session) saveEntities(ctx context.Context, remoteID string, id domain.SectionID, sections *domain.Sections) []error {
	var warns []error
	for _, row := range mapping.EntityRows(id, sections) {
		if row.ID.Persisted() {
			if _, err := s.persist.UpdateEntity(ctx, remoteID, row.Kind, int64(row.ID), row.Fields, row.Files); err != nil {
				warns = append(warns, newWarning(WarnPersistence, sectionRef(id),
					fmt.Errorf("updating %s %q: %w", row.Kind, row.Label, err)))
			}
			continue
		}
		res, err := s.persist.AddEntity(ctx, remoteID, row.Kind, row.Fields, row.Files)
		if err != nil {
			warns = append(warns, newWarning(WarnPersistence, sectionRef(id),
				fmt.Errorf("adding %s %q: %w", row.Kind, row.Label, err)))
			continue
		}
		if res != nil && res.ID > 0 {
			row.Assign(res.ID)
		}
	}
	return warns
}

func (s *Session) persistOptional(ctx context.Context, id domain.SectionID) error {
	draft := s.store.Draft()
	if !draft.Persisted() {
		return nil
	}
	_, err := s.persist.SetOptionalCompletion(ctx, draft.RemoteID, id, true)
	return err
}

// GoNext marks an optional current section and advances. See
// Navigator.GoNext for the error contract.
func (s *Session) GoNext(ctx context.Context) error {
	if err := s.begin(ActionMarkOptional); err != nil {
		return err
	}
	defer s.end(ActionMarkOptional)

	err := s.nav.GoNext(ctx)
	s.saveState()
	return err
}

func (s *Session) GoPrevious() {
	s.nav.GoPrevious()
	s.saveState()
}

func (s *Session) GoTo(id domain.SectionID) error {
	if err := s.nav.GoTo(id); err != nil {
		if errors.Is(err, ErrUnknownSection) {
			s.log.Error("navigation rejected", "section", int(id), "error", err)
		}
		return err
	}
	s.saveState()
	return nil
}

// MarkOptionalComplete records a manual completion flag for an optional
// section.
func (s *Session) MarkOptionalComplete(ctx context.Context, id domain.SectionID) error {
	if err := s.begin(ActionMarkOptional); err != nil {
		return err
	}
	defer s.end(ActionMarkOptional)
	return s.tracker.MarkOptionalComplete(ctx, id)
}

// SubmitAll submits the draft. It requires the last section to be active
// and every section to be complete. On success the draft is marked
// submitted and the saved state is cleared.
func (s *Session) SubmitAll(ctx context.Context) (*app.OperationResult, error) {
	if err := s.begin(ActionSubmit); err != nil {
		return nil, err
	}
	defer s.end(ActionSubmit)

	if !s.nav.AtLast() {
		return nil, ErrNotLastStep
	}
	if missing := s.tracker.Missing(); len(missing) > 0 {
		return nil, &ValidationError{Sections: missing}
	}
	draft := s.store.Draft()
	if !draft.Persisted() {
		return nil, ErrNoDraft
	}
	if draft.Status == domain.DraftSubmitted {
		return nil, ErrSubmitted
	}

	res, err := s.persist.Submit(ctx, draft.RemoteID)
	if err != nil {
		return nil, fmt.Errorf("submitting application: %w", err)
	}
	s.Reset()
	return res, nil
}

// DeleteDraft removes a remote draft. Deleting the open draft resets the
// session.
func (s *Session) DeleteDraft(ctx context.Context, remoteID string) error {
	if err := s.begin(ActionDelete); err != nil {
		return err
	}
	defer s.end(ActionDelete)

	if err := s.persist.DeleteDraft(ctx, remoteID); err != nil {
		return fmt.Errorf("deleting draft %s: %w", remoteID, err)
	}
	if s.store.Draft().RemoteID == remoteID {
		s.Reset()
	}
	return nil
}

func (s *Session) Draft() *domain.ApplicationDraft {
	return s.store.Draft()
}

func (s *Session) Sections() *domain.Sections {
	return s.store.Sections()
}

func (s *Session) Registry() *Registry {
	return s.registry
}

func (s *Session) Current() domain.SectionID {
	return s.nav.Current()
}

func (s *Session) AtLast() bool {
	return s.nav.AtLast()
}

func (s *Session) Reachable(id domain.SectionID) bool {
	return s.nav.Reachable(id)
}

func (s *Session) IsComplete(id domain.SectionID) bool {
	return s.tracker.Has(id)
}

func (s *Session) Completed() []domain.SectionID {
	return s.tracker.Completed()
}

func (s *Session) Missing() []domain.SectionID {
	return s.tracker.Missing()
}

func (s *Session) Percentage() int {
	return s.tracker.Percentage()
}

func (s *Session) CanSubmit() bool {
	return s.nav.CanSubmit() && s.store.Draft().Status != domain.DraftSubmitted
}

// Problems lists what keeps id from being complete.
func (s *Session) Problems(id domain.SectionID) []string {
	d, err := s.registry.Get(id)
	if err != nil {
		return nil
	}
	return d.Problems(s.store.Sections())
}

// InFlight reports whether action is currently running.
func (s *Session) InFlight(action Action) bool {
	return s.busy(action)
}

func (s *Session) begin(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[action] {
		return fmt.Errorf("%s: %w", action, ErrInFlight)
	}
	s.inFlight[action] = true
	return nil
}

func (s *Session) end(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, action)
}

func (s *Session) busy(actions ...Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		if s.inFlight[a] {
			return true
		}
	}
	return false
}

func (s *Session) saveState() {
	draft := s.store.Draft()
	if s.state == nil || !draft.Persisted() {
		return
	}
	st := State{
		SubmissionID: draft.RemoteID,
		Step:         int(s.nav.Current()),
		TemplateID:   s.templateID,
		ServiceID:    s.serviceID,
	}
	if err := s.state.Save(st); err != nil {
		s.log.Warn("saving session state failed", "error", err)
	}
}
