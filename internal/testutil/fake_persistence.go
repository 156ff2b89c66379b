package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/google/uuid"
)

// SectionUpdate records one UpdateSection call.
type SectionUpdate struct {
	SubmissionID string
	Section      domain.SectionID
	Fields       app.Record
	Files        []app.FileUpload
}

// EntityCall records one AddEntity or UpdateEntity call.
type EntityCall struct {
	SubmissionID string
	Kind         domain.EntityKind
	ID           int64
	Fields       app.Record
}

// FakePersistence is an in-memory app.Persistence. Set Errs[method] to
// make that method fail. When Gate is non-nil, UpdateSection and Submit
// signal Entered and then wait for Gate to close.
type FakePersistence struct {
	mu sync.Mutex

	Records  map[string]map[domain.SectionID]app.Record
	Optional map[string][]domain.SectionID
	Statuses map[string]domain.DraftStatus
	Errs     map[string]error

	Created    []string
	Updates    []SectionUpdate
	Added      []EntityCall
	Updated    []EntityCall
	Deleted    []int64
	OptionalOn []domain.SectionID
	Submitted  []string

	Gate    chan struct{}
	Entered chan struct{}

	nextEntityID int64
}

func NewFakePersistence() *FakePersistence {
	return &FakePersistence{
		Records:  make(map[string]map[domain.SectionID]app.Record),
		Optional: make(map[string][]domain.SectionID),
		Statuses: make(map[string]domain.DraftStatus),
		Errs:     make(map[string]error),
	}
}

// Seed stores a draft with the given section records.
func (f *FakePersistence) Seed(id string, records map[domain.SectionID]app.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Records[id] = records
	f.Statuses[id] = domain.DraftInProgress
}

// Calls returns how many times method was invoked.
func (f *FakePersistence) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch method {
	case "CreateDraft":
		return len(f.Created)
	case "UpdateSection":
		return len(f.Updates)
	case "AddEntity":
		return len(f.Added)
	case "UpdateEntity":
		return len(f.Updated)
	case "SetOptionalCompletion":
		return len(f.OptionalOn)
	case "Submit":
		return len(f.Submitted)
	}
	return 0
}

func (f *FakePersistence) fail(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Errs[method]
}

func (f *FakePersistence) wait() {
	if f.Gate == nil {
		return
	}
	if f.Entered != nil {
		f.Entered <- struct{}{}
	}
	<-f.Gate
}

func (f *FakePersistence) CreateDraft(_ context.Context, templateID, serviceID string) (*app.CreatedDraft, error) {
	if err := f.fail("CreateDraft"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New().String()
	f.Created = append(f.Created, id)
	f.Records[id] = make(map[domain.SectionID]app.Record)
	f.Statuses[id] = domain.DraftInProgress
	return &app.CreatedDraft{ID: id}, nil
}

func (f *FakePersistence) GetStatus(_ context.Context, id string) (*app.SectionCompletionSummary, error) {
	if err := f.fail("GetStatus"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.Statuses[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, app.ErrNotFound)
	}
	return &app.SectionCompletionSummary{SubmissionID: id, Status: status}, nil
}

func (f *FakePersistence) Submit(_ context.Context, id string) (*app.OperationResult, error) {
	f.wait()
	if err := f.fail("Submit"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Submitted = append(f.Submitted, id)
	f.Statuses[id] = domain.DraftSubmitted
	return &app.OperationResult{Success: true, Message: "Application submitted"}, nil
}

func (f *FakePersistence) SetOptionalCompletion(_ context.Context, id string, section domain.SectionID, completed bool) (*app.OperationResult, error) {
	if err := f.fail("SetOptionalCompletion"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OptionalOn = append(f.OptionalOn, section)
	if completed {
		f.Optional[id] = append(f.Optional[id], section)
	}
	return &app.OperationResult{Success: true}, nil
}

func (f *FakePersistence) GetOptionalCompletion(_ context.Context, id string) ([]domain.SectionID, error) {
	if err := f.fail("GetOptionalCompletion"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]domain.SectionID(nil), f.Optional[id]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *FakePersistence) DeleteDraft(_ context.Context, id string) error {
	if err := f.fail("DeleteDraft"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Records, id)
	delete(f.Statuses, id)
	return nil
}

func (f *FakePersistence) ListSubmissions(_ context.Context) ([]app.SubmissionSummary, error) {
	if err := f.fail("ListSubmissions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []app.SubmissionSummary
	for id, status := range f.Statuses {
		out = append(out, app.SubmissionSummary{ID: id, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakePersistence) GetSection(_ context.Context, id string, section domain.SectionID) (app.Record, error) {
	if err := f.fail("GetSection"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	records, ok := f.Records[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, app.ErrNotFound)
	}
	return records[section], nil
}

func (f *FakePersistence) UpdateSection(_ context.Context, id string, section domain.SectionID, fields app.Record, files []app.FileUpload) (*app.OperationResult, error) {
	f.wait()
	if err := f.fail("UpdateSection"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates = append(f.Updates, SectionUpdate{SubmissionID: id, Section: section, Fields: fields, Files: files})
	if f.Records[id] == nil {
		f.Records[id] = make(map[domain.SectionID]app.Record)
	}
	f.Records[id][section] = fields
	return &app.OperationResult{Success: true}, nil
}

func (f *FakePersistence) AddEntity(_ context.Context, id string, kind domain.EntityKind, fields app.Record, _ []app.FileUpload) (*app.EntityResult, error) {
	if err := f.fail("AddEntity"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextEntityID++
	f.Added = append(f.Added, EntityCall{SubmissionID: id, Kind: kind, ID: f.nextEntityID, Fields: fields})
	return &app.EntityResult{ID: f.nextEntityID}, nil
}

func (f *FakePersistence) UpdateEntity(_ context.Context, id string, kind domain.EntityKind, entityID int64, fields app.Record, _ []app.FileUpload) (*app.OperationResult, error) {
	if err := f.fail("UpdateEntity"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updated = append(f.Updated, EntityCall{SubmissionID: id, Kind: kind, ID: entityID, Fields: fields})
	return &app.OperationResult{Success: true}, nil
}

func (f *FakePersistence) DeleteEntity(_ context.Context, _ domain.EntityKind, entityID int64) (*app.OperationResult, error) {
	if err := f.fail("DeleteEntity"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, entityID)
	return &app.OperationResult{Success: true}, nil
}

// MemoryStateStore is an in-memory wizard state store.
type MemoryStateStore[T any] struct {
	mu      sync.Mutex
	State   *T
	Cleared int
}

func (m *MemoryStateStore[T]) Load() (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.State == nil {
		return nil, nil
	}
	cp := *m.State
	return &cp, nil
}

func (m *MemoryStateStore[T]) Save(st T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.State = &st
	return nil
}

func (m *MemoryStateStore[T]) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.State = nil
	m.Cleared++
	return nil
}
