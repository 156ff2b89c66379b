package wizard

import (
	"context"
	"math"
	"sort"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// OptionalPersister stores a manual completion flag remotely.
type OptionalPersister func(ctx context.Context, section domain.SectionID) error

// Tracker maintains the completion set. Non-optional sections mirror their
// validator after every change; optional sections only change through
// MarkOptionalComplete.
type Tracker struct {
	registry *Registry
	done     map[domain.SectionID]bool
	persist  OptionalPersister
}

func NewTracker(registry *Registry) *Tracker {
	return &Tracker{
		registry: registry,
		done:     make(map[domain.SectionID]bool),
	}
}

// SetPersister installs the remote side effect of MarkOptionalComplete.
func (t *Tracker) SetPersister(p OptionalPersister) {
	t.persist = p
}

// OnDataChanged re-evaluates every non-optional section.
func (t *Tracker) OnDataChanged(s *domain.Sections) {
	for _, d := range t.registry.All() {
		if d.FullyOptional {
			continue
		}
		if d.Validate(s) {
			t.done[d.ID] = true
		} else {
			delete(t.done, d.ID)
		}
	}
}

// Seed resets the set from freshly loaded data plus persisted optional
// flags. Flags for non-optional sections are ignored.
func (t *Tracker) Seed(s *domain.Sections, optional []domain.SectionID) {
	t.done = make(map[domain.SectionID]bool)
	t.OnDataChanged(s)
	for _, id := range optional {
		d, err := t.registry.Get(id)
		if err != nil || !d.FullyOptional {
			continue
		}
		t.done[id] = true
	}
}

// MarkOptionalComplete adds an optional section to the set and asks the
// persister to store the flag. A persistence failure returns a *Warning;
// the local set is updated regardless.
func (t *Tracker) MarkOptionalComplete(ctx context.Context, id domain.SectionID) error {
	d, err := t.registry.Get(id)
	if err != nil {
		return err
	}
	if !d.FullyOptional {
		return ErrNotOptional
	}
	t.done[id] = true
	if t.persist == nil {
		return nil
	}
	if err := t.persist(ctx, id); err != nil {
		return newWarning(WarnOptionalFlag, sectionRef(id), err)
	}
	return nil
}

// MarkAll records every section as complete.
func (t *Tracker) MarkAll() {
	for _, d := range t.registry.All() {
		t.done[d.ID] = true
	}
}

func (t *Tracker) Has(id domain.SectionID) bool {
	return t.done[id]
}

// Completed returns the completed ordinals in ascending order.
func (t *Tracker) Completed() []domain.SectionID {
	out := make([]domain.SectionID, 0, len(t.done))
	for id := range t.done {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CompletedOptional returns the completed optional sections.
func (t *Tracker) CompletedOptional() []domain.SectionID {
	var out []domain.SectionID
	for _, id := range t.Completed() {
		if d, err := t.registry.Get(id); err == nil && d.FullyOptional {
			out = append(out, id)
		}
	}
	return out
}

// Missing returns the incomplete sections in order.
func (t *Tracker) Missing() []domain.SectionID {
	var out []domain.SectionID
	for _, d := range t.registry.All() {
		if !t.done[d.ID] {
			out = append(out, d.ID)
		}
	}
	return out
}

func (t *Tracker) All() bool {
	return len(t.Missing()) == 0
}

// Percentage is round(100 * completed / sections).
func (t *Tracker) Percentage() int {
	n := t.registry.Len()
	if n == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(t.done)) / float64(n)))
}
