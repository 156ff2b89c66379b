package wizard

import (
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// ChangeListener runs synchronously after a section mutation.
type ChangeListener func(id domain.SectionID, s *domain.Sections)

// Store owns the application draft being edited. All reads and writes go
// through it.
type Store struct {
	draft     *domain.ApplicationDraft
	listeners []ChangeListener
}

func NewStore() *Store {
	return &Store{draft: domain.NewApplicationDraft()}
}

func (s *Store) Draft() *domain.ApplicationDraft {
	return s.draft
}

func (s *Store) Sections() *domain.Sections {
	return s.draft.Sections
}

// OnChange registers a listener. Listeners run in registration order.
func (s *Store) OnChange(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Edit mutates the payload of one section and notifies listeners.
func (s *Store) Edit(id domain.SectionID, fn func(s *domain.Sections)) error {
	if !id.Valid() {
		return fmt.Errorf("edit section %d: %w", int(id), ErrUnknownSection)
	}
	fn(s.draft.Sections)
	s.notify(id)
	return nil
}

// Replace swaps in a new draft, e.g. after reconciliation. Listeners are
// not notified; callers reseed derived state themselves.
func (s *Store) Replace(d *domain.ApplicationDraft) {
	if d == nil {
		d = domain.NewApplicationDraft()
	}
	if d.Sections == nil {
		d.Sections = domain.NewSections()
	}
	s.draft = d
}

func (s *Store) notify(id domain.SectionID) {
	for _, l := range s.listeners {
		l(id, s.draft.Sections)
	}
}
