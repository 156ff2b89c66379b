package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Navigator is the linear state machine over section ordinals.
type Navigator struct {
	registry *Registry
	tracker  *Tracker
	sections func() *domain.Sections
	current  domain.SectionID
}

func NewNavigator(registry *Registry, tracker *Tracker, sections func() *domain.Sections) *Navigator {
	return &Navigator{registry: registry, tracker: tracker, sections: sections}
}

func (n *Navigator) Current() domain.SectionID {
	return n.current
}

func (n *Navigator) AtLast() bool {
	return n.current == n.registry.Last()
}

// Reachable reports whether id may be viewed given current data.
func (n *Navigator) Reachable(id domain.SectionID) bool {
	d, err := n.registry.Get(id)
	if err != nil {
		return false
	}
	return d.Reachable(n.sections())
}

// GoNext marks an optional current section complete, then advances if the
// next section is reachable. Marking happens even when advancing is
// blocked. A returned *Warning means both steps still took effect.
func (n *Navigator) GoNext(ctx context.Context) error {
	d, err := n.registry.Get(n.current)
	if err != nil {
		return err
	}

	var warn error
	if d.FullyOptional {
		if err := n.tracker.MarkOptionalComplete(ctx, n.current); err != nil {
			var w *Warning
			if !errors.As(err, &w) {
				return err
			}
			warn = err
		}
	}

	if n.AtLast() {
		return errors.Join(warn, ErrNoNextSection)
	}
	next := n.current + 1
	if !n.Reachable(next) {
		return errors.Join(warn, fmt.Errorf("%s: %w", next.Name(), ErrNavigationBlocked))
	}
	n.current = next
	return warn
}

// GoPrevious steps back one section, flooring at the first. It never
// validates and never touches the completion set.
func (n *Navigator) GoPrevious() {
	if n.current > 0 {
		n.current--
	}
}

// GoTo jumps to id if it is reachable.
func (n *Navigator) GoTo(id domain.SectionID) error {
	if _, err := n.registry.Get(id); err != nil {
		return err
	}
	if !n.Reachable(id) {
		return fmt.Errorf("%s: %w", id.Name(), ErrNavigationBlocked)
	}
	n.current = id
	return nil
}

// Reset returns to the first section.
func (n *Navigator) Reset() {
	n.current = 0
}

// CanSubmit reports whether SubmitAll may run: the last section is active
// and every section, optional ones included, is complete.
func (n *Navigator) CanSubmit() bool {
	return n.AtLast() && n.tracker.All()
}
