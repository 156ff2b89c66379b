package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

var (
	// ErrNavigationBlocked is returned when the target section's
	// prerequisite is not met. No state changes.
	ErrNavigationBlocked = errors.New("complete Budget Estimate first")

	// ErrNoNextSection is returned by GoNext on the last section.
	ErrNoNextSection = errors.New("already at the last section")

	// ErrUnknownSection indicates a programmer error: the operation is
	// aborted but the session stays usable.
	ErrUnknownSection = errors.New("unknown section")

	// ErrNotOptional is returned when manually completing a section that
	// is validated automatically.
	ErrNotOptional = errors.New("section is completed by validation, not manually")

	// ErrInFlight is returned when the same action is already running.
	ErrInFlight = errors.New("action already in progress")

	// ErrNoDraft is returned when an operation needs a persisted draft.
	ErrNoDraft = errors.New("draft has not been saved yet")

	// ErrIncomplete is matched by *ValidationError.
	ErrIncomplete = errors.New("application is incomplete")

	// ErrNotLastStep is returned by SubmitAll before the last section.
	ErrNotLastStep = errors.New("submit is only available on the last section")

	// ErrMissingCall is returned when a new draft cannot be created because
	// no call template is selected.
	ErrMissingCall = errors.New("no call selected for this application")

	// ErrSubmitted is returned when editing operations target a submitted draft.
	ErrSubmitted = errors.New("application already submitted")
)

// ValidationError lists the sections that block submission.
type ValidationError struct {
	Sections []domain.SectionID
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Sections))
	for i, id := range e.Sections {
		names[i] = id.Name()
	}
	return fmt.Sprintf("incomplete sections: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrIncomplete
}

type WarningKind string

const (
	WarnPersistence    WarningKind = "persistence"
	WarnReconciliation WarningKind = "reconciliation"
	WarnOptionalFlag   WarningKind = "optional_flag"
)

// Warning is a non-fatal failure. Local state has already been updated
// and the caller may retry.
type Warning struct {
	Kind    WarningKind
	Section *domain.SectionID
	Err     error
}

func (w *Warning) Error() string {
	if w.Section != nil {
		return fmt.Sprintf("%s warning (%s): %v", w.Kind, w.Section.Name(), w.Err)
	}
	return fmt.Sprintf("%s warning: %v", w.Kind, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

func newWarning(kind WarningKind, section *domain.SectionID, err error) *Warning {
	return &Warning{Kind: kind, Section: section, Err: err}
}

func sectionRef(id domain.SectionID) *domain.SectionID {
	return &id
}

// IsWarning reports whether every error in err's tree is a *Warning, in
// which case the operation took effect locally.
func IsWarning(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !IsWarning(e) {
				return false
			}
		}
		return true
	}
	var w *Warning
	return errors.As(err, &w)
}
