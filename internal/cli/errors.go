package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/remote"
	"github.com/alexanderramin/grantdesk/internal/service"
	"github.com/alexanderramin/grantdesk/internal/wizard"
)

// FormatError turns a command error into the line shown to the applicant.
func FormatError(err error) string {
	var verr *wizard.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, app.ErrUnauthenticated):
		return "Authentication failed. Please log in again."
	case errors.Is(err, remote.ErrUnavailable):
		return "Network connection error. Please check your internet connection."
	case errors.Is(err, service.ErrAlreadySubmitted):
		return "This application has already been submitted."
	case errors.As(err, &verr):
		names := make([]string, len(verr.Sections))
		for i, id := range verr.Sections {
			names[i] = id.Name()
		}
		return "Complete these sections before submitting: " + strings.Join(names, ", ")
	}
	return err.Error()
}

// warnings splits a joined save error into printable lines.
func warnings(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, warnings(e)...)
		}
		return out
	}
	return []string{FormatError(err)}
}
