package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/grantdesk/internal/app"
)

// ErrUnavailable indicates the server could not be reached.
var ErrUnavailable = errors.New("grant portal unavailable")

// StatusError is a non-2xx reply, or a 2xx reply whose envelope reports
// success=false.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap maps authentication and lookup failures onto the app sentinels.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return app.ErrUnauthenticated
	case http.StatusNotFound:
		return app.ErrNotFound
	}
	return nil
}

func (e *StatusError) retryable() bool {
	return e.StatusCode >= 500
}
