package app

import "errors"

var (
	// ErrUnauthenticated indicates the credential was missing, expired or
	// rejected. It is not retryable without logging in again.
	ErrUnauthenticated = errors.New("authentication failed, please log in again")

	// ErrNotFound indicates the requested draft or row does not exist.
	ErrNotFound = errors.New("not found")
)
