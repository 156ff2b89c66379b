package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/grantdesk/internal/app"
)

// ErrNotFound is returned when a row does not exist. It is the app
// sentinel so callers above the store can match it.
var ErrNotFound = app.ErrNotFound

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func encodePayload(rec app.Record) (string, error) {
	if rec == nil {
		return "{}", nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	return string(data), nil
}

func decodePayload(raw string) (app.Record, error) {
	rec := app.Record{}
	if raw == "" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	return rec, nil
}
