package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a raw wire representation: a flat object with nested arrays
// and objects, as returned by the persistence collaborator.
type Record map[string]any

// Value returns the first candidate key holding a truthy value.
// Empty strings, zero numbers, false and nil are skipped.
func (r Record) Value(keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// String returns the first truthy candidate rendered as text, or "".
func (r Record) String(keys ...string) string {
	v, ok := r.Value(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Float returns the first candidate that parses as a number. Numeric
// strings are accepted. Missing or unparsable values yield 0.
func (r Record) Float(keys ...string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(r[k]); ok {
			return f
		}
	}
	return 0
}

// Int returns Float truncated to an int.
func (r Record) Int(keys ...string) int {
	return int(r.Float(keys...))
}

// ID returns a positive integer id from the first candidate key, or 0.
func (r Record) ID(keys ...string) int64 {
	f := r.Float(keys...)
	if f <= 0 {
		return 0
	}
	return int64(f)
}

// Bool reports whether the first present candidate is true. The strings
// "true", "yes" and "1" count as true.
func (r Record) Bool(keys ...string) bool {
	for _, k := range keys {
		switch t := r[k].(type) {
		case bool:
			return t
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "yes", "1":
				return true
			}
			return false
		case float64:
			return t != 0
		}
	}
	return false
}

// Records returns the first candidate holding a list of objects.
func (r Record) Records(keys ...string) []Record {
	for _, k := range keys {
		list, ok := r[k].([]any)
		if !ok {
			continue
		}
		out := make([]Record, 0, len(list))
		for _, item := range list {
			if m := asRecord(item); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Object returns the first candidate holding a nested object.
func (r Record) Object(keys ...string) Record {
	for _, k := range keys {
		if m := asRecord(r[k]); m != nil {
			return m
		}
	}
	return nil
}

// Maps returns a list of plain objects for passthrough fields.
func (r Record) Maps(keys ...string) []map[string]any {
	recs := r.Records(keys...)
	if recs == nil {
		return nil
	}
	out := make([]map[string]any, len(recs))
	for i, rec := range recs {
		out[i] = map[string]any(rec)
	}
	return out
}

// Merge copies every key of others into a new record, later records
// overwriting earlier ones.
func Merge(records ...Record) Record {
	out := Record{}
	for _, rec := range records {
		for k, v := range rec {
			out[k] = v
		}
	}
	return out
}

func asRecord(v any) Record {
	switch m := v.(type) {
	case Record:
		return m
	case map[string]any:
		return Record(m)
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		return t.String() != "0" && t.String() != ""
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
