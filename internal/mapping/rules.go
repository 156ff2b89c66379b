package mapping

import (
	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Rule maps one payload field of T to and from wire records. Keys are the
// candidate source keys in priority order; the first truthy one wins. The
// field is written back under Out.
type Rule[T any] struct {
	Keys   []string
	Out    string
	decode func(dst *T, rec app.Record, preview Previewer)
	encode func(src *T, out app.Record, files *[]app.FileUpload, field string)
}

// As overrides the key used when encoding.
func (r Rule[T]) As(key string) Rule[T] {
	r.Out = key
	return r
}

// Text maps a string field. Missing values decode as "".
func Text[T any](target func(*T) *string, keys ...string) Rule[T] {
	return Rule[T]{
		Keys: keys,
		Out:  keys[0],
		decode: func(dst *T, rec app.Record, _ Previewer) {
			*target(dst) = rec.String(keys...)
		},
		encode: func(src *T, out app.Record, _ *[]app.FileUpload, field string) {
			out[field] = *target(src)
		},
	}
}

// Number maps a float field. Numeric strings are parsed; missing values
// decode as 0.
func Number[T any](target func(*T) *float64, keys ...string) Rule[T] {
	return Rule[T]{
		Keys: keys,
		Out:  keys[0],
		decode: func(dst *T, rec app.Record, _ Previewer) {
			*target(dst) = rec.Float(keys...)
		},
		encode: func(src *T, out app.Record, _ *[]app.FileUpload, field string) {
			out[field] = *target(src)
		},
	}
}

// Whole maps an int field.
func Whole[T any](target func(*T) *int, keys ...string) Rule[T] {
	return Rule[T]{
		Keys: keys,
		Out:  keys[0],
		decode: func(dst *T, rec app.Record, _ Previewer) {
			*target(dst) = rec.Int(keys...)
		},
		encode: func(src *T, out app.Record, _ *[]app.FileUpload, field string) {
			out[field] = *target(src)
		},
	}
}

// Amount maps a nullable number. Decoding always yields a non-nil value,
// defaulting to 0. Encoding writes 0 for an absent value.
func Amount[T any](target func(*T) **float64, keys ...string) Rule[T] {
	return Rule[T]{
		Keys: keys,
		Out:  keys[0],
		decode: func(dst *T, rec app.Record, _ Previewer) {
			*target(dst) = domain.Float(rec.Float(keys...))
		},
		encode: func(src *T, out app.Record, _ *[]app.FileUpload, field string) {
			out[field] = domain.Float64FromPtrWithDefault(0, *target(src))
		},
	}
}

// File maps an attachment slot. Decoding builds a preview from the stored
// path and never sets a local file. Encoding emits an upload only when a
// local file is pending.
func File[T any](target func(*T) *domain.FileSlot, keys ...string) Rule[T] {
	return Rule[T]{
		Keys: keys,
		Out:  keys[0],
		decode: func(dst *T, rec app.Record, preview Previewer) {
			*target(dst) = domain.FileSlot{Preview: preview.Resolve(rec.String(keys...))}
		},
		encode: func(src *T, _ app.Record, files *[]app.FileUpload, field string) {
			slot := *target(src)
			if slot.Pending() {
				*files = append(*files, app.FileUpload{Field: field, Path: slot.Local.Path})
			}
		},
	}
}

// Apply decodes rec into dst using rules.
func Apply[T any](dst *T, rec app.Record, preview Previewer, rules []Rule[T]) {
	if rec == nil {
		rec = app.Record{}
	}
	for _, r := range rules {
		r.decode(dst, rec, preview)
	}
}

// Emit encodes src into a record plus pending uploads using rules.
func Emit[T any](src *T, rules []Rule[T]) (app.Record, []app.FileUpload) {
	out := app.Record{}
	var files []app.FileUpload
	for _, r := range rules {
		r.encode(src, out, &files, r.Out)
	}
	return out, files
}
