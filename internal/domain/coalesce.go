package domain

import "strings"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float64FromPtrWithDefault returns the first non-nil *float64 value, or the fallback.
func Float64FromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
