package value

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when a string is not a number.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Coerce converts a raw query value into its best-guess typed Value.
// Dates without an explicit zone are interpreted as UTC.
//
// Coerce is total: every input has a defined output and it never panics.
func Coerce(raw any) Value {
	return CoerceIn(raw, time.UTC)
}

// CoerceIn is Coerce with dates lacking a zone parsed in loc.
// A nil loc means UTC.
//
// String rules, tried in order:
//  1. "" or "null" (case-insensitive) → Null
//  2. "true" / "false" (case-insensitive) → Bool
//  3. a complete decimal number → Number ("0" is Number, not Bool)
//  4. a valid ISO-8601 date or timestamp → Date
//  5. otherwise the original string as Text
//
// Non-string input maps to its natural kind via FromNative.
func CoerceIn(raw any, loc *time.Location) Value {
	s, ok := raw.(string)
	if !ok {
		return FromNative(raw)
	}

	if s == "" || strings.EqualFold(s, "null") {
		return Null{}
	}
	if strings.EqualFold(s, "true") {
		return Bool(true)
	}
	if strings.EqualFold(s, "false") {
		return Bool(false)
	}
	if n, ok := ParseNumber(s); ok {
		return n
	}
	if t, ok := ParseDate(s, loc); ok {
		return Date{Time: t}
	}
	return Text(s)
}

// ParseNumber parses a complete decimal literal.
// Whitespace, hex, NaN and infinities are not numbers.
func ParseNumber(s string) (Number, bool) {
	if s == "" || !isNumeric(s) {
		return Number{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Number{}, false
	}
	return Float(f), true
}

// isNumeric reports whether s only holds characters of a decimal literal
// and at least one digit.
func isNumeric(s string) bool {
	digits := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits
}

// ParseDate parses s with the supported ISO-8601 layouts.
// Layouts without a zone are interpreted in loc (UTC when nil).
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
