// Package memory evaluates filter specs against in-memory records.
//
// Semantics follow the SQL adapter so that the same spec selects the same
// rows in memory and in a database:
//
//   - a missing or nil field is NULL; only is_null matches it
//   - string matching is case-insensitive
//   - a Null between bound leaves that side unbounded
//   - an empty in list matches nothing, an empty not_in list everything
//   - not_in with a Null element matches nothing
//   - NULLs sort first in ascending order
package memory

import (
	"strings"
	"time"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// Record is one row keyed by field name.
type Record = map[string]any

// Match reports whether rec satisfies every predicate of spec.
// Order and pagination are ignored.
func Match(rec Record, spec *predicate.Spec) bool {
	if spec == nil {
		return true
	}
	for field, pred := range spec.Predicates.All() {
		if !matchPredicate(fieldValue(rec, field, pred.DateOnly), pred) {
			return false
		}
	}
	return true
}

// fieldValue reads field from rec, truncated to "YYYY-MM-DD" text when
// dateOnly is set.
func fieldValue(rec Record, field string, dateOnly bool) value.Value {
	v := value.FromNative(rec[field])
	if !dateOnly {
		return v
	}
	switch x := v.(type) {
	case value.Date:
		return value.Text(value.DateOnly(x, nil))
	case value.Text:
		if t, ok := value.ParseDate(string(x), time.UTC); ok {
			return value.Text(t.Format(value.DateOnlyLayout))
		}
	}
	return v
}

func matchPredicate(v value.Value, p predicate.Predicate) bool {
	switch p.Kind {
	case predicate.IsNull:
		return isNull(v)
	case predicate.IsNotNull:
		return !isNull(v)
	case predicate.Eq:
		if isNull(p.Value) {
			return isNull(v)
		}
		return compareIs(v, p.Value, func(c int) bool { return c == 0 })
	case predicate.Ne:
		if isNull(p.Value) {
			return !isNull(v)
		}
		return compareIs(v, p.Value, func(c int) bool { return c != 0 })
	case predicate.Gt:
		return compareIs(v, p.Value, func(c int) bool { return c > 0 })
	case predicate.Gte:
		return compareIs(v, p.Value, func(c int) bool { return c >= 0 })
	case predicate.Lt:
		return compareIs(v, p.Value, func(c int) bool { return c < 0 })
	case predicate.Lte:
		return compareIs(v, p.Value, func(c int) bool { return c <= 0 })
	case predicate.StartsWith, predicate.EndsWith, predicate.Contains:
		return matchText(v, p)
	case predicate.Between:
		return matchBetween(v, p.Values)
	case predicate.In:
		return matchIn(v, p.Values)
	case predicate.NotIn:
		return matchNotIn(v, p.Values)
	default:
		return false
	}
}

func compareIs(v, operand value.Value, test func(int) bool) bool {
	c, ok := Compare(v, operand)
	return ok && test(c)
}

func matchText(v value.Value, p predicate.Predicate) bool {
	if isNull(v) {
		return false
	}
	haystack := strings.ToLower(v.String())
	needle := ""
	if !isNull(p.Value) {
		needle = strings.ToLower(p.Value.String())
	}

	switch p.Kind {
	case predicate.StartsWith:
		return strings.HasPrefix(haystack, needle)
	case predicate.EndsWith:
		return strings.HasSuffix(haystack, needle)
	default:
		return strings.Contains(haystack, needle)
	}
}

func matchBetween(v value.Value, bounds []value.Value) bool {
	if len(bounds) != 2 {
		return false
	}
	lo, hi := bounds[0], bounds[1]
	if isNull(lo) && isNull(hi) {
		return true
	}
	if !isNull(lo) && !compareIs(v, lo, func(c int) bool { return c >= 0 }) {
		return false
	}
	if !isNull(hi) && !compareIs(v, hi, func(c int) bool { return c <= 0 }) {
		return false
	}
	return true
}

func matchIn(v value.Value, set []value.Value) bool {
	for _, elem := range set {
		if compareIs(v, elem, func(c int) bool { return c == 0 }) {
			return true
		}
	}
	return false
}

func matchNotIn(v value.Value, set []value.Value) bool {
	if len(set) == 0 {
		return true
	}
	if isNull(v) {
		return false
	}
	for _, elem := range set {
		if isNull(elem) {
			return false
		}
		if compareIs(v, elem, func(c int) bool { return c == 0 }) {
			return false
		}
	}
	return true
}
