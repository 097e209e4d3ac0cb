package harness

import (
	"fmt"
	"reflect"
	"time"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/store"
	"github.com/roach88/qsfilter/internal/value"
)

// checkSpec compares a translated spec with the expectations that do not
// need a database.
func checkSpec(spec *predicate.Spec, validation predicate.ValidationResult, want Expect) []string {
	var errs []string

	for field, pw := range want.Predicates {
		got, ok := spec.Predicates.Get(field)
		if !ok {
			errs = append(errs, fmt.Sprintf("predicate %q missing", field))
			continue
		}
		errs = append(errs, checkPredicate(field, got, pw)...)
	}

	for _, field := range want.Absent {
		if spec.Predicates.Has(field) {
			errs = append(errs, fmt.Sprintf("predicate %q present, want absent", field))
		}
	}

	if want.Order != nil {
		if err := checkOrder(spec.Order, want.Order); err != "" {
			errs = append(errs, err)
		}
	}

	if want.Offset != nil && !intPtrEqual(spec.Offset, *want.Offset) {
		errs = append(errs, fmt.Sprintf("offset = %s, want %d", formatIntPtr(spec.Offset), *want.Offset))
	}
	if want.Limit != nil && !intPtrEqual(spec.Limit, *want.Limit) {
		errs = append(errs, fmt.Sprintf("limit = %s, want %d", formatIntPtr(spec.Limit), *want.Limit))
	}

	if want.Warnings != nil && len(validation.Warnings) != *want.Warnings {
		errs = append(errs, fmt.Sprintf("warnings = %v, want %d", validation.Warnings, *want.Warnings))
	}
	return errs
}

func checkPredicate(field string, got predicate.Predicate, want PredicateExpect) []string {
	var errs []string
	if string(got.Kind) != want.Kind {
		errs = append(errs, fmt.Sprintf("predicate %q kind = %s, want %s", field, got.Kind, want.Kind))
	}
	if got.DateOnly != want.DateOnly {
		errs = append(errs, fmt.Sprintf("predicate %q date_only = %t, want %t", field, got.DateOnly, want.DateOnly))
	}
	if want.Value != nil && !valuesEqual(native(got.Value), want.Value) {
		errs = append(errs, fmt.Sprintf("predicate %q value = %v, want %v", field, native(got.Value), want.Value))
	}
	if want.Values != nil {
		gotValues := make([]any, len(got.Values))
		for i, v := range got.Values {
			gotValues[i] = native(v)
		}
		if !slicesEqual(gotValues, want.Values) {
			errs = append(errs, fmt.Sprintf("predicate %q values = %v, want %v", field, gotValues, want.Values))
		}
	}
	return errs
}

func checkOrder(got []predicate.Order, want []string) string {
	match := len(got) == len(want)
	for i := 0; match && i < len(want); i++ {
		field, dir, _ := parseOrderKey(want[i])
		match = got[i].Field == field && got[i].Direction == dir
	}
	if match {
		return ""
	}
	keys := make([]string, len(got))
	for i, o := range got {
		keys[i] = o.Field + " " + string(o.Direction)
	}
	return fmt.Sprintf("order = %v, want %v", keys, want)
}

// checkRows compares the returned page with want, row by row. Each wanted
// row is a subset match. A nil want skips the check.
func checkRows(rows []store.Row, want []map[string]any) []string {
	if want == nil {
		return nil
	}
	if len(rows) != len(want) {
		return []string{fmt.Sprintf("rows = %d, want %d", len(rows), len(want))}
	}

	var errs []string
	for i, w := range want {
		for col, wv := range w {
			gv, ok := rows[i][col]
			if !ok {
				errs = append(errs, fmt.Sprintf("rows[%d].%s missing", i, col))
				continue
			}
			if !valuesEqual(gv, wv) {
				errs = append(errs, fmt.Sprintf("rows[%d].%s = %v, want %v", i, col, gv, wv))
			}
		}
	}
	return errs
}

func native(v value.Value) any {
	if v == nil {
		return nil
	}
	return value.Native(v)
}

// valuesEqual compares a database or spec value with a YAML value.
// Numbers compare by value across Go types. Times compare as instants,
// and a string on either side is parsed as a date first.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return a == e
		}
	}
	_, aTime := actual.(time.Time)
	_, eTime := expected.(time.Time)
	if aTime || eTime {
		a, aok := toTime(actual)
		e, eok := toTime(expected)
		return aok && eok && a.Equal(e)
	}
	return reflect.DeepEqual(actual, expected)
}

func slicesEqual(actual, expected []any) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i := range actual {
		if !valuesEqual(actual[i], expected[i]) {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return value.ParseDate(x, time.UTC)
	}
	return time.Time{}, false
}

func intPtrEqual(p *int, want int) bool {
	return p != nil && *p == want
}

func formatIntPtr(p *int) string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprint(*p)
}
