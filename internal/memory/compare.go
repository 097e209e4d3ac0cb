package memory

import (
	"cmp"
	"strings"
	"time"

	"github.com/roach88/qsfilter/internal/value"
)

// Compare orders two non-null values. ok is false when either side is Null
// or the kinds cannot be compared.
//
// Cross-kind rules:
//   - Bool compares with Number as 0 or 1
//   - Text compares with Number when it parses as a number
//   - Text compares with Date when it parses as a date (UTC)
func Compare(a, b value.Value) (int, bool) {
	if isNull(a) || isNull(b) {
		return 0, false
	}

	switch x := a.(type) {
	case value.Number:
		if y, ok := asNumber(b); ok {
			return compareNumbers(x, y), true
		}
	case value.Bool:
		if y, ok := b.(value.Bool); ok {
			return compareBools(bool(x), bool(y)), true
		}
		if y, ok := asNumber(b); ok {
			return compareNumbers(boolNumber(bool(x)), y), true
		}
	case value.Date:
		if y, ok := asTime(b); ok {
			return x.Time.Compare(y), true
		}
	case value.Text:
		switch y := b.(type) {
		case value.Text:
			return strings.Compare(string(x), string(y)), true
		case value.Number, value.Bool:
			if n, ok := value.ParseNumber(string(x)); ok {
				c, _ := Compare(n, y)
				return c, true
			}
		case value.Date:
			if t, ok := value.ParseDate(string(x), time.UTC); ok {
				return t.Compare(y.Time), true
			}
		}
	}
	return 0, false
}

func asNumber(v value.Value) (value.Number, bool) {
	switch x := v.(type) {
	case value.Number:
		return x, true
	case value.Bool:
		return boolNumber(bool(x)), true
	case value.Text:
		return value.ParseNumber(string(x))
	}
	return value.Number{}, false
}

func asTime(v value.Value) (time.Time, bool) {
	switch x := v.(type) {
	case value.Date:
		return x.Time, true
	case value.Text:
		return value.ParseDate(string(x), time.UTC)
	}
	return time.Time{}, false
}

func boolNumber(b bool) value.Number {
	if b {
		return value.Int(1)
	}
	return value.Int(0)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareNumbers(a, b value.Number) int {
	ai, aok := a.Int64()
	bi, bok := b.Int64()
	if aok && bok {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a.Float64(), b.Float64())
}

func isNull(v value.Value) bool {
	switch v.(type) {
	case nil, value.Null:
		return true
	}
	return false
}
