package value

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a sealed interface representing a coerced query value.
// Only Null, Bool, Number, Date, and Text implement this.
type Value interface {
	value() // Sealed - only these types implement it
	String() string
}

// Null represents an absent value ("", "null", or a nil raw value).
type Null struct{}

func (Null) value() {}

// String returns "null".
func (Null) String() string { return "null" }

// Bool represents a boolean literal.
type Bool bool

func (Bool) value() {}

// String returns "true" or "false".
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Number represents a numeric literal.
// Integral literals keep full int64 precision; everything else is float64.
type Number struct {
	i        int64
	f        float64
	integral bool
}

func (Number) value() {}

// Int creates an integral Number.
func Int(i int64) Number {
	return Number{i: i, f: float64(i), integral: true}
}

// Float creates a floating-point Number.
func Float(f float64) Number {
	return Number{f: f}
}

// Int64 returns the integer value and whether the number is integral.
func (n Number) Int64() (int64, bool) {
	return n.i, n.integral
}

// Float64 returns the number as a float64.
func (n Number) Float64() float64 {
	return n.f
}

// IsIntegral reports whether the number was built from an integer.
func (n Number) IsIntegral() bool {
	return n.integral
}

// String formats the number without exponent noise for integers.
func (n Number) String() string {
	if n.integral {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

// Date represents a parsed calendar date or timestamp.
type Date struct {
	time.Time
}

func (Date) value() {}

// NewDate wraps a time.Time as a Date.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// String formats the date as RFC 3339.
func (d Date) String() string {
	return d.Time.Format(time.RFC3339Nano)
}

// Text represents a string that matched no other rule.
type Text string

func (Text) value() {}

// String returns the text unmodified.
func (t Text) String() string { return string(t) }

// Native converts a Value to the Go type a database/sql driver accepts.
// Integral numbers become int64, other numbers float64, dates time.Time.
func Native(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(val)
	case Number:
		if i, ok := val.Int64(); ok {
			return i
		}
		return val.Float64()
	case Date:
		return val.Time
	case Text:
		return string(val)
	default:
		return nil
	}
}

// FromNative converts a Go value to a Value without string coercion.
// Strings become Text; use Coerce to apply the string rules.
func FromNative(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null{}
	case Value:
		return v
	case string:
		return Text(v)
	case []byte:
		return Text(v)
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case time.Time:
		return Date{Time: v}
	default:
		return Text(fmt.Sprint(v))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}
