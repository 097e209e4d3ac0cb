package predicate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/qsfilter/internal/value"
)

// member is one key of an ordered JSON object.
type member struct {
	key string
	val any
}

// object is a JSON object that remembers insertion order.
type object []member

// MarshalJSON renders the spec as an object whose predicates keep their
// first-seen field order.
func (s Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, specTree(&s), false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders predicates as an object in field order.
func (p Predicates) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, predicatesTree(&p), false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders a single predicate.
func (p Predicate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, predicateTree(p), false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCanonical produces the canonical JSON form of spec used for
// fingerprinting.
//
// Differences from MarshalJSON:
//  1. Object keys sorted by UTF-16 code units
//  2. Strings are NFC normalized
//
// Neither form escapes HTML characters.
func MarshalCanonical(spec *Spec) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil spec")
	}
	var buf bytes.Buffer
	if err := encode(&buf, specTree(spec), true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func specTree(s *Spec) object {
	obj := object{{"predicates", predicatesTree(&s.Predicates)}}
	if len(s.Order) > 0 {
		order := make([]any, len(s.Order))
		for i, o := range s.Order {
			order[i] = object{{"field", o.Field}, {"direction", string(o.Direction)}}
		}
		obj = append(obj, member{"order", order})
	}
	if s.Offset != nil {
		obj = append(obj, member{"offset", int64(*s.Offset)})
	}
	if s.Limit != nil {
		obj = append(obj, member{"limit", int64(*s.Limit)})
	}
	return obj
}

func predicatesTree(p *Predicates) object {
	obj := make(object, 0, p.Len())
	for field, pred := range p.All() {
		obj = append(obj, member{field, predicateTree(pred)})
	}
	return obj
}

func predicateTree(p Predicate) object {
	obj := object{{"kind", string(p.Kind)}}
	switch {
	case p.Kind.IsNullCheck():
	case p.Kind.IsMulti():
		values := make([]any, len(p.Values))
		for i, v := range p.Values {
			values[i] = valueTree(v)
		}
		obj = append(obj, member{"values", values})
	default:
		obj = append(obj, member{"value", valueTree(p.Value)})
	}
	if p.DateOnly {
		obj = append(obj, member{"date_only", true})
	}
	return obj
}

func valueTree(v value.Value) any {
	switch val := v.(type) {
	case nil, value.Null:
		return nil
	case value.Bool:
		return bool(val)
	case value.Number:
		if i, ok := val.Int64(); ok {
			return i
		}
		return val.Float64()
	case value.Date:
		return val.Format(time.RFC3339Nano)
	case value.Text:
		return string(val)
	default:
		return val.String()
	}
}

func encode(buf *bytes.Buffer, v any, canonical bool) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		// encoding/json formats floats the way ECMAScript does.
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	case string:
		return encodeString(buf, val, canonical)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem, canonical); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case object:
		members := val
		if canonical {
			members = slices.Clone(val)
			slices.SortFunc(members, func(a, b member) int {
				return compareUTF16(a.key, b.key)
			})
		}
		buf.WriteByte('{')
		for i, m := range members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.key, canonical); err != nil {
				return fmt.Errorf("key %q: %w", m.key, err)
			}
			buf.WriteByte(':')
			if err := encode(buf, m.val, canonical); err != nil {
				return fmt.Errorf("value for key %q: %w", m.key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for JSON: %T", v)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string, canonical bool) error {
	if canonical {
		s = norm.NFC.String(s)
	}
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// compareUTF16 orders strings by UTF-16 code units rather than UTF-8 bytes.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
