// Package wire encodes filter specs as MessagePack for handing them to a
// remote adapter.
//
// Values travel in a tagged envelope so Decode rebuilds the exact value
// kind: an integral Number stays integral and a Date keeps its offset.
package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// Version is the envelope version written by Encode.
const Version = 1

// ErrDecode is returned for any payload Decode cannot rebuild.
var ErrDecode = errors.New("wire: decode")

// Value tags.
const (
	tagNull  = "null"
	tagBool  = "bool"
	tagInt   = "int"
	tagFloat = "float"
	tagDate  = "date"
	tagText  = "text"
)

type envelope struct {
	Version    int         `msgpack:"v"`
	Predicates []entry     `msgpack:"p"`
	Order      []orderItem `msgpack:"o,omitempty"`
	Offset     *int        `msgpack:"off,omitempty"`
	Limit      *int        `msgpack:"lim,omitempty"`
}

type entry struct {
	Field    string   `msgpack:"f"`
	Kind     string   `msgpack:"k"`
	Value    *tagged  `msgpack:"v,omitempty"`
	Values   []tagged `msgpack:"vs,omitempty"`
	DateOnly bool     `msgpack:"d,omitempty"`
}

type orderItem struct {
	Field     string `msgpack:"f"`
	Direction string `msgpack:"d"`
}

type tagged struct {
	Tag   string  `msgpack:"t"`
	Bool  bool    `msgpack:"b,omitempty"`
	Int   int64   `msgpack:"i,omitempty"`
	Float float64 `msgpack:"n,omitempty"`
	Text  string  `msgpack:"s,omitempty"`
}

// Encode serializes spec into MessagePack.
func Encode(spec *predicate.Spec) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("wire: encode nil spec")
	}

	env := envelope{
		Version:    Version,
		Predicates: make([]entry, 0, spec.Predicates.Len()),
		Offset:     spec.Offset,
		Limit:      spec.Limit,
	}
	for field, pred := range spec.Predicates.All() {
		e := entry{Field: field, Kind: string(pred.Kind), DateOnly: pred.DateOnly}
		if pred.Value != nil {
			t := tag(pred.Value)
			e.Value = &t
		}
		for _, v := range pred.Values {
			e.Values = append(e.Values, tag(v))
		}
		env.Predicates = append(env.Predicates, e)
	}
	for _, o := range spec.Order {
		env.Order = append(env.Order, orderItem{Field: o.Field, Direction: string(o.Direction)})
	}

	data, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return data, nil
}

// Decode rebuilds a spec from data produced by Encode.
func Decode(data []byte) (*predicate.Spec, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDecode, env.Version)
	}

	spec := &predicate.Spec{Offset: env.Offset, Limit: env.Limit}
	for _, e := range env.Predicates {
		pred, err := e.predicate()
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrDecode, e.Field, err)
		}
		spec.Predicates.Set(e.Field, pred)
	}
	for _, o := range env.Order {
		dir := predicate.Direction(o.Direction)
		if dir != predicate.Asc && dir != predicate.Desc {
			return nil, fmt.Errorf("%w: field %q: invalid direction %q", ErrDecode, o.Field, o.Direction)
		}
		spec.Order = append(spec.Order, predicate.Order{Field: o.Field, Direction: dir})
	}
	return spec, nil
}

func (e entry) predicate() (predicate.Predicate, error) {
	kind := predicate.Kind(e.Kind)
	if !kind.Valid() {
		return predicate.Predicate{}, fmt.Errorf("unknown kind %q", e.Kind)
	}

	pred := predicate.Predicate{Kind: kind, DateOnly: e.DateOnly}
	if e.Value != nil {
		v, err := e.Value.value()
		if err != nil {
			return predicate.Predicate{}, err
		}
		pred.Value = v
	}
	if kind.IsMulti() {
		pred.Values = make([]value.Value, 0, len(e.Values))
	}
	for _, t := range e.Values {
		v, err := t.value()
		if err != nil {
			return predicate.Predicate{}, err
		}
		pred.Values = append(pred.Values, v)
	}
	return pred, nil
}

func tag(v value.Value) tagged {
	switch x := v.(type) {
	case value.Bool:
		return tagged{Tag: tagBool, Bool: bool(x)}
	case value.Number:
		if i, ok := x.Int64(); ok {
			return tagged{Tag: tagInt, Int: i}
		}
		return tagged{Tag: tagFloat, Float: x.Float64()}
	case value.Date:
		return tagged{Tag: tagDate, Text: x.Time.Format(time.RFC3339Nano)}
	case value.Text:
		return tagged{Tag: tagText, Text: string(x)}
	default:
		return tagged{Tag: tagNull}
	}
}

func (t tagged) value() (value.Value, error) {
	switch t.Tag {
	case tagNull:
		return value.Null{}, nil
	case tagBool:
		return value.Bool(t.Bool), nil
	case tagInt:
		return value.Int(t.Int), nil
	case tagFloat:
		return value.Float(t.Float), nil
	case tagDate:
		ts, err := time.Parse(time.RFC3339Nano, t.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", t.Text)
		}
		return value.NewDate(ts), nil
	case tagText:
		return value.Text(t.Text), nil
	default:
		return nil, fmt.Errorf("unknown value tag %q", t.Tag)
	}
}
