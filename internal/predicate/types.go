package predicate

import "github.com/roach88/qsfilter/internal/value"

// Kind identifies the comparison a predicate performs.
type Kind string

const (
	Eq         Kind = "eq"
	Ne         Kind = "ne"
	IsNull     Kind = "is_null"
	IsNotNull  Kind = "is_not_null"
	Gt         Kind = "gt"
	Gte        Kind = "gte"
	Lt         Kind = "lt"
	Lte        Kind = "lte"
	StartsWith Kind = "starts_with"
	EndsWith   Kind = "ends_with"
	Contains   Kind = "contains"
	Between    Kind = "between"
	In         Kind = "in"
	NotIn      Kind = "not_in"
)

// Kinds lists the closed set of comparison kinds.
var Kinds = []Kind{
	Eq, Ne, IsNull, IsNotNull, Gt, Gte, Lt, Lte,
	StartsWith, EndsWith, Contains, Between, In, NotIn,
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsStringMatch reports whether k matches on raw text (prefix, suffix, substring).
func (k Kind) IsStringMatch() bool {
	return k == StartsWith || k == EndsWith || k == Contains
}

// IsSet reports whether k is a set-membership kind.
func (k Kind) IsSet() bool {
	return k == In || k == NotIn
}

// IsNullCheck reports whether k takes no operand.
func (k Kind) IsNullCheck() bool {
	return k == IsNull || k == IsNotNull
}

// IsMulti reports whether k carries its operands in Values.
func (k Kind) IsMulti() bool {
	return k == Between || k.IsSet()
}

// Predicate is the translated comparison for one field.
//
// Operand placement:
//   - IsNull, IsNotNull: no operand
//   - Between: Values = [min, max]
//   - In, NotIn: Values = zero or more elements
//   - every other kind: Value
type Predicate struct {
	Kind     Kind
	Value    value.Value
	Values   []value.Value
	DateOnly bool
}

// Compare creates a single-operand predicate.
func Compare(kind Kind, v value.Value) Predicate {
	return Predicate{Kind: kind, Value: v}
}

// Null creates an is-null predicate.
func Null() Predicate {
	return Predicate{Kind: IsNull}
}

// NotNull creates an is-not-null predicate.
func NotNull() Predicate {
	return Predicate{Kind: IsNotNull}
}

// Range creates a between predicate over [min, max].
func Range(min, max value.Value) Predicate {
	return Predicate{Kind: Between, Values: []value.Value{min, max}}
}

// Set creates an In or NotIn predicate.
func Set(kind Kind, values ...value.Value) Predicate {
	if values == nil {
		values = []value.Value{}
	}
	return Predicate{Kind: kind, Values: values}
}

// Truncated returns a copy of p flagged for date-only comparison.
func (p Predicate) Truncated() Predicate {
	p.DateOnly = true
	return p
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is one sort key.
type Order struct {
	Field     string
	Direction Direction
}

// Spec is the complete filter specification for one request.
//
// Offset and Limit are nil when the request carried no pagination.
type Spec struct {
	Predicates Predicates
	Order      []Order
	Offset     *int
	Limit      *int
}

// Paginated reports whether the spec carries pagination bounds.
func (s *Spec) Paginated() bool {
	return s.Limit != nil
}
