package predicate

import (
	"fmt"

	"github.com/roach88/qsfilter/internal/value"
)

// ValidationResult lists degenerate predicates found in a Spec.
//
// Translation never rejects input, so a spec with warnings is still usable.
// Adapters give every degenerate form a defined meaning (a Null between
// bound is unbounded, an empty In matches nothing, an empty NotIn matches
// everything); callers that prefer to reject such requests check Clean.
type ValidationResult struct {
	// Clean is true when no warnings were produced.
	Clean bool

	Warnings []string
}

// Validate inspects spec for degenerate predicates and unknown kinds.
//
// Validate is a pure function with no side effects.
func Validate(spec *Spec) ValidationResult {
	v := &validator{warnings: []string{}}
	if spec == nil {
		v.addWarning("nil spec")
	} else {
		for field, pred := range spec.Predicates.All() {
			v.validatePredicate(field, pred)
		}
		for _, o := range spec.Order {
			if o.Direction != Asc && o.Direction != Desc {
				v.addWarning("Field '%s' has unknown sort direction %q", o.Field, o.Direction)
			}
		}
	}

	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validatePredicate(field string, p Predicate) {
	switch {
	case !p.Kind.Valid():
		v.addWarning("Field '%s' has unknown predicate kind %q", field, p.Kind)
	case p.Kind.IsNullCheck():
		// no operand
	case p.Kind == Between:
		v.validateBetween(field, p)
	case p.Kind.IsSet():
		if len(p.Values) == 0 {
			v.addWarning("Field '%s' has an empty %s list", field, p.Kind)
		}
	default:
		if p.Value == nil {
			v.addWarning("Field '%s' %s predicate has no value", field, p.Kind)
		}
	}
}

func (v *validator) validateBetween(field string, p Predicate) {
	if len(p.Values) != 2 {
		v.addWarning("Field '%s' between predicate has %d bounds, expected 2", field, len(p.Values))
		return
	}
	for i, bound := range p.Values {
		if bound == nil {
			v.addWarning("Field '%s' between bound %d is missing", field, i)
			continue
		}
		if _, isNull := bound.(value.Null); isNull {
			side := "lower"
			if i == 1 {
				side = "upper"
			}
			v.addWarning("Field '%s' between %s bound is null - range is unbounded on that side", field, side)
		}
	}
}
