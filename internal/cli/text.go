package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// writeSpec renders spec one line per part:
//
//	age: between 20, 30
//	name: starts_with "s"
//	order: age DESC
//	offset: 10
//	limit: 10
func writeSpec(w io.Writer, spec *predicate.Spec) {
	for field, pred := range spec.Predicates.All() {
		fmt.Fprintf(w, "%s: %s\n", field, formatPredicate(pred))
	}
	if len(spec.Order) > 0 {
		keys := make([]string, len(spec.Order))
		for i, o := range spec.Order {
			keys[i] = o.Field + " " + string(o.Direction)
		}
		fmt.Fprintf(w, "order: %s\n", strings.Join(keys, ", "))
	}
	if spec.Offset != nil {
		fmt.Fprintf(w, "offset: %d\n", *spec.Offset)
	}
	if spec.Limit != nil {
		fmt.Fprintf(w, "limit: %d\n", *spec.Limit)
	}
}

func formatPredicate(p predicate.Predicate) string {
	var b strings.Builder
	b.WriteString(string(p.Kind))

	switch {
	case p.Kind.IsNullCheck():
	case p.Kind == predicate.Between:
		b.WriteString(" " + formatValues(p.Values, ", "))
	case p.Kind.IsSet():
		b.WriteString(" [" + formatValues(p.Values, ", ") + "]")
	default:
		b.WriteString(" " + formatValue(p.Value))
	}

	if p.DateOnly {
		b.WriteString(" (date only)")
	}
	return b.String()
}

func formatValues(vs []value.Value, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, sep)
}

func formatValue(v value.Value) string {
	switch x := v.(type) {
	case nil:
		return "<none>"
	case value.Text:
		return strconv.Quote(string(x))
	default:
		return x.String()
	}
}
