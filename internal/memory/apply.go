package memory

import (
	"slices"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// Filter returns the records matching spec, in input order.
func Filter(records []Record, spec *predicate.Spec) []Record {
	out := []Record{}
	for _, rec := range records {
		if Match(rec, spec) {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns a copy of records ordered by order. The sort is stable, so
// records with equal keys keep their input order.
func Sort(records []Record, order []predicate.Order) []Record {
	out := slices.Clone(records)
	if len(order) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		for _, o := range order {
			c := compareForSort(value.FromNative(a[o.Field]), value.FromNative(b[o.Field]))
			if o.Direction == predicate.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// compareForSort totally orders values: NULLs first, then comparable
// values, then incomparable values by their string form.
func compareForSort(a, b value.Value) int {
	switch an, bn := isNull(a), isNull(b); {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	if c, ok := Compare(a, b); ok {
		return c
	}
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

// Paginate returns a copy of the window of records selected by spec's
// offset and limit.
func Paginate(records []Record, spec *predicate.Spec) []Record {
	if spec == nil {
		return slices.Clone(records)
	}
	start := 0
	if spec.Offset != nil && *spec.Offset > 0 {
		start = min(*spec.Offset, len(records))
	}
	end := len(records)
	if spec.Limit != nil && *spec.Limit >= 0 && *spec.Limit < end-start {
		end = start + *spec.Limit
	}
	return slices.Clone(records[start:end])
}

// Apply filters, sorts and paginates records by spec. The input slice is
// not modified.
func Apply(records []Record, spec *predicate.Spec) []Record {
	out := Filter(records, spec)
	if spec != nil {
		out = Sort(out, spec.Order)
	}
	return Paginate(out, spec)
}
