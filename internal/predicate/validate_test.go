package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsfilter/internal/value"
)

func TestValidate_CleanSpec(t *testing.T) {
	spec := &Spec{Order: []Order{{Field: "age", Direction: Desc}}}
	spec.Predicates.Set("age", Range(value.Int(20), value.Int(30)))
	spec.Predicates.Set("name", Compare(StartsWith, value.Text("s")))
	spec.Predicates.Set("lastLogin", Null())
	spec.Predicates.Set("id", Set(In, value.Int(1), value.Int(2)))

	result := Validate(spec)

	assert.True(t, result.Clean)
	assert.Empty(t, result.Warnings)
}

func TestValidate_DegenerateForms(t *testing.T) {
	tests := []struct {
		name    string
		pred    Predicate
		contain string
	}{
		{"null lower bound", Range(value.Null{}, value.Int(5)), "lower bound is null"},
		{"null upper bound", Range(value.Int(5), value.Null{}), "upper bound is null"},
		{"wrong arity", Predicate{Kind: Between, Values: []value.Value{value.Int(1)}}, "has 1 bounds"},
		{"empty in", Set(In), "empty in list"},
		{"empty not in", Set(NotIn), "empty not_in list"},
		{"missing value", Predicate{Kind: Gt}, "has no value"},
		{"unknown kind", Predicate{Kind: "regex"}, "unknown predicate kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &Spec{}
			spec.Predicates.Set("f", tt.pred)

			result := Validate(spec)

			assert.False(t, result.Clean)
			require.Len(t, result.Warnings, 1)
			assert.Contains(t, result.Warnings[0], tt.contain)
			assert.Contains(t, result.Warnings[0], "'f'")
		})
	}
}

func TestValidate_BadDirection(t *testing.T) {
	result := Validate(&Spec{Order: []Order{{Field: "x", Direction: "UP"}}})
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "sort direction")
}

func TestValidate_NilSpec(t *testing.T) {
	result := Validate(nil)
	assert.False(t, result.Clean)
}
