package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsfilter/internal/filter"
	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

func at(s string) any {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

// customers mirrors the store package's demo dataset.
func customers() []Record {
	return []Record{
		{"id": 1, "name": "Leesa Tex", "age": 22, "totalWealth": 50.0, "lastLogin": at("2022-07-06 09:12:44"), "isActive": true},
		{"id": 2, "name": "Gabby Fitz", "age": 22, "totalWealth": 128.65, "lastLogin": at("2022-07-06 13:40:02"), "isActive": false},
		{"id": 3, "name": "Malvina Al", "age": 19, "totalWealth": 79.01, "lastLogin": at("2022-07-06 23:59:59"), "isActive": false},
		{"id": 4, "name": "Topher Gage", "age": 18, "totalWealth": 12.5, "lastLogin": nil, "isActive": true},
		{"id": 5, "name": "Percival Emery", "age": 26, "totalWealth": 697.02, "lastLogin": at("2022-05-28 07:03:11"), "isActive": true},
		{"id": 6, "name": "Rosalind Edmund", "age": 31, "totalWealth": 1024.0, "lastLogin": at("2022-06-12 18:20:00"), "isActive": false},
		{"id": 7, "name": "Sherlyn Axel", "age": 44, "totalWealth": 10000.99, "lastLogin": at("2021-12-18 00:00:01"), "isActive": false},
		{"id": 8, "name": "Satchel Veva", "age": 49, "totalWealth": 10001.12, "lastLogin": "2021-11-03 11:11:11", "isActive": true},
		{"id": 9, "name": "Eileen Myrna", "age": 55, "totalWealth": 760.0, "lastLogin": at("2022-04-22 20:45:30"), "isActive": true},
		{"id": 10, "name": "Abbi Xanthia", "age": 27, "totalWealth": 99999.0, "isActive": true},
	}
}

func TestFilter_Customers(t *testing.T) {
	plain := filter.MustNew(filter.Config{})
	dateOnly := filter.MustNew(filter.Config{DateFields: []string{"lastLogin"}, DateOnlyCompare: true})

	tests := []struct {
		name   string
		parser *filter.Parser
		query  string
		want   int
	}{
		{"equals number", plain, "age=22", 2},
		{"equals bool", plain, "isActive=false", 4},
		{"is null", plain, "lastLogin=null", 2},
		{"not equals", plain, "age=!22", 8},
		{"is not null", plain, "lastLogin=!null", 8},
		{"between ints", plain, "age=|20|30", 4},
		{"between floats", plain, "totalWealth=|0|99.99", 3},
		{"starts with", plain, "name=^s", 2},
		{"ends with", plain, "name=$a", 3},
		{"contains", plain, "name=~ab", 2},
		{"in", plain, "age=$in18|19|20|22|31", 5},
		{"not in", plain, "age=$nin44|49|55", 7},
		{"empty in", plain, "age=$in", 0},
		{"empty not in", plain, "age=$nin", 10},
		{"open between", plain, "age=|50|", 1},
		{"date only equals", dateOnly, "lastLogin=2022-07-06", 3},
		{"date only not equals", dateOnly, "lastLogin=!2022-07-06", 5},
		{"date only between", dateOnly, "lastLogin=|2022-05-10|2022-06-30", 2},
		{"date only starts with", dateOnly, "lastLogin=^2021-", 2},
		{"date only ends with", dateOnly, "lastLogin=$-03", 1},
		{"date only contains", dateOnly, "lastLogin=~-07-", 3},
		{"date only in", dateOnly, "lastLogin=$in2022-07-06|2021-11-03|2021-12-18", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.parser.ParseString(tt.query)
			require.NoError(t, err)
			assert.Len(t, Filter(customers(), spec), tt.want)
		})
	}
}

func TestApply_SortAndPaginate(t *testing.T) {
	spec, err := filter.MustNew(filter.Config{}).ParseString("sort=age&limit=3&page=2")
	require.NoError(t, err)

	got := Apply(customers(), spec)

	require.Len(t, got, 3)
	assert.Equal(t, []any{"Gabby Fitz", "Percival Emery", "Abbi Xanthia"},
		[]any{got[0]["name"], got[1]["name"], got[2]["name"]})
}

func TestApply_DescendingNullsLast(t *testing.T) {
	spec := &predicate.Spec{Order: []predicate.Order{{Field: "lastLogin", Direction: predicate.Desc}}}

	got := Apply(customers(), spec)

	require.Len(t, got, 10)
	assert.Equal(t, 3, got[0]["id"])
	assert.Nil(t, got[8]["lastLogin"])
	assert.Nil(t, got[9]["lastLogin"])
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	records := customers()
	spec := &predicate.Spec{Order: []predicate.Order{{Field: "age", Direction: predicate.Desc}}}

	Apply(records, spec)

	assert.Equal(t, 1, records[0]["id"])
}

func TestSort_ReturnsCopy(t *testing.T) {
	records := customers()
	order := []predicate.Order{{Field: "age", Direction: predicate.Desc}}

	got := Sort(records, order)

	assert.Equal(t, 9, got[0]["id"])
	assert.Equal(t, 1, records[0]["id"])
	assert.Equal(t, 10, records[9]["id"])
}

func TestPaginate_ReturnsCopy(t *testing.T) {
	records := customers()
	n := func(v int) *int { return &v }

	got := Paginate(records, &predicate.Spec{Offset: n(0), Limit: n(2)})
	got[0] = Record{"id": 99}
	all := Paginate(records, nil)
	all[1] = Record{"id": 98}

	assert.Equal(t, 1, records[0]["id"])
	assert.Equal(t, 2, records[1]["id"])
}

func TestPaginate(t *testing.T) {
	records := customers()
	n := func(v int) *int { return &v }

	assert.Len(t, Paginate(records, &predicate.Spec{Offset: n(8), Limit: n(5)}), 2)
	assert.Len(t, Paginate(records, &predicate.Spec{Offset: n(20), Limit: n(5)}), 0)
	assert.Len(t, Paginate(records, &predicate.Spec{Limit: n(int(^uint(0) >> 1))}), 10)
	assert.Len(t, Paginate(records, nil), 10)
}

func TestMatch_NullSemantics(t *testing.T) {
	rec := Record{"a": nil}

	tests := []struct {
		name string
		pred predicate.Predicate
		want bool
	}{
		{"is null", predicate.Null(), true},
		{"is not null", predicate.NotNull(), false},
		{"eq null", predicate.Compare(predicate.Eq, value.Null{}), true},
		{"ne value", predicate.Compare(predicate.Ne, value.Int(1)), false},
		{"gt", predicate.Compare(predicate.Gt, value.Int(1)), false},
		{"contains", predicate.Compare(predicate.Contains, value.Text("")), false},
		{"unbounded between", predicate.Range(value.Null{}, value.Null{}), true},
		{"in", predicate.Set(predicate.In, value.Null{}), false},
		{"empty not in", predicate.Set(predicate.NotIn), true},
		{"not in", predicate.Set(predicate.NotIn, value.Int(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &predicate.Spec{}
			spec.Predicates.Set("a", tt.pred)
			assert.Equal(t, tt.want, Match(rec, spec))
		})
	}
}

func TestMatch_NotInWithNullElement(t *testing.T) {
	spec := &predicate.Spec{}
	spec.Predicates.Set("a", predicate.Set(predicate.NotIn, value.Int(1), value.Null{}))

	assert.False(t, Match(Record{"a": 5}, spec))
}

func TestMatch_NilSpec(t *testing.T) {
	assert.True(t, Match(Record{}, nil))
}

func TestCompare(t *testing.T) {
	d1 := value.NewDate(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	d2 := value.NewDate(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		a, b value.Value
		want int
		ok   bool
	}{
		{"ints", value.Int(1), value.Int(2), -1, true},
		{"int float", value.Int(2), value.Float(1.5), 1, true},
		{"bool number", value.Bool(true), value.Int(1), 0, true},
		{"bools", value.Bool(false), value.Bool(true), -1, true},
		{"text number", value.Text("10"), value.Int(9), 1, true},
		{"texts", value.Text("a"), value.Text("b"), -1, true},
		{"dates", d2, d1, 1, true},
		{"date text", d1, value.Text("2022-01-01"), 0, true},
		{"text date", value.Text("2023-01-01"), d2, 1, true},
		{"null", value.Null{}, value.Int(1), 0, false},
		{"text vs bool word", value.Text("abc"), value.Bool(true), 0, false},
		{"date vs number", d1, value.Int(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
