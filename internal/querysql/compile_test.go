package querysql

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsfilter/internal/filter"
	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// render formats compiled output for golden comparison.
func render(t *testing.T, sql string, params []any) []byte {
	t.Helper()
	if params == nil {
		params = []any{}
	}
	encoded, err := json.Marshal(params)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.WriteString(sql)
	buf.WriteByte('\n')
	buf.Write(encoded)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func parse(t *testing.T, cfg filter.Config, query string) *predicate.Spec {
	t.Helper()
	spec, err := filter.MustNew(cfg).ParseString(query)
	require.NoError(t, err)
	return spec
}

func TestCompile_Golden(t *testing.T) {
	dateCfg := filter.Config{DateFields: []string{"lastLogin", "createdAt"}, DateOnlyCompare: true}

	tests := []struct {
		name    string
		dialect Dialect
		cfg     filter.Config
		table   string
		columns []string
		query   string
	}{
		{"equals", SQLite, filter.Config{}, "customers", nil, "age=22&isActive=false"},
		{"operators", SQLite, filter.Config{}, "customers", nil, "age=%3E%3D20&totalWealth=%3C100&name=!Bob"},
		{"between_set", SQLite, filter.Config{}, "customers", nil, "age=|20|30&id=$in1|2|3&status=$ninx"},
		{"nulls", SQLite, filter.Config{}, "customers", nil, "lastLogin=&deletedAt=!&age=|20|"},
		{"empty_sets", SQLite, filter.Config{}, "customers", nil, "id=$in&tag=$nin"},
		{"sort_paginate", SQLite, filter.Config{}, "customers", []string{"id", "name"}, "sort=!age|name&page=3&limit=10&name=~a"},
		{"date_only_sqlite", SQLite, dateCfg, "customers", nil, "lastLogin=|2022-05-10|2022-06-30&createdAt=^2021-"},
		{"date_only_duckdb", DuckDB, dateCfg, "customers", nil, "lastLogin=|2022-05-10|2022-06-30&createdAt=^2021-"},
		{"quoting", SQLite, filter.Config{}, "my table", []string{"order", "first name"}, "order=1"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Compiler{Dialect: tt.dialect, Tiebreak: "id"}
			sql, params, err := c.Compile(tt.table, tt.columns, parse(t, tt.cfg, tt.query))
			require.NoError(t, err)
			g.Assert(t, tt.name, render(t, sql, params))
		})
	}
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	spec := parse(t, filter.Config{}, "name=Robert%27%29%3B+DROP+TABLE+customers%3B--")

	sql, params, err := NewCompiler(SQLite).Compile("customers", nil, spec)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM customers WHERE name = ?", sql)
	assert.Equal(t, []any{"Robert'); DROP TABLE customers;--"}, params)
}

func TestCompile_EqualsNull(t *testing.T) {
	spec := &predicate.Spec{}
	spec.Predicates.Set("a", predicate.Compare(predicate.Eq, value.Null{}))
	spec.Predicates.Set("b", predicate.Compare(predicate.Ne, value.Null{}))

	where, params, err := NewCompiler(SQLite).CompileWhere(spec)
	require.NoError(t, err)

	assert.Equal(t, "a IS NULL AND b IS NOT NULL", where)
	assert.Empty(t, params)
}

func TestCompile_BetweenUnbounded(t *testing.T) {
	spec := &predicate.Spec{}
	spec.Predicates.Set("a", predicate.Range(value.Null{}, value.Null{}))
	spec.Predicates.Set("b", predicate.Range(value.Null{}, value.Int(9)))

	where, params, err := NewCompiler(SQLite).CompileWhere(spec)
	require.NoError(t, err)

	assert.Equal(t, "1 = 1 AND b <= ?", where)
	assert.Equal(t, []any{int64(9)}, params)
}

func TestCompile_DateParams(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	at := value.NewDate(time.Date(2022, 7, 6, 18, 12, 44, 0, tokyo))
	frac := value.NewDate(time.Date(2022, 7, 6, 9, 12, 44, 500_000_000, time.UTC))

	spec := &predicate.Spec{}
	spec.Predicates.Set("lastLogin", predicate.Compare(predicate.Gte, at))
	spec.Predicates.Set("createdAt", predicate.Range(at, frac))
	spec.Predicates.Set("updatedAt", predicate.Set(predicate.In, at))

	tests := []struct {
		dialect Dialect
		want    []any
	}{
		{SQLite, []any{"2022-07-06 09:12:44", "2022-07-06 09:12:44", "2022-07-06 09:12:44.5", "2022-07-06 09:12:44"}},
		{DuckDB, []any{at.Time, at.Time, frac.Time, at.Time}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			_, params, err := NewCompiler(tt.dialect).CompileWhere(spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestCompile_LikeEscaping(t *testing.T) {
	spec := &predicate.Spec{}
	spec.Predicates.Set("code", predicate.Compare(predicate.Contains, value.Text(`50%_a\b`)))

	where, params, err := NewCompiler(DuckDB).CompileWhere(spec)
	require.NoError(t, err)

	assert.Equal(t, `CAST(code AS VARCHAR) ILIKE ? ESCAPE '\'`, where)
	assert.Equal(t, []any{`%50\%\_a\\b%`}, params)
}

func TestCompile_Count(t *testing.T) {
	spec := parse(t, filter.Config{}, "age=22&sort=name&page=2")

	sql, params, err := NewCompiler(SQLite).CompileCount("customers", spec)
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM customers WHERE age = ?", sql)
	assert.Equal(t, []any{int64(22)}, params)
}

func TestCompile_EmptySpec(t *testing.T) {
	sql, params, err := NewCompiler(DuckDB).Compile("customers", nil, &predicate.Spec{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM customers", sql)
	assert.Nil(t, params)
}

func TestCompile_OffsetWithoutLimit(t *testing.T) {
	offset := 5
	spec := &predicate.Spec{Offset: &offset}

	sqliteSQL, _, err := NewCompiler(SQLite).Compile("t", nil, spec)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t LIMIT -1 OFFSET 5", sqliteSQL)

	duckSQL, _, err := NewCompiler(DuckDB).Compile("t", nil, spec)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t OFFSET 5", duckSQL)
}

func TestCompile_TiebreakNotRepeated(t *testing.T) {
	spec := &predicate.Spec{Order: []predicate.Order{{Field: "id", Direction: predicate.Desc}}}

	sql, _, err := (&Compiler{Dialect: SQLite, Tiebreak: "id"}).Compile("t", nil, spec)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t ORDER BY id DESC", sql)
}

func TestCompile_Errors(t *testing.T) {
	c := NewCompiler(SQLite)

	_, _, err := c.Compile("t", nil, nil)
	assert.Error(t, err)

	_, _, err = c.Compile("", nil, &predicate.Spec{})
	assert.Error(t, err)

	bad := &predicate.Spec{}
	bad.Predicates.Set("a", predicate.Predicate{Kind: "regex"})
	_, _, err = c.Compile("t", nil, bad)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, _, err = c.Compile("t", nil, &predicate.Spec{Order: []predicate.Order{{Field: "a", Direction: "UP"}}})
	assert.ErrorIs(t, err, ErrUnsupported)

	arity := &predicate.Spec{}
	arity.Predicates.Set("a", predicate.Predicate{Kind: predicate.Between, Values: []value.Value{value.Int(1)}})
	_, _, err = c.Compile("t", nil, arity)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseDialect(t *testing.T) {
	for name, want := range map[string]Dialect{"sqlite": SQLite, "sqlite3": SQLite, "": SQLite, "DuckDB": DuckDB} {
		got, err := ParseDialect(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDialect("postgres")
	assert.Error(t, err)
}

func TestQuoteIdentifier(t *testing.T) {
	tests := map[string]string{
		"age":         "age",
		"lastLogin":   "lastLogin",
		"_x1":         "_x1",
		"order":       `"order"`,
		"first name":  `"first name"`,
		`a"b`:         `"a""b"`,
		"1col":        `"1col"`,
		"main.people": "main.people",
		"main.order":  `main."order"`,
		"":            `""`,
	}
	for in, want := range tests {
		assert.Equal(t, want, QuoteIdentifier(in), in)
	}
}
