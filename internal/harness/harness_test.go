package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsfilter/internal/filter"
	"github.com/roach88/qsfilter/internal/store"
)

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(context.Background(), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
			assert.Len(t, result.Cases, len(scenario.Cases))
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "golden_customers.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

func TestRun_ReportsMismatches(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_expectations
dataset: customers
table: customers
drivers: [sqlite3]
cases:
  - query: "age=22&sort=name"
    expect:
      predicates:
        age: { kind: gt, value: 21 }
      absent: [age]
      order: [name DESC]
      warnings: 2
      count: 3
      rows:
        - { name: Leesa Tex }
        - { name: Gabby Fitz }
  - query: "a=%zz"
    expect:
      count: 0
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	require.False(t, result.Pass)

	all := strings.Join(result.Errors, "\n")
	for _, want := range []string{
		`predicate "age" kind = eq, want gt`,
		`predicate "age" value = 22, want 21`,
		`predicate "age" present, want absent`,
		`order = [name ASC], want [name DESC]`,
		`warnings = [], want 2`,
		`count = 2, want 3`,
		`rows[0].name = Gabby Fitz, want Leesa Tex`,
		`cases[1] "a=%zz"`,
	} {
		assert.Contains(t, all, want)
	}
}

func TestRun_SetupErrors(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_setup
table: t
drivers: [sqlite3]
setup:
  - CREATE TABLE
cases:
  - query: "a=1"
`))
	require.NoError(t, err)

	_, err = Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup[0]")
}

func TestRun_InvalidConfig(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_config
table: t
config:
  timezone: Mars/Olympus
cases:
  - query: "a=1"
`))
	require.NoError(t, err)

	_, err = Run(context.Background(), scenario)
	require.Error(t, err)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "table: t\ncases: [{query: a=1}]", "name is required"},
		{"missing table", "name: x\ncases: [{query: a=1}]", "table is required"},
		{"no cases", "name: x\ntable: t", "cases list is required"},
		{"unknown dataset", "name: x\ntable: t\ndataset: orders\ncases: [{query: a=1}]", "unknown dataset"},
		{"unknown driver", "name: x\ntable: t\ndrivers: [oracle]\ncases: [{query: a=1}]", "oracle"},
		{"unknown kind", "name: x\ntable: t\ncases: [{query: a=1, expect: {predicates: {a: {kind: like}}}}]", "unknown kind"},
		{"bad order key", "name: x\ntable: t\ncases: [{query: a=1, expect: {order: [a]}}]", "order key"},
		{"unknown field", "name: x\ntable: t\nquerys: []\ncases: [{query: a=1}]", "querys"},
		{"unknown config key", "name: x\ntable: t\nconfig: {page_size: 5}\ncases: [{query: a=1}]", "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_DefaultDrivers(t *testing.T) {
	scenario, err := ParseScenario([]byte("name: x\ntable: t\ncases: [{query: a=1}]"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sqlite3", "duckdb"}, scenario.Drivers)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckMemory(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(store.SQLite, "")
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.SeedCustomers(ctx))

	spec, err := filter.MustNew(filter.Config{}).ParseString("age=|20|30&sort=!age")
	require.NoError(t, err)

	rows, err := st.Find(ctx, "customers", []string{"name"}, spec)
	require.NoError(t, err)
	require.NoError(t, CheckMemory(ctx, st, "customers", []string{"name"}, spec, rows))

	rows[0], rows[1] = rows[1], rows[0]
	err = CheckMemory(ctx, st, "customers", []string{"name"}, spec, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 differs")

	err = CheckMemory(ctx, st, "customers", []string{"name"}, spec, rows[:1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql returned 1 row(s), memory 4")
}

func TestValuesEqual(t *testing.T) {
	ts := time.Date(2022, 7, 6, 9, 12, 44, 0, time.UTC)

	tests := []struct {
		name             string
		actual, expected any
		want             bool
	}{
		{"nils", nil, nil, true},
		{"nil vs value", nil, 1, false},
		{"int64 vs int", int64(22), 22, true},
		{"float vs int", float64(50), 50, true},
		{"float mismatch", 79.01, 79.1, false},
		{"strings", "a", "a", true},
		{"string vs number", "22", 22, false},
		{"bools", false, false, true},
		{"time vs string", ts, "2022-07-06 09:12:44", true},
		{"string vs time", "2022-07-06T09:12:44Z", ts, true},
		{"time vs other day", ts, "2022-07-07", false},
		{"time vs text", ts, "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.actual, tt.expected))
		})
	}
}
