package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/qsfilter/internal/harness"
	"github.com/roach88/qsfilter/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Driver   string
	Table    string
	Columns  []string
	Demo     bool
	Count    bool
	Check    bool

	// IDGenerator overrides the query id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// QueryResult is the output of the query command.
type QueryResult struct {
	Columns []string    `json:"columns"`
	Rows    []store.Row `json:"rows"`
	Total   int64       `json:"total"`
}

func (r QueryResult) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		cells := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			cells[i] = formatCell(row[col])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Fprintf(&b, "(%d of %d row(s))", len(r.Rows), r.Total)
	return b.String()
}

// CountResult is the output of the query command with --count.
type CountResult struct {
	Count int64 `json:"count"`
}

func (r CountResult) String() string {
	return fmt.Sprintf("%d", r.Count)
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return newQueryCommand(&QueryOptions{RootOptions: rootOpts})
}

func newQueryCommand(opts *QueryOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <query-string>",
		Short: "Run a query string against a SQLite or DuckDB table",
		Long: `Translate a query string, compile it for the database driver and
print the selected rows.

--demo creates and fills a "customers" table first, so the command works
against an empty or in-memory database. --check evaluates the same spec
in memory over the whole table and fails when the results differ.

Example:
  qsfilter query --demo 'age=|20|30&sort=!age'
  qsfilter query --db ./app.db --table users --count 'email=$@example.com'
  qsfilter query --driver duckdb --demo --check 'lastLogin=!null'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "database path (default in-memory)")
	cmd.Flags().StringVar(&opts.Driver, "driver", string(store.SQLite), "database driver (sqlite3|duckdb)")
	cmd.Flags().StringVar(&opts.Table, "table", "customers", "table to query")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to select (default all)")
	cmd.Flags().BoolVar(&opts.Demo, "demo", false, "create and seed the demo customers table")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print the number of matching rows only")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "compare against in-memory evaluation")

	return cmd
}

func runQuery(opts *QueryOptions, raw string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := loadParser(opts.RootOptions, f)
	if err != nil {
		return err
	}
	spec, err := parseQuery(p, raw, f)
	if err != nil {
		return err
	}

	driver, err := store.ParseDriver(opts.Driver)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "invalid driver", err)
	}

	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	st, err := store.Open(driver, opts.Database, storeOpts...)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	if opts.Demo {
		f.VerboseLog("Seeding demo customers table")
		if err := st.SeedCustomers(ctx); err != nil {
			return f.fail(ExitCommandError, ErrCodeStore, "failed to seed demo table", err)
		}
	}

	total, err := st.Count(ctx, opts.Table, spec)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "count failed", err)
	}
	if opts.Count {
		return f.Success(CountResult{Count: total})
	}

	rows, err := st.Find(ctx, opts.Table, opts.Columns, spec)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "query failed", err)
	}

	if opts.Check {
		if err := harness.CheckMemory(ctx, st, opts.Table, opts.Columns, spec, rows); err != nil {
			return f.fail(ExitFailure, ErrCodeCheck, "in-memory evaluation disagrees with SQL", err)
		}
		f.VerboseLog("In-memory evaluation matches %d row(s)", len(rows))
	}

	return f.Success(QueryResult{Columns: resultColumns(opts.Columns, rows), Rows: rows, Total: total})
}

// resultColumns returns the selected columns, or the sorted column names
// of the first row when every column was selected.
func resultColumns(columns []string, rows []store.Row) []string {
	if len(columns) > 0 {
		return columns
	}
	if len(rows) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(rows[0]))
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}
