package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qsfilter/internal/querysql"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	Table    string
	Dialect  string
	Columns  []string
	Tiebreak string
	Count    bool
}

// SQLResult is the output of the sql command.
type SQLResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

func (r SQLResult) String() string {
	params, _ := json.Marshal(r.Params)
	return fmt.Sprintf("%s\nparams: %s", r.SQL, params)
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql <query-string>",
		Short: "Compile a query string to parameterized SQL",
		Long: `Compile a query string to a parameterized SELECT for SQLite or DuckDB.

Values are always bound as parameters. Only the SQL text and its
parameter list are printed; nothing is executed.

Example:
  qsfilter sql --table customers 'age=>=21&name=~ab&sort=!age'
  qsfilter sql --table events --dialect duckdb --columns id,name 'createdAt=2024-01-01'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table to select from (required)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", string(querysql.SQLite), "SQL dialect (sqlite|duckdb)")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to select (default *)")
	cmd.Flags().StringVar(&opts.Tiebreak, "tiebreak", "", "column appended to ORDER BY for stable paging")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "compile a COUNT(*) instead of a SELECT")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runSQL(opts *SQLOptions, raw string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	dialect, err := querysql.ParseDialect(opts.Dialect)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "invalid dialect", err)
	}
	p, err := loadParser(opts.RootOptions, f)
	if err != nil {
		return err
	}
	spec, err := parseQuery(p, raw, f)
	if err != nil {
		return err
	}

	c := querysql.NewCompiler(dialect)
	c.Tiebreak = opts.Tiebreak

	var (
		query  string
		params []any
	)
	if opts.Count {
		query, params, err = c.CompileCount(opts.Table, spec)
	} else {
		query, params, err = c.Compile(opts.Table, opts.Columns, spec)
	}
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeCompile, "failed to compile SQL", err)
	}
	if params == nil {
		params = []any{}
	}
	return f.Success(SQLResult{SQL: query, Params: params})
}
