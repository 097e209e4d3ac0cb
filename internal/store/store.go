package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/querysql"
)

//go:embed customers.sql
var customersSQL string

// DefaultTiebreak is the column appended to every ORDER BY.
const DefaultTiebreak = "id"

// Driver names a database/sql driver supported by Store.
type Driver string

const (
	SQLite Driver = "sqlite3"
	DuckDB Driver = "duckdb"
)

// ParseDriver resolves a driver name; "sqlite" is accepted for SQLite.
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return "", fmt.Errorf("unknown driver %q", name)
	}
}

// Dialect returns the SQL dialect matching d.
func (d Driver) Dialect() querysql.Dialect {
	if d == DuckDB {
		return querysql.DuckDB
	}
	return querysql.SQLite
}

// Row is one result row keyed by column name.
type Row map[string]any

// Store executes specs against one database.
type Store struct {
	db       *sql.DB
	driver   Driver
	compiler *querysql.Compiler
	ids      IDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUIDv7 query id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithTiebreak sets the ORDER BY tiebreak column; "" disables it.
func WithTiebreak(column string) Option {
	return func(s *Store) { s.compiler.Tiebreak = column }
}

// Open connects to dsn with driver and verifies the connection.
func Open(driver Driver, dsn string, opts ...Option) (*Store, error) {
	if driver != SQLite && driver != DuckDB {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if driver == SQLite && dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == SQLite {
		// SQLite only supports one writer, and an in-memory database
		// exists per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	s := &Store{
		db:       db,
		driver:   driver,
		compiler: &querysql.Compiler{Dialect: driver.Dialect(), Tiebreak: DefaultTiebreak},
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver the store was opened with.
func (s *Store) Driver() Driver {
	return s.driver
}

// Compiler returns the SQL compiler used by Find and Count.
func (s *Store) Compiler() *querysql.Compiler {
	return s.compiler
}

// Exec runs a statement that returns no rows.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	slog.Debug("executing statement",
		"query_id", s.ids.Generate(),
		"sql", query,
		"params", len(args))
	return s.db.ExecContext(ctx, query, args...)
}

// ExecScript runs each ";"-terminated statement of script in order.
// Statements must not contain ";" inside literals.
func (s *Store) ExecScript(ctx context.Context, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stripComments(stmt)) == "" {
			continue
		}
		if _, err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec script: %w", err)
		}
	}
	return nil
}

// SeedCustomers creates and fills the demo customers table.
func (s *Store) SeedCustomers(ctx context.Context) error {
	return s.ExecScript(ctx, customersSQL)
}

// Find returns the rows of table selected by spec. No columns selects all.
func (s *Store) Find(ctx context.Context, table string, columns []string, spec *predicate.Spec) ([]Row, error) {
	query, params, err := s.compiler.Compile(table, columns, spec)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	queryID := s.ids.Generate()
	slog.Debug("executing query",
		"query_id", queryID,
		"sql", query,
		"params", len(params))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", queryID, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", queryID, err)
	}

	slog.Debug("query complete", "query_id", queryID, "rows", len(result))
	return result, nil
}

// Count returns the number of rows of table selected by spec, ignoring
// pagination.
func (s *Store) Count(ctx context.Context, table string, spec *predicate.Spec) (int64, error) {
	query, params, err := s.compiler.CompileCount(table, spec)
	if err != nil {
		return 0, fmt.Errorf("compile: %w", err)
	}

	queryID := s.ids.Generate()
	slog.Debug("executing query",
		"query_id", queryID,
		"sql", query,
		"params", len(params))

	var n int64
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", queryID, err)
	}
	return n, nil
}

// scanRows reads every row into a Row. []byte values become strings.
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// stripComments drops "--" line comments.
func stripComments(stmt string) string {
	var b strings.Builder
	for line := range strings.Lines(stmt) {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
