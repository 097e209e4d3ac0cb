// Package store executes filter specs against SQLite or DuckDB.
//
// A Store wraps database/sql with the driver-matched SQL dialect:
//
//	st, err := store.Open(store.SQLite, "customers.db")
//	rows, err := st.Find(ctx, "customers", nil, spec)
//
// # Drivers
//
//   - SQLite via github.com/mattn/go-sqlite3 (driver name "sqlite3")
//   - DuckDB via github.com/duckdb/duckdb-go/v2 (driver name "duckdb")
//
// An empty DSN (or ":memory:" for SQLite) opens an in-memory database.
//
// # Deterministic Results
//
// Every Find appends a tiebreak column (default "id") to the ORDER BY so
// that pages do not overlap when sort keys tie. Use WithTiebreak("") for
// tables without an id column.
//
// # SQLite Configuration
//
//   - Single connection: in-memory databases are per connection
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// # Logging
//
// Each executed statement is logged at Debug level with a UUIDv7 query_id,
// the SQL text and the parameter count. Parameter values are not logged.
package store
