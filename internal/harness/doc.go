// Package harness runs conformance scenarios for the query translator.
//
// A scenario names a filter configuration, a dataset and a list of query
// strings. Each query is translated once and then executed against every
// listed database driver. The same spec is also evaluated in memory, so a
// scenario fails when the parser, the SQL adapters and the in-memory
// evaluator disagree.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: customers_date_only
//	description: "lastLogin compares by calendar day"
//	config:
//	  date_fields: [lastLogin]
//	  date_only_compare: true
//	dataset: customers
//	table: customers
//	drivers: [sqlite3, duckdb]
//	cases:
//	  - query: "lastLogin=2022-07-06"
//	    expect:
//	      predicates:
//	        lastLogin: { kind: eq, value: "2022-07-06", date_only: true }
//	      count: 3
//	      rows:
//	        - { name: Leesa Tex }
//
// config uses the same keys as a config file. dataset "customers" seeds the
// demo table; setup lists extra SQL statements run before the cases.
//
// # Expectations
//
//   - predicates: kind, value, values and date_only per field (subset match)
//   - absent: fields that must not carry a predicate
//   - order: sort keys as "field ASC|DESC"
//   - offset, limit: pagination bounds
//   - warnings: number of validation warnings
//   - count: matching rows, ignoring pagination
//   - rows: the returned page, in order; each row is a subset match
//
// Drivers default to sqlite3 and duckdb.
package harness
