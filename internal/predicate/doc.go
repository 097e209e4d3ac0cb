// Package predicate defines the backend-agnostic filter specification
// produced from query parameters.
//
// A Spec is the contract between the query-string translator and any
// persistence adapter:
//
//	[query params] → [Spec] → [SQL adapter]
//	                        → [in-memory adapter]
//	                        → [remote adapter via wire codec]
//
// SPEC SHAPE:
//
//   - Predicates: one Predicate per field, in first-seen order
//   - Order: ordered (field, direction) pairs
//   - Offset, Limit: optional pagination bounds
//
// Every Predicate carries a Kind from a closed set. Adapters must handle
// all of them; Kind.Valid reports membership.
//
// DATE-ONLY PREDICATES:
//
// A Predicate with DateOnly set must be compared against the calendar-date
// truncation of the stored field (e.g. date(col) in SQLite), not the raw
// timestamp. Its values are already "YYYY-MM-DD" text.
//
// DEGENERATE INPUT:
//
// Translation never fails. A between with a missing bound carries a Null
// bound and an empty set list is kept as-is. Validate reports these cases as
// warnings so callers can decide whether to reject them.
package predicate
