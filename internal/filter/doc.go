// Package filter translates flat query parameters into a predicate.Spec.
//
// Each filter key yields one predicate whose shape is chosen from an operator
// token embedded at the start of the value:
//
//	age=22            equals
//	age=!22           not equals
//	age=>=30          greater or equal (also >, <=, <)
//	age=|20|30        between 20 and 30
//	name=^s           starts with "s" (also $ ends with, ~ contains)
//	id=$in1|2|3       in set (also $nin)
//	lastLogin=        is null (also "null")
//	lastLogin=!       is not null (also "!null")
//
// The reserved keys page, limit and sort never produce predicates:
//
//	sort=age|!name    age ascending, then name descending
//	page=2&limit=10   offset 10, limit 10
//
// RESOLUTION ORDER (per key, in query order):
//
//  1. alias substitution
//  2. blacklist: the key is skipped
//  3. custom handler: its predicates are merged and nothing else runs
//  4. null and not-null shortcuts
//  5. operator dispatch against the configured token order
//  6. plain equality
//
// Tokens are matched by prefix in configuration order. New rejects an order
// in which an earlier token is a prefix of a later one (">" before ">="),
// since the later token could never match.
//
// A Parser is immutable after New and safe for concurrent use. Parse never
// fails: malformed values degrade to defined results (see predicate.Validate).
package filter
