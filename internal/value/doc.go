// Package value provides the closed value type produced by query-string
// coercion.
//
// Raw query parameters arrive as untyped strings. Coerce turns each one into
// its best-guess typed form by trying a fixed, ordered set of total rules:
//
//	""  / "null"        → Null
//	"true" / "false"    → Bool   (case-insensitive)
//	"42" / "10000.99"   → Number
//	"2022-07-06"        → Date
//	anything else       → Text   (unmodified)
//
// SEALED INTERFACE:
//
// Value is sealed with a marker method. Only Null, Bool, Number, Date and Text
// implement it, so consumers can switch exhaustively:
//
//	switch v := val.(type) {
//	case value.Null:
//	case value.Bool:
//	case value.Number:
//	case value.Date:
//	case value.Text:
//	}
//
// DATE-ONLY NORMALIZATION:
//
// Backends that store timestamps but compare by calendar day receive dates
// as "YYYY-MM-DD" text via DateOnly/Normalize. Non-date values pass through
// Normalize unchanged.
package value
