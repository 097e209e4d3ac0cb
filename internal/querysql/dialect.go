package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/qsfilter/internal/value"
)

// Dialect selects backend-specific SQL syntax.
type Dialect string

const (
	SQLite Dialect = "sqlite"
	DuckDB Dialect = "duckdb"
)

// ParseDialect resolves a dialect name. "sqlite3" is accepted for SQLite.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return "", fmt.Errorf("unknown SQL dialect %q", name)
	}
}

// sqliteTimestamp is the text layout of SQLite TIMESTAMP values. Trailing
// fractional zeros are dropped so whole seconds render as "2006-01-02 15:04:05".
const sqliteTimestamp = "2006-01-02 15:04:05.999999999"

// param converts a Value to a driver argument. SQLite stores timestamps as
// text and compares them as text, so dates are bound in the stored UTC
// layout instead of the driver's offset-suffixed form.
func (d Dialect) param(v value.Value) any {
	if date, ok := v.(value.Date); ok && d == SQLite {
		return date.Time.UTC().Format(sqliteTimestamp)
	}
	return value.Native(v)
}

// dateOf truncates a timestamp column to its calendar date.
func (d Dialect) dateOf(col string) string {
	if d == DuckDB {
		return "CAST(" + col + " AS DATE)"
	}
	return "date(" + col + ")"
}

// textOf renders a column as text for LIKE matching. SQLite LIKE already
// accepts any column type.
func (d Dialect) textOf(col string) string {
	if d == DuckDB {
		return "CAST(" + col + " AS VARCHAR)"
	}
	return col
}

// like is the case-insensitive pattern operator. SQLite LIKE is
// case-insensitive for ASCII already.
func (d Dialect) like() string {
	if d == DuckDB {
		return "ILIKE"
	}
	return "LIKE"
}

// limitOffset renders pagination. SQLite requires LIMIT before OFFSET.
func (d Dialect) limitOffset(limit, offset *int) string {
	var b strings.Builder
	switch {
	case limit != nil:
		fmt.Fprintf(&b, " LIMIT %d", *limit)
	case offset != nil && d == SQLite:
		b.WriteString(" LIMIT -1")
	}
	if offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *offset)
	}
	return b.String()
}

// QuoteIdentifier double-quotes name when it is not a plain identifier or
// collides with a reserved word. Dotted names are quoted per part.
func QuoteIdentifier(name string) string {
	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		for i, p := range parts {
			parts[i] = quotePart(p)
		}
		return strings.Join(parts, ".")
	}
	return quotePart(name)
}

func quotePart(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	switch strings.ToUpper(name) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"TABLE", "JOIN", "ON", "AS", "IN", "IS", "LIKE", "ILIKE", "BETWEEN",
		"CASE", "WHEN", "THEN", "ELSE", "END", "ORDER", "BY", "GROUP", "HAVING",
		"LIMIT", "OFFSET", "UNION", "ALL", "DISTINCT", "DEFAULT", "CHECK",
		"UNIQUE", "ASC", "DESC", "CAST", "DATE", "TIME", "TIMESTAMP", "ESCAPE":
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
