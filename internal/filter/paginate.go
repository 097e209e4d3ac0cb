package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pagination is a resolved page number and page size.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the zero-based row offset of the page, saturating at
// math.MaxInt.
func (pg Pagination) Offset() int {
	if pg.Page <= 1 || pg.Limit <= 0 {
		return 0
	}
	if pg.Page-1 > math.MaxInt/pg.Limit {
		return math.MaxInt
	}
	return (pg.Page - 1) * pg.Limit
}

// ParsePagination resolves raw page and limit values.
//
// Page falls back to 1 when missing, unparsable or below 1. Limit falls back
// to the default page size when missing, unparsable, below 1 or above the
// maximum page size; an oversized limit is not clamped to the maximum.
func (p *Parser) ParsePagination(page, limit any) Pagination {
	pg := Pagination{Page: 1, Limit: p.cfg.DefaultPageSize}

	if n, ok := leadingInt(page); ok && n >= 1 {
		pg.Page = n
	}
	if n, ok := leadingInt(limit); ok && n >= 1 {
		if !p.cfg.HasMaxPageSize() || n <= p.cfg.MaxPageSize {
			pg.Limit = n
		}
	}
	return pg
}

// supplied reports whether a reserved key carries a non-empty value.
func supplied(raw any) bool {
	if raw == nil {
		return false
	}
	s, ok := asString(raw)
	if !ok {
		s = fmt.Sprint(raw)
	}
	return s != ""
}

// leadingInt parses an optional sign and the leading decimal digits of raw,
// ignoring surrounding whitespace and anything after the digits. "12abc"
// is 12; "abc" and values beyond int range are not integers.
func leadingInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int64:
		if v > math.MaxInt || v < math.MinInt {
			return 0, false
		}
		return int(v), true
	}

	s, ok := asString(raw)
	if !ok {
		s = fmt.Sprint(raw)
	}
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
