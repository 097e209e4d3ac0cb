package filter

import (
	"strings"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// separator splits between bounds and set elements.
const separator = "|"

// handleBasic strips the token and coerces the remainder. String-match kinds
// keep the remainder as raw text; wildcard placement is left to adapters.
func (p *Parser) handleBasic(op operator, field, raw string) predicate.Predicate {
	rest := strings.TrimPrefix(raw, op.token)

	var v value.Value
	if op.kind.IsStringMatch() {
		v = value.Text(rest)
	} else {
		v = p.coerce(field, rest)
	}
	return p.mark(field, predicate.Compare(op.kind, v))
}

// handleBetween splits "|min|max" into two coerced bounds. A missing bound
// coerces from "" and becomes Null; parts past the second are ignored.
func (p *Parser) handleBetween(op operator, field, raw string) predicate.Predicate {
	parts := strings.Split(strings.TrimPrefix(raw, op.token), separator)

	var lo, hi string
	lo = parts[0]
	if len(parts) > 1 {
		hi = parts[1]
	}
	return p.mark(field, predicate.Range(p.coerce(field, lo), p.coerce(field, hi)))
}

// handleSet splits the remainder into zero or more coerced elements.
// An empty remainder is an empty set, not a set holding one Null.
func (p *Parser) handleSet(op operator, field, raw string) predicate.Predicate {
	rest := strings.TrimPrefix(raw, op.token)
	if rest == "" {
		return p.mark(field, predicate.Set(op.kind))
	}

	parts := strings.Split(rest, separator)
	values := make([]value.Value, len(parts))
	for i, part := range parts {
		values[i] = p.coerce(field, part)
	}
	return p.mark(field, predicate.Set(op.kind, values...))
}

// coerce converts raw, applying date-only normalization for date fields.
func (p *Parser) coerce(field string, raw any) value.Value {
	v := value.CoerceIn(raw, p.cfg.Location)
	if p.dateOnly(field) {
		v = value.Normalize(v, p.cfg.Location)
	}
	return v
}

// mark flags pred for date-truncated comparison when field requires it.
func (p *Parser) mark(field string, pred predicate.Predicate) predicate.Predicate {
	if p.dateOnly(field) {
		return pred.Truncated()
	}
	return pred
}

func (p *Parser) dateOnly(field string) bool {
	if !p.cfg.DateOnlyCompare {
		return false
	}
	_, ok := p.dateFields[field]
	return ok
}
