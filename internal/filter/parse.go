package filter

import (
	"net/url"
	"strings"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// Reserved query keys.
const (
	KeyPage  = "page"
	KeyLimit = "limit"
	KeySort  = "sort"
)

// IsReserved reports whether key is handled by sort or pagination.
func IsReserved(key string) bool {
	return key == KeyPage || key == KeyLimit || key == KeySort
}

// Parser translates queries under one immutable Config.
type Parser struct {
	cfg        Config
	ops        []operator
	blacklist  map[string]struct{}
	dateFields map[string]struct{}
}

// New validates cfg, applies defaults and returns a Parser.
// Errors wrap ErrInvalidConfig.
func New(cfg Config) (*Parser, error) {
	resolved := cfg.withDefaults()
	if err := resolved.validate(); err != nil {
		return nil, err
	}
	ops, err := buildOperators(resolved.Operators)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		cfg:        resolved,
		ops:        ops,
		blacklist:  make(map[string]struct{}, len(resolved.Blacklist)),
		dateFields: make(map[string]struct{}, len(resolved.DateFields)),
	}
	for _, f := range resolved.Blacklist {
		p.blacklist[f] = struct{}{}
	}
	for _, f := range resolved.DateFields {
		p.dateFields[f] = struct{}{}
	}
	return p, nil
}

// MustNew is New that panics on a configuration error.
func MustNew(cfg Config) *Parser {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns a copy of the resolved configuration.
func (p *Parser) Config() Config {
	return p.cfg.withDefaults()
}

// Parse translates q into a Spec.
func (p *Parser) Parse(q Query) *predicate.Spec {
	spec := &predicate.Spec{}

	for _, param := range q {
		if IsReserved(param.Key) {
			continue
		}
		p.resolve(&spec.Predicates, param.Key, param.Value)
	}

	if sort, ok := q.Get(KeySort); ok && supplied(sort) {
		spec.Order = p.ParseSort(sort)
	}

	page, hasPage := q.Get(KeyPage)
	limit, hasLimit := q.Get(KeyLimit)
	if (hasPage && supplied(page)) || (hasLimit && supplied(limit)) {
		pg := p.ParsePagination(page, limit)
		offset, size := pg.Offset(), pg.Limit
		spec.Offset = &offset
		spec.Limit = &size
	}

	return spec
}

// ParseMap translates a map; keys are visited in sorted order.
func (p *Parser) ParseMap(m map[string]any) *predicate.Spec {
	return p.Parse(FromMap(m))
}

// ParseValues translates decoded URL values using the first value per key.
func (p *Parser) ParseValues(v url.Values) *predicate.Spec {
	return p.Parse(FromValues(v))
}

// ParseString decodes a raw query string and translates it.
func (p *Parser) ParseString(raw string) (*predicate.Spec, error) {
	q, err := ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	return p.Parse(q), nil
}

// resolve derives the predicate(s) for one filter key.
func (p *Parser) resolve(preds *predicate.Predicates, key string, raw any) {
	field := key
	if alias, ok := p.cfg.Aliases[key]; ok {
		field = alias
	}

	if _, banned := p.blacklist[field]; banned {
		return
	}

	if handler, ok := p.cfg.CustomHandlers[field]; ok {
		preds.Merge(handler(field, raw, p.Config()))
		return
	}

	if isNullValue(raw) {
		preds.Set(field, predicate.Null())
		return
	}

	s, isString := asString(raw)
	if isString && (s == "!" || strings.EqualFold(s, "!null")) {
		preds.Set(field, predicate.NotNull())
		return
	}

	if isString {
		if op, ok := findOperator(p.ops, s); ok {
			preds.Set(field, op.handle(p, op, field, s))
			return
		}
	}

	if isString {
		raw = s
	}
	preds.Set(field, p.mark(field, predicate.Compare(predicate.Eq, p.coerce(field, raw))))
}

// isNullValue reports whether raw selects the is-null shortcut.
// Zero and false are ordinary values.
func isNullValue(raw any) bool {
	switch raw.(type) {
	case nil, value.Null:
		return true
	}
	s, ok := asString(raw)
	return ok && (s == "" || strings.EqualFold(s, "null"))
}

func asString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case value.Text:
		return string(v), true
	}
	return "", false
}
