package filter

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrInvalidQuery is returned when a raw query string cannot be decoded.
var ErrInvalidQuery = errors.New("invalid query string")

// Param is one query key and its raw value.
type Param struct {
	Key   string
	Value any
}

// Query is an ordered list of parameters. Filter keys are resolved in this
// order; if a key repeats, its later predicate replaces the earlier one in
// place.
type Query []Param

// Get returns the value of the first parameter named key.
func (q Query) Get(key string) (any, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns parameter keys in order.
func (q Query) Keys() []string {
	keys := make([]string, len(q))
	for i, p := range q {
		keys[i] = p.Key
	}
	return keys
}

// FromMap builds a Query from m with keys in sorted order.
func FromMap(m map[string]any) Query {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	q := make(Query, len(keys))
	for i, k := range keys {
		q[i] = Param{Key: k, Value: m[k]}
	}
	return q
}

// FromValues builds a Query from decoded URL values with keys in sorted
// order, keeping the first value of each key.
func FromValues(v url.Values) Query {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	q := make(Query, 0, len(keys))
	for _, k := range keys {
		var val any = ""
		if vs := v[k]; len(vs) > 0 {
			val = vs[0]
		}
		q = append(q, Param{Key: k, Value: val})
	}
	return q
}

// ParseQuery decodes a URL query string, with or without a leading "?".
// Decoding and validation follow url.ParseQuery. Keys keep the order of
// their first appearance and a repeated key keeps its first value. A key
// without "=" has the empty value.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimPrefix(raw, "?")

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	var q Query
	seen := make(map[string]struct{}, len(values))
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		k, _, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrInvalidQuery, k, err)
		}

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		q = append(q, Param{Key: key, Value: values.Get(key)})
	}
	return q, nil
}
