package filter

import (
	"fmt"
	"strings"

	"github.com/roach88/qsfilter/internal/predicate"
)

// handlerFunc builds the predicate for a value that starts with op.token.
type handlerFunc func(p *Parser, op operator, field, raw string) predicate.Predicate

// operator binds a token to its comparison kind and handler.
type operator struct {
	token  string
	kind   predicate.Kind
	handle handlerFunc
}

// grammar lists every recognized token in the default match order.
var grammar = []operator{
	{"$in", predicate.In, (*Parser).handleSet},
	{"$nin", predicate.NotIn, (*Parser).handleSet},
	{"!", predicate.Ne, (*Parser).handleBasic},
	{"|", predicate.Between, (*Parser).handleBetween},
	{"^", predicate.StartsWith, (*Parser).handleBasic},
	{"$", predicate.EndsWith, (*Parser).handleBasic},
	{"~", predicate.Contains, (*Parser).handleBasic},
	{">=", predicate.Gte, (*Parser).handleBasic},
	{">", predicate.Gt, (*Parser).handleBasic},
	{"<=", predicate.Lte, (*Parser).handleBasic},
	{"<", predicate.Lt, (*Parser).handleBasic},
}

// DefaultOperators returns every recognized token in default match order.
func DefaultOperators() []string {
	tokens := make([]string, len(grammar))
	for i, op := range grammar {
		tokens[i] = op.token
	}
	return tokens
}

// OperatorKind returns the comparison kind bound to token.
func OperatorKind(token string) (predicate.Kind, bool) {
	op, ok := lookupOperator(token)
	return op.kind, ok
}

func lookupOperator(token string) (operator, bool) {
	for _, op := range grammar {
		if op.token == token {
			return op, true
		}
	}
	return operator{}, false
}

// buildOperators resolves configured tokens into an ordered operator table.
//
// Rejected orders:
//   - a token with no grammar entry
//   - a token listed twice
//   - a token preceded by one of its own prefixes, which would always win
func buildOperators(tokens []string) ([]operator, error) {
	ops := make([]operator, 0, len(tokens))
	for _, token := range tokens {
		op, ok := lookupOperator(token)
		if !ok {
			return nil, fmt.Errorf("%w: operator %q has no handler", ErrInvalidConfig, token)
		}
		for _, earlier := range ops {
			if earlier.token == token {
				return nil, fmt.Errorf("%w: operator %q listed twice", ErrInvalidConfig, token)
			}
			if strings.HasPrefix(token, earlier.token) {
				return nil, fmt.Errorf("%w: operator %q is shadowed by earlier operator %q",
					ErrInvalidConfig, token, earlier.token)
			}
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// findOperator returns the first operator in table order that prefixes raw.
func findOperator(ops []operator, raw string) (operator, bool) {
	for _, op := range ops {
		if strings.HasPrefix(raw, op.token) {
			return op, true
		}
	}
	return operator{}, false
}
