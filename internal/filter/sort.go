package filter

import (
	"fmt"
	"strings"

	"github.com/roach88/qsfilter/internal/predicate"
)

// ParseSort splits raw on "|" into sort keys. A leading "!" selects
// descending order. Empty segments, including a bare "!", are dropped.
func (p *Parser) ParseSort(raw any) []predicate.Order {
	s, ok := asString(raw)
	if !ok {
		s = fmt.Sprint(raw)
	}

	var order []predicate.Order
	for _, segment := range strings.Split(s, separator) {
		dir := predicate.Asc
		if rest, desc := strings.CutPrefix(segment, "!"); desc {
			dir = predicate.Desc
			segment = rest
		}
		if segment == "" {
			continue
		}
		order = append(order, predicate.Order{Field: segment, Direction: dir})
	}
	return order
}
