package predicate

import "iter"

// Entry is one field's predicate inside Predicates.
type Entry struct {
	Field     string
	Predicate Predicate
}

// Predicates is an insertion-ordered mapping from field name to predicate.
//
// Overwrite semantics: Set on a field that is already present replaces its
// predicate in place, so the field keeps the position of its first write.
//
// The zero value is an empty mapping ready to use.
type Predicates struct {
	entries []Entry
	index   map[string]int
}

// Set stores pred for field.
func (p *Predicates) Set(field string, pred Predicate) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[field]; ok {
		p.entries[i].Predicate = pred
		return
	}
	p.index[field] = len(p.entries)
	p.entries = append(p.entries, Entry{Field: field, Predicate: pred})
}

// Get returns the predicate for field.
func (p *Predicates) Get(field string) (Predicate, bool) {
	if p == nil || p.index == nil {
		return Predicate{}, false
	}
	i, ok := p.index[field]
	if !ok {
		return Predicate{}, false
	}
	return p.entries[i].Predicate, true
}

// Has reports whether field has a predicate.
func (p *Predicates) Has(field string) bool {
	_, ok := p.Get(field)
	return ok
}

// Len returns the number of fields.
func (p *Predicates) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Fields returns field names in order.
func (p *Predicates) Fields() []string {
	if p == nil {
		return nil
	}
	fields := make([]string, len(p.entries))
	for i, e := range p.entries {
		fields[i] = e.Field
	}
	return fields
}

// Entries returns a copy of the ordered entries.
func (p *Predicates) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// All iterates fields and predicates in order.
func (p *Predicates) All() iter.Seq2[string, Predicate] {
	return func(yield func(string, Predicate) bool) {
		if p == nil {
			return
		}
		for _, e := range p.entries {
			if !yield(e.Field, e.Predicate) {
				return
			}
		}
	}
}

// Merge copies every entry of other into p using Set semantics.
// A nil other is a no-op.
func (p *Predicates) Merge(other *Predicates) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		p.Set(e.Field, e.Predicate)
	}
}
