package friends

import "strings"

// Relation is a symmetric predicate over user identifiers. The retrieval
// engine consults it to decide whether a candidate document's owner is a
// friend of the querying user.
type Relation interface {
	AreFriends(a, b string) bool
}

// StaticRelation is a Relation backed by a fixed, symmetric pair set loaded
// from configuration. It stands in for a real social-graph lookup.
type StaticRelation struct {
	pairs map[[2]string]struct{}
}

// NewStaticRelation builds a relation from "a:b" pair strings. Malformed or
// self-referential pairs are ignored.
func NewStaticRelation(pairs []string) *StaticRelation {
	r := &StaticRelation{pairs: make(map[[2]string]struct{}, len(pairs))}
	for _, p := range pairs {
		a, b, ok := strings.Cut(p, ":")
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
		if !ok || a == "" || b == "" || a == b {
			continue
		}
		r.pairs[orderedPair(a, b)] = struct{}{}
	}
	return r
}

// AreFriends reports whether a and b are related. The relation is symmetric
// and irreflexive.
func (r *StaticRelation) AreFriends(a, b string) bool {
	if a == b {
		return false
	}
	_, ok := r.pairs[orderedPair(a, b)]
	return ok
}

// Len returns the number of distinct friendship pairs.
func (r *StaticRelation) Len() int {
	return len(r.pairs)
}

func orderedPair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
