package rdf

// Graph is a set of triples that remembers insertion order, so that
// serializations of the same statements are byte-stable.
type Graph struct {
	triples []Triple
	set     map[Triple]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{set: make(map[Triple]struct{})}
}

// Add inserts a triple. It reports false when the triple was already present.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.set[t]; ok {
		return false
	}
	g.set[t] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// AddAll inserts every triple of another graph.
func (g *Graph) AddAll(other *Graph) {
	for _, t := range other.triples {
		g.Add(t)
	}
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.set[t]
	return ok
}

// Remove deletes every triple with the given subject and predicate and
// returns how many were removed.
func (g *Graph) Remove(s Term, p IRI) int {
	kept := g.triples[:0]
	removed := 0
	for _, t := range g.triples {
		if t.Subject == s && t.Predicate == p {
			delete(g.set, t)
			removed++
			continue
		}
		kept = append(kept, t)
	}
	g.triples = kept
	return removed
}

// Match returns the triples matching the pattern in insertion order.
// A nil subject or object, or an empty predicate, matches anything.
func (g *Graph) Match(s Term, p IRI, o Term) []Triple {
	var out []Triple
	for _, t := range g.triples {
		if s != nil && t.Subject != s {
			continue
		}
		if p != "" && t.Predicate != p {
			continue
		}
		if o != nil && t.Object != o {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Subjects returns the distinct subjects in first-seen order.
func (g *Graph) Subjects() []Term {
	seen := make(map[Term]bool)
	var out []Term
	for _, t := range g.triples {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

// Triples returns the triples in insertion order. The slice must not be
// modified.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Filter returns a new graph holding the triples for which keep is true.
func (g *Graph) Filter(keep func(Triple) bool) *Graph {
	out := NewGraph()
	for _, t := range g.triples {
		if keep(t) {
			out.Add(t)
		}
	}
	return out
}

// Equal reports whether both graphs hold the same statement set,
// regardless of insertion order. Blank node labels are compared as-is.
func (g *Graph) Equal(other *Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	for t := range g.set {
		if _, ok := other.set[t]; !ok {
			return false
		}
	}
	return true
}
