package graph

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// maxListLength bounds rdf:rest walks so a malformed list cannot run away.
const maxListLength = 10000

// Graph is an in-memory RDF graph indexed by subject. Subjects, predicates
// and objects are kept in insertion order so every query is deterministic.
type Graph struct {
	nodes    map[string]*node
	subjects []string
	triples  int
}

type node struct {
	term       Term
	predicates []string
	objects    map[string][]Term
	seen       map[string]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// Add inserts a triple. Duplicate triples are ignored.
func (g *Graph) Add(subject Term, predicate string, object Term) {
	sk := subject.key()
	n, ok := g.nodes[sk]
	if !ok {
		n = &node{
			term:    subject,
			objects: make(map[string][]Term),
			seen:    make(map[string]bool),
		}
		g.nodes[sk] = n
		g.subjects = append(g.subjects, sk)
	}

	tk := predicate + " " + object.key()
	if n.seen[tk] {
		return
	}
	n.seen[tk] = true

	if _, ok := n.objects[predicate]; !ok {
		n.predicates = append(n.predicates, predicate)
	}
	n.objects[predicate] = append(n.objects[predicate], object)
	g.triples++
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return g.triples
}

// Subjects returns every subject in insertion order.
func (g *Graph) Subjects() []Term {
	out := make([]Term, len(g.subjects))
	for i, k := range g.subjects {
		out[i] = g.nodes[k].term
	}
	return out
}

// Objects returns the values of predicate on subject.
func (g *Graph) Objects(subject Term, predicate string) []Term {
	n, ok := g.nodes[subject.key()]
	if !ok {
		return nil
	}
	return n.objects[predicate]
}

// Has reports whether subject has at least one value for predicate.
func (g *Graph) Has(subject Term, predicate string) bool {
	return len(g.Objects(subject, predicate)) > 0
}

// HasValue reports whether subject has value for predicate.
func (g *Graph) HasValue(subject Term, predicate string, value Term) bool {
	for _, o := range g.Objects(subject, predicate) {
		if o == value {
			return true
		}
	}
	return false
}

// Predicates returns the predicates used on subject in insertion order.
func (g *Graph) Predicates(subject Term) []string {
	n, ok := g.nodes[subject.key()]
	if !ok {
		return nil
	}
	out := make([]string, len(n.predicates))
	copy(out, n.predicates)
	return out
}

// Triples returns all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, g.triples)
	for _, k := range g.subjects {
		n := g.nodes[k]
		for _, p := range n.predicates {
			for _, o := range n.objects[p] {
				out = append(out, Triple{Subject: n.term, Predicate: p, Object: o})
			}
		}
	}
	return out
}

// InstancesOf returns subjects typed with class via rdf:type.
func (g *Graph) InstancesOf(class string) []Term {
	return g.SubjectsWithValue(vocab.RDFType, NewIRI(class))
}

// SubjectsWithValue returns subjects having value for predicate.
func (g *Graph) SubjectsWithValue(predicate string, value Term) []Term {
	var out []Term
	for _, k := range g.subjects {
		n := g.nodes[k]
		for _, o := range n.objects[predicate] {
			if o == value {
				out = append(out, n.term)
				break
			}
		}
	}
	return out
}

// SubjectsOf returns subjects having any value for predicate.
func (g *Graph) SubjectsOf(predicate string) []Term {
	var out []Term
	for _, k := range g.subjects {
		if len(g.nodes[k].objects[predicate]) > 0 {
			out = append(out, g.nodes[k].term)
		}
	}
	return out
}

// ObjectsOf returns the distinct values of predicate across all subjects.
func (g *Graph) ObjectsOf(predicate string) []Term {
	var out []Term
	seen := make(map[string]bool)
	for _, k := range g.subjects {
		for _, o := range g.nodes[k].objects[predicate] {
			if seen[o.key()] {
				continue
			}
			seen[o.key()] = true
			out = append(out, o)
		}
	}
	return out
}

// IsList reports whether t is an RDF collection: rdf:nil or a node with rdf:first.
func (g *Graph) IsList(t Term) bool {
	if t.IsIRI() && t.Value == vocab.RDFNil {
		return true
	}
	return !t.IsLiteral() && g.Has(t, vocab.RDFFirst)
}

// ListMembers walks an RDF collection starting at head and returns its
// members in order.
func (g *Graph) ListMembers(head Term) ([]Term, error) {
	var members []Term
	visited := make(map[string]bool)
	cur := head

	for {
		if cur.IsIRI() && cur.Value == vocab.RDFNil {
			return members, nil
		}
		if visited[cur.key()] {
			return members, fmt.Errorf("list at %s contains a cycle", head)
		}
		visited[cur.key()] = true
		if len(members) >= maxListLength {
			return members, fmt.Errorf("list at %s exceeds %d members", head, maxListLength)
		}

		first := g.Objects(cur, vocab.RDFFirst)
		if len(first) != 1 {
			return members, fmt.Errorf("list node %s has %d rdf:first values", cur, len(first))
		}
		members = append(members, first[0])

		rest := g.Objects(cur, vocab.RDFRest)
		if len(rest) != 1 {
			return members, fmt.Errorf("list node %s has %d rdf:rest values", cur, len(rest))
		}
		cur = rest[0]
	}
}

// Members expands the values of predicate on subject: collection values are
// walked, any other value counts as a single member.
func (g *Graph) Members(subject Term, predicate string) ([]Term, error) {
	var out []Term
	for _, o := range g.Objects(subject, predicate) {
		if !g.IsList(o) {
			out = append(out, o)
			continue
		}
		items, err := g.ListMembers(o)
		out = append(out, items...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}
