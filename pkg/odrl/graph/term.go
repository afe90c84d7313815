package graph

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// Kind is the RDF node kind of a term.
type Kind int

const (
	// KindIRI is a named resource.
	KindIRI Kind = iota
	// KindBlank is a blank node.
	KindBlank
	// KindLiteral is a literal value.
	KindLiteral
)

// String returns the SHACL node kind name.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "IRI"
	case KindBlank:
		return "BlankNode"
	case KindLiteral:
		return "Literal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Term is a node of the graph.
type Term struct {
	Kind     Kind
	Value    string // IRI, blank node label (without "_:") or lexical form
	Datatype string // literal datatype IRI
	Lang     string // literal language tag
}

// NewIRI returns an IRI term.
func NewIRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// NewBlank returns a blank node term.
func NewBlank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// NewLiteral returns a literal term with an optional datatype.
func NewLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsIRI reports whether the term is a named resource.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsZero reports whether the term is unset.
func (t Term) IsZero() bool { return t == Term{} }

// String renders the term the way it is reported in validation issues:
// IRIs as-is, blank nodes as "_:label", literals by lexical form.
func (t Term) String() string {
	if t.Kind == KindBlank {
		return "_:" + t.Value
	}
	return t.Value
}

// Turtle renders the term in Turtle syntax, compacting known namespaces.
func (t Term) Turtle() string {
	switch t.Kind {
	case KindIRI:
		if c := vocab.Compact(t.Value); c != t.Value {
			return c
		}
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		s := fmt.Sprintf("%q", t.Value)
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" && t.Datatype != vocab.XSD+"string" {
			return s + "^^" + NewIRI(t.Datatype).Turtle()
		}
		return s
	}
}

// key identifies a term inside a graph index.
func (t Term) key() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		return fmt.Sprintf("%q^^%s@%s", t.Value, t.Datatype, t.Lang)
	}
}

// Triple is a subject-predicate-object statement. Predicates are always IRIs.
type Triple struct {
	Subject   Term
	Predicate string
	Object    Term
}
