package shape

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/graph"
)

// IDPrefix is prepended to every shape identifier produced by the rule modules.
const IDPrefix = "urn:odrlcheck:shape:"

// ExtensionNS holds the terms used for constraints SHACL core has no name for.
const ExtensionNS = "urn:odrlcheck:"

// TargetKind selects how a target picks its focus nodes.
type TargetKind int

const (
	// TargetClass selects instances of a class (sh:targetClass).
	TargetClass TargetKind = iota
	// TargetObjectsOf selects objects of a predicate (sh:targetObjectsOf).
	TargetObjectsOf
	// TargetSubjectsOf selects subjects of a predicate (sh:targetSubjectsOf).
	TargetSubjectsOf
	// TargetSubjectsWithValue selects subjects having a given IRI value for a predicate.
	TargetSubjectsWithValue
	// TargetListMembersOf selects the members of collections that are values of a predicate.
	TargetListMembersOf
)

// Target picks focus nodes out of a graph.
type Target struct {
	Kind  TargetKind
	IRI   string // class or predicate IRI
	Value string // only for TargetSubjectsWithValue
}

// NodeKind restricts the kind of a property value.
type NodeKind int

const (
	// NodeKindAny accepts every value.
	NodeKindAny NodeKind = iota
	// NodeKindIRI accepts named resources only.
	NodeKindIRI
	// NodeKindBlankNodeOrIRI accepts resources, rejects literals.
	NodeKindBlankNodeOrIRI
	// NodeKindLiteral accepts literals only.
	NodeKindLiteral
)

func (k NodeKind) accepts(t graph.Term) bool {
	switch k {
	case NodeKindIRI:
		return t.IsIRI()
	case NodeKindBlankNodeOrIRI:
		return t.IsIRI() || t.IsBlank()
	case NodeKindLiteral:
		return t.IsLiteral()
	default:
		return true
	}
}

func (k NodeKind) String() string {
	switch k {
	case NodeKindIRI:
		return "IRI"
	case NodeKindBlankNodeOrIRI:
		return "BlankNodeOrIRI"
	case NodeKindLiteral:
		return "Literal"
	default:
		return "Any"
	}
}

// Condition filters focus nodes. It matches a node that has at least one
// value for Path, and, when In is set, at least one of those values is an
// IRI listed in In.
type Condition struct {
	Path string
	In   []string
}

func (c Condition) matches(g *graph.Graph, focus graph.Term) bool {
	values := g.Objects(focus, c.Path)
	if len(c.In) == 0 {
		return len(values) > 0
	}
	for _, v := range values {
		if v.IsIRI() && contains(c.In, v.Value) {
			return true
		}
	}
	return false
}

// Property constrains the values of one predicate on every focus node.
// A zero field disables the corresponding check.
type Property struct {
	Path       string
	MinCount   int
	MaxCount   int
	NodeKind   NodeKind
	In         []string // allowed IRI values
	Scope      []string // when set, In only checks IRI values listed here
	MinMembers int      // minimum collection length, checked only when the property is present
	Message    string
}

// Shape is a declarative set of structural constraints over the focus nodes
// selected by its targets.
type Shape struct {
	ID       string
	Targets  []Target
	Where    []Condition // every condition must match for a node to be in focus
	Unless   []Condition // a node matching any of these is out of focus
	Severity string

	Properties []Property

	// AtLeastOneOf requires one or more of the listed predicates on each focus node.
	AtLeastOneOf []string
	// ExactlyOneOf requires exactly one of the listed predicates on each focus node.
	ExactlyOneOf []string
	// NoneOf forbids every listed predicate on each focus node.
	NoneOf []string
	// Message is used for node-level violations and as the fallback for properties.
	Message string
}

// Validate checks that the shape is usable by Evaluate.
func (s *Shape) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("shape has no id")
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("shape %s has no targets", s.ID)
	}
	for i, t := range s.Targets {
		if t.IRI == "" {
			return fmt.Errorf("shape %s: target %d has no iri", s.ID, i)
		}
		if t.Kind == TargetSubjectsWithValue && t.Value == "" {
			return fmt.Errorf("shape %s: target %d has no value", s.ID, i)
		}
	}
	for _, p := range s.Properties {
		if p.Path == "" {
			return fmt.Errorf("shape %s: property without path", s.ID)
		}
		if p.MaxCount > 0 && p.MinCount > p.MaxCount {
			return fmt.Errorf("shape %s: property %s has minCount %d > maxCount %d", s.ID, p.Path, p.MinCount, p.MaxCount)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
