package shape

import (
	"fmt"
	"strconv"

	"mercator-hq/odrlcheck/pkg/odrl/graph"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// Component names the constraint that produced a violation, using the SHACL
// constraint component names.
type Component string

const (
	ComponentMinCount   Component = "sh:MinCountConstraintComponent"
	ComponentMaxCount   Component = "sh:MaxCountConstraintComponent"
	ComponentNodeKind   Component = "sh:NodeKindConstraintComponent"
	ComponentIn         Component = "sh:InConstraintComponent"
	ComponentOr         Component = "sh:OrConstraintComponent"
	ComponentXone       Component = "sh:XoneConstraintComponent"
	ComponentNot        Component = "sh:NotConstraintComponent"
	ComponentMinMembers Component = "odrlcheck:MinMembersConstraintComponent"
)

// RawViolation is one failed constraint on one focus node.
type RawViolation struct {
	FocusNode   graph.Term
	ResultPath  string     // predicate IRI, empty for node-level constraints
	Value       graph.Term // offending value, zero when the violation is about absence
	SourceShape string
	Component   Component
	Severity    string
	Message     string
}

// Evaluate runs the shapes against g in order and returns their violations.
// Violations are ordered by shape, then focus node, then constraint, so the
// result is deterministic for a given graph. An error is returned for shapes
// that are invalid or that hit malformed collections; violations found
// before the error are returned with it.
func Evaluate(g *graph.Graph, shapes ...*Shape) ([]RawViolation, error) {
	var out []RawViolation
	for _, s := range shapes {
		if err := s.Validate(); err != nil {
			return out, err
		}
		focus, err := s.FocusNodes(g)
		if err != nil {
			return out, fmt.Errorf("shape %s: %w", s.ID, err)
		}
		for _, f := range focus {
			vs, err := s.check(g, f)
			out = append(out, vs...)
			if err != nil {
				return out, fmt.Errorf("shape %s: focus %s: %w", s.ID, f, err)
			}
		}
	}
	return out, nil
}

// FocusNodes returns the distinct nodes selected by the shape's targets after
// applying Where and Unless, in discovery order.
func (s *Shape) FocusNodes(g *graph.Graph) ([]graph.Term, error) {
	var candidates []graph.Term
	for _, t := range s.Targets {
		nodes, err := t.nodes(g)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, nodes...)
	}

	var out []graph.Term
	seen := make(map[graph.Term]bool, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if s.inFocus(g, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Shape) inFocus(g *graph.Graph, node graph.Term) bool {
	for _, c := range s.Where {
		if !c.matches(g, node) {
			return false
		}
	}
	for _, c := range s.Unless {
		if c.matches(g, node) {
			return false
		}
	}
	return true
}

func (t Target) nodes(g *graph.Graph) ([]graph.Term, error) {
	switch t.Kind {
	case TargetClass:
		return g.InstancesOf(t.IRI), nil
	case TargetObjectsOf:
		return g.ObjectsOf(t.IRI), nil
	case TargetSubjectsOf:
		return g.SubjectsOf(t.IRI), nil
	case TargetSubjectsWithValue:
		return g.SubjectsWithValue(t.IRI, graph.NewIRI(t.Value)), nil
	case TargetListMembersOf:
		var out []graph.Term
		for _, s := range g.SubjectsOf(t.IRI) {
			members, err := g.Members(s, t.IRI)
			if err != nil {
				return nil, err
			}
			out = append(out, members...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown target kind %d", t.Kind)
	}
}

func (s *Shape) check(g *graph.Graph, focus graph.Term) ([]RawViolation, error) {
	var out []RawViolation
	report := func(path string, value graph.Term, c Component, msg string) {
		out = append(out, RawViolation{
			FocusNode:   focus,
			ResultPath:  path,
			Value:       value,
			SourceShape: s.ID,
			Component:   c,
			Severity:    s.Severity,
			Message:     msg,
		})
	}

	for _, p := range s.Properties {
		values := g.Objects(focus, p.Path)
		msg := p.Message
		if msg == "" {
			msg = s.Message
		}
		path := vocab.Compact(p.Path)

		if p.MinCount > 0 && len(values) < p.MinCount {
			report(p.Path, graph.Term{}, ComponentMinCount,
				orDefault(msg, "Less than %d values on %s", p.MinCount, path))
		}
		if p.MaxCount > 0 && len(values) > p.MaxCount {
			report(p.Path, graph.Term{}, ComponentMaxCount,
				orDefault(msg, "More than %d values on %s", p.MaxCount, path))
		}
		if p.NodeKind != NodeKindAny {
			for _, v := range values {
				if !p.NodeKind.accepts(v) {
					report(p.Path, v, ComponentNodeKind,
						orDefault(msg, "Value of %s does not have node kind %s", path, p.NodeKind))
				}
			}
		}
		if len(p.In) > 0 {
			for _, v := range values {
				if len(p.Scope) > 0 && (!v.IsIRI() || !contains(p.Scope, v.Value)) {
					continue
				}
				if !v.IsIRI() || !contains(p.In, v.Value) {
					report(p.Path, v, ComponentIn,
						orDefault(msg, "Value of %s is not in the allowed list", path))
				}
			}
		}
		if p.MinMembers > 0 && len(values) > 0 {
			members, err := g.Members(focus, p.Path)
			if err != nil {
				return out, err
			}
			if len(members) < p.MinMembers {
				count := graph.NewLiteral(strconv.Itoa(len(members)), vocab.XSD+"integer")
				report(p.Path, count, ComponentMinMembers,
					orDefault(msg, "Less than %d members in %s", p.MinMembers, path))
			}
		}
	}

	if len(s.AtLeastOneOf) > 0 && countPresent(g, focus, s.AtLeastOneOf) == 0 {
		report("", graph.Term{}, ComponentOr,
			orDefault(s.Message, "None of %s present", compactAll(s.AtLeastOneOf)))
	}
	if len(s.ExactlyOneOf) > 0 {
		if n := countPresent(g, focus, s.ExactlyOneOf); n != 1 {
			count := graph.NewLiteral(strconv.Itoa(n), vocab.XSD+"integer")
			report("", count, ComponentXone,
				orDefault(s.Message, "Expected exactly one of %s, found %d", compactAll(s.ExactlyOneOf), n))
		}
	}
	if present := presentOf(g, focus, s.NoneOf); len(present) > 0 {
		// One result per node, carrying the first forbidden predicate found.
		report("", graph.NewIRI(present[0]), ComponentNot,
			orDefault(s.Message, "Node must not have %s", compactAll(present)))
	}

	return out, nil
}

func countPresent(g *graph.Graph, focus graph.Term, paths []string) int {
	return len(presentOf(g, focus, paths))
}

func presentOf(g *graph.Graph, focus graph.Term, paths []string) []string {
	var out []string
	for _, p := range paths {
		if g.Has(focus, p) {
			out = append(out, p)
		}
	}
	return out
}

func compactAll(iris []string) []string {
	out := make([]string, len(iris))
	for i, iri := range iris {
		out[i] = vocab.Compact(iri)
	}
	return out
}

func orDefault(msg, format string, args ...any) string {
	if msg != "" {
		return msg
	}
	return fmt.Sprintf(format, args...)
}
