package shape

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/odrlcheck/pkg/odrl/graph"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

const ex = "http://example.com/"

func policyShape() *Shape {
	return &Shape{
		ID:       IDPrefix + "TestPolicyShape",
		Targets:  []Target{{Kind: TargetClass, IRI: vocab.ClassPolicy}, {Kind: TargetClass, IRI: vocab.ClassSet}},
		Severity: "Violation",
		Properties: []Property{
			{Path: vocab.PropUID, MinCount: 1, MaxCount: 1, NodeKind: NodeKindIRI},
		},
		AtLeastOneOf: []string{vocab.PropPermission, vocab.PropProhibition, vocab.PropObligation},
	}
}

func TestEvaluateCardinality(t *testing.T) {
	p1 := graph.NewIRI(ex + "p1")
	p2 := graph.NewIRI(ex + "p2")
	p3 := graph.NewIRI(ex + "p3")

	g := graph.New()
	// p1 is typed twice and must be checked once.
	g.Add(p1, vocab.RDFType, graph.NewIRI(vocab.ClassPolicy))
	g.Add(p1, vocab.RDFType, graph.NewIRI(vocab.ClassSet))
	g.Add(p1, vocab.PropPermission, graph.NewBlank("r1"))

	g.Add(p2, vocab.RDFType, graph.NewIRI(vocab.ClassSet))
	g.Add(p2, vocab.PropUID, graph.NewLiteral("p2", ""))
	g.Add(p2, vocab.PropUID, graph.NewIRI(ex+"p2"))

	g.Add(p3, vocab.RDFType, graph.NewIRI(vocab.ClassSet))
	g.Add(p3, vocab.PropUID, p3)

	got, err := Evaluate(g, policyShape())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	type row struct {
		Focus     string
		Path      string
		Value     string
		Component Component
	}
	var rows []row
	for _, v := range got {
		rows = append(rows, row{v.FocusNode.String(), v.ResultPath, v.Value.String(), v.Component})
		if v.SourceShape != IDPrefix+"TestPolicyShape" || v.Severity != "Violation" {
			t.Errorf("violation carries shape %q severity %q", v.SourceShape, v.Severity)
		}
	}

	want := []row{
		{ex + "p1", vocab.PropUID, "", ComponentMinCount},
		{ex + "p2", vocab.PropUID, "", ComponentMaxCount},
		{ex + "p2", vocab.PropUID, "p2", ComponentNodeKind},
		{ex + "p2", "", "", ComponentOr},
		{ex + "p3", "", "", ComponentOr},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateInAndExactlyOne(t *testing.T) {
	c := graph.NewBlank("c")
	g := graph.New()
	g.Add(graph.NewBlank("r"), vocab.PropConstraint, c)
	g.Add(c, vocab.PropOperator, graph.NewIRI(vocab.ODRL+"invalidOp"))
	g.Add(c, vocab.PropRightOperand, graph.NewLiteral("1", ""))
	g.Add(c, vocab.PropRightOperandReference, graph.NewIRI(ex+"ref"))

	s := &Shape{
		ID:      IDPrefix + "C",
		Targets: []Target{{Kind: TargetObjectsOf, IRI: vocab.PropConstraint}},
		Properties: []Property{
			{Path: vocab.PropOperator, MinCount: 1, MaxCount: 1, In: vocab.Operators(), Message: "bad operator"},
		},
		ExactlyOneOf: []string{vocab.PropRightOperand, vocab.PropRightOperandReference},
	}

	got, err := Evaluate(g, s)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Evaluate() = %d violations, want 2: %+v", len(got), got)
	}

	if got[0].Component != ComponentIn || got[0].Value.Value != vocab.ODRL+"invalidOp" || got[0].Message != "bad operator" {
		t.Errorf("first violation = %+v", got[0])
	}
	if got[1].Component != ComponentXone || got[1].Value.Value != "2" {
		t.Errorf("second violation = %+v", got[1])
	}
	if !strings.Contains(got[1].Message, "found 2") {
		t.Errorf("default xone message = %q", got[1].Message)
	}
}

func TestEvaluateNoneOfAndScope(t *testing.T) {
	lc := graph.NewIRI(ex + "lc")
	c := graph.NewIRI(ex + "c")
	g := graph.New()
	g.Add(lc, vocab.PropAnd, graph.NewIRI(ex+"c1"))
	g.Add(lc, vocab.PropOperator, graph.NewIRI(vocab.OpEq))
	g.Add(lc, vocab.PropRightOperand, graph.NewLiteral("1", ""))
	g.Add(c, vocab.PropOperator, graph.NewIRI(vocab.OpEq))
	g.Add(c, vocab.PropOperator, graph.NewIRI(vocab.ODRL+"invalidOp"))
	g.Add(c, vocab.PropOperator, graph.NewIRI(vocab.OpLt))

	tests := []struct {
		name  string
		shape *Shape
		want  []RawViolation
	}{
		{
			name: "forbidden predicates",
			shape: &Shape{
				ID:      IDPrefix + "N",
				Targets: []Target{{Kind: TargetSubjectsOf, IRI: vocab.PropAnd}},
				NoneOf:  []string{vocab.PropLeftOperand, vocab.PropOperator, vocab.PropRightOperand},
			},
			want: []RawViolation{{
				FocusNode:   lc,
				Value:       graph.NewIRI(vocab.PropOperator),
				SourceShape: IDPrefix + "N",
				Component:   ComponentNot,
				Message:     "Node must not have [odrl:operator odrl:rightOperand]",
			}},
		},
		{
			name: "no forbidden predicate",
			shape: &Shape{
				ID:      IDPrefix + "N",
				Targets: []Target{{Kind: TargetSubjectsOf, IRI: vocab.PropAnd}},
				NoneOf:  []string{vocab.PropLeftOperand, vocab.PropRightOperandReference},
			},
		},
		{
			name: "values outside scope are ignored",
			shape: &Shape{
				ID:      IDPrefix + "S",
				Targets: []Target{{Kind: TargetSubjectsWithValue, IRI: vocab.PropOperator, Value: vocab.OpLt}},
				Properties: []Property{{
					Path:    vocab.PropOperator,
					In:      []string{vocab.OpLt},
					Scope:   vocab.Operators(),
					Message: "incompatible",
				}},
			},
			want: []RawViolation{{
				FocusNode:   c,
				ResultPath:  vocab.PropOperator,
				Value:       graph.NewIRI(vocab.OpEq),
				SourceShape: IDPrefix + "S",
				Component:   ComponentIn,
				Message:     "incompatible",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(g, tt.shape)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateWhereUnless(t *testing.T) {
	g := graph.New()
	plain := graph.NewIRI(ex + "plain")
	logical := graph.NewIRI(ex + "logical")
	g.Add(plain, vocab.RDFType, graph.NewIRI(vocab.ClassConstraint))
	g.Add(plain, vocab.PropOperator, graph.NewIRI(vocab.OpEq))
	g.Add(logical, vocab.RDFType, graph.NewIRI(vocab.ClassConstraint))
	g.Add(logical, vocab.PropAnd, graph.NewIRI(ex+"x"))

	s := &Shape{
		ID:      IDPrefix + "W",
		Targets: []Target{{Kind: TargetClass, IRI: vocab.ClassConstraint}},
		Unless:  []Condition{{Path: vocab.PropAnd}},
	}
	focus, err := s.FocusNodes(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(focus) != 1 || focus[0] != plain {
		t.Errorf("FocusNodes() with Unless = %v", focus)
	}

	s.Unless = nil
	s.Where = []Condition{{Path: vocab.PropOperator, In: []string{vocab.OpGt}}}
	focus, _ = s.FocusNodes(g)
	if len(focus) != 0 {
		t.Errorf("FocusNodes() with unmatched Where = %v", focus)
	}

	s.Where = []Condition{{Path: vocab.PropOperator, In: vocab.Operators()}}
	focus, _ = s.FocusNodes(g)
	if len(focus) != 1 || focus[0] != plain {
		t.Errorf("FocusNodes() with Where = %v", focus)
	}
}

func TestEvaluateMinMembers(t *testing.T) {
	g := graph.New()
	lc := graph.NewBlank("lc")
	head := graph.NewBlank("l0")
	g.Add(lc, vocab.PropAnd, head)
	g.Add(head, vocab.RDFFirst, graph.NewIRI(ex+"c1"))
	g.Add(head, vocab.RDFRest, graph.NewIRI(vocab.RDFNil))

	other := graph.NewBlank("other")
	g.Add(other, vocab.PropOr, graph.NewIRI(ex+"c1"))
	g.Add(other, vocab.PropOr, graph.NewIRI(ex+"c2"))

	s := &Shape{
		ID: IDPrefix + "L",
		Targets: []Target{
			{Kind: TargetSubjectsOf, IRI: vocab.PropAnd},
			{Kind: TargetSubjectsOf, IRI: vocab.PropOr},
		},
		Properties: []Property{
			{Path: vocab.PropAnd, MinMembers: 2},
			{Path: vocab.PropOr, MinMembers: 2},
		},
	}

	got, err := Evaluate(g, s)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Evaluate() = %+v, want one violation", got)
	}
	if got[0].FocusNode != lc || got[0].Component != ComponentMinMembers || got[0].Value.Value != "1" {
		t.Errorf("violation = %+v", got[0])
	}
}

func TestEvaluateListTargetsAndErrors(t *testing.T) {
	g := graph.New()
	lc := graph.NewBlank("lc")
	head := graph.NewBlank("l0")
	g.Add(lc, vocab.PropAnd, head)
	g.Add(head, vocab.RDFFirst, graph.NewIRI(ex+"c1"))
	g.Add(head, vocab.RDFRest, head)

	s := &Shape{
		ID:      IDPrefix + "M",
		Targets: []Target{{Kind: TargetListMembersOf, IRI: vocab.PropAnd}},
	}
	if _, err := Evaluate(g, s); err == nil {
		t.Error("Evaluate() over a cyclic list should fail")
	}

	if _, err := Evaluate(graph.New(), &Shape{ID: "x"}); err == nil {
		t.Error("Evaluate() with a shape without targets should fail")
	}
}

func TestTurtle(t *testing.T) {
	s := policyShape()
	s.Message = "Policy must have a uid"
	out := s.Turtle()

	for _, want := range []string{
		"<urn:odrlcheck:shape:TestPolicyShape> a sh:NodeShape",
		"sh:targetClass odrl:Policy",
		"sh:targetClass odrl:Set",
		"sh:severity sh:Violation",
		"sh:or ( [ sh:path odrl:permission ; sh:minCount 1 ]",
		"sh:path odrl:uid",
		"sh:minCount 1",
		"sh:maxCount 1",
		"sh:nodeKind sh:IRI",
		`sh:message "Policy must have a uid"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Turtle() missing %q in:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, " .\n") {
		t.Errorf("Turtle() must end the statement: %q", out)
	}

	filtered := &Shape{
		ID:      IDPrefix + "F",
		Targets: []Target{{Kind: TargetSubjectsWithValue, IRI: vocab.PropLeftOperand, Value: vocab.ODRL + "count"}},
		Where:   []Condition{{Path: vocab.PropOperator, In: []string{vocab.OpEq}}},
	}
	if out := filtered.Turtle(); !strings.Contains(out, "sh:SPARQLTarget") || !strings.Contains(out, "FILTER EXISTS") {
		t.Errorf("filtered Turtle() = %s", out)
	}

	restricted := &Shape{
		ID:         IDPrefix + "R",
		Targets:    []Target{{Kind: TargetSubjectsOf, IRI: vocab.PropAnd}},
		NoneOf:     []string{vocab.PropOperator},
		Properties: []Property{{Path: vocab.PropOperator, In: []string{vocab.OpEq}, Scope: []string{vocab.OpEq, vocab.OpLt}}},
	}
	out = restricted.Turtle()
	for _, want := range []string{
		"sh:not [ sh:or ( [ sh:path odrl:operator ; sh:minCount 1 ] ) ]",
		"odrlcheck:inScope ( odrl:eq odrl:lt )",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Turtle() missing %q in:\n%s", want, out)
		}
	}

	doc := Document(s, filtered)
	if !strings.HasPrefix(doc, "@prefix odrl: <http://www.w3.org/ns/odrl/2/> .") {
		t.Errorf("Document() prefixes = %q", doc[:60])
	}
	if strings.Count(doc, "a sh:NodeShape") != 2 {
		t.Error("Document() should contain both shapes")
	}
}
