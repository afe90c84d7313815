package rules

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/odrlcheck/pkg/odrl/graph"
	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/registry"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// ConstraintStructure checks the left operand, operator and right operand
// of every atomic constraint. Logical constraints are left to
// LogicalConstraint, which also reports logical constraints that carry
// atomic properties.
type ConstraintStructure struct {
	reg    *registry.Registry
	shapes []*shape.Shape
}

// NewConstraintStructure creates the constraint structure module.
func NewConstraintStructure(reg *registry.Registry) *ConstraintStructure {
	targets := []shape.Target{
		{Kind: shape.TargetClass, IRI: vocab.ClassConstraint},
		{Kind: shape.TargetObjectsOf, IRI: vocab.PropConstraint},
		{Kind: shape.TargetObjectsOf, IRI: vocab.PropRefinement},
	}
	for _, op := range vocab.LogicalOperators() {
		targets = append(targets, shape.Target{Kind: shape.TargetListMembersOf, IRI: op})
	}

	return &ConstraintStructure{
		reg: reg,
		shapes: []*shape.Shape{{
			ID:       shape.IDPrefix + "ConstraintShape",
			Targets:  targets,
			Unless:   logicalConditions(),
			Severity: string(issues.SeverityViolation),
			Properties: []shape.Property{
				{Path: vocab.PropLeftOperand, MinCount: 1, MaxCount: 1, In: reg.URIs()},
				{Path: vocab.PropOperator, MinCount: 1, MaxCount: 1, In: vocab.Operators()},
			},
			ExactlyOneOf: []string{vocab.PropRightOperand, vocab.PropRightOperandReference},
			Message:      "Constraint must have exactly one odrl:rightOperand or odrl:rightOperandReference",
		}},
	}
}

// logicalConditions matches nodes that are logical constraints.
func logicalConditions() []shape.Condition {
	conds := []shape.Condition{{Path: vocab.RDFType, In: []string{vocab.ClassLogicalConstraint}}}
	for _, op := range vocab.LogicalOperators() {
		conds = append(conds, shape.Condition{Path: op})
	}
	return conds
}

// Name implements Module.
func (m *ConstraintStructure) Name() string { return NameConstraintStructure }

// Compile implements Module.
func (m *ConstraintStructure) Compile() []*shape.Shape { return m.shapes }

// Classify implements Module.
func (m *ConstraintStructure) Classify(v shape.RawViolation) issues.ValidationIssue {
	issue := issues.ValidationIssue{
		FocusNode:    v.FocusNode.String(),
		PropertyPath: v.ResultPath,
		Severity:     issues.SeverityViolation,
		RuleModule:   NameConstraintStructure,
	}

	switch {
	case v.ResultPath == vocab.PropLeftOperand:
		issue.IssueType = issues.TypeInvalidLeftOperand
		issue.ActualValue = token(v.Value)
		issue.ConstraintViolated = describe(v, "left operand", "odrl:leftOperand", m.reg.Names(), "dateTime")
	case v.ResultPath == vocab.PropOperator:
		issue.IssueType = issues.TypeInvalidOperator
		issue.ActualValue = token(v.Value)
		issue.ConstraintViolated = describe(v, "operator", "odrl:operator", vocab.OperatorNames(), "eq")
	case v.Component == shape.ComponentXone:
		issue.IssueType = issues.TypeMissingRightOperand
		issue.PropertyPath = vocab.PropRightOperand
		if v.Value.Value == "0" {
			issue.ConstraintViolated = "Constraint has no right operand. Add exactly one odrl:rightOperand (a literal value) " +
				"or odrl:rightOperandReference (an IRI)."
		} else {
			issue.ActualValue = v.Value.Value
			issue.ConstraintViolated = "Constraint must have exactly one of odrl:rightOperand or odrl:rightOperandReference, " +
				"found " + v.Value.Value + ". Keep a single right operand."
		}
	default:
		return unclassified(NameConstraintStructure, v)
	}
	return issue
}

// token returns the short name reported for a term: the local part of an
// IRI or the lexical form of a literal.
func token(t graph.Term) string {
	if t.IsZero() {
		return ""
	}
	if t.IsLiteral() {
		return t.Value
	}
	return vocab.ShortName(t.String())
}

// describe explains a cardinality or membership violation on a constraint
// property and lists the valid vocabulary. example is shown for literal
// values when it is part of valid.
func describe(v shape.RawViolation, what, prop string, valid []string, example string) string {
	list := strings.Join(valid, ", ")
	switch v.Component {
	case shape.ComponentMinCount:
		return fmt.Sprintf("Constraint is missing %s. Valid %ss are: %s.", prop, what, list)
	case shape.ComponentMaxCount:
		return fmt.Sprintf("Constraint must have exactly one %s, found several. Valid %ss are: %s.", prop, what, list)
	}

	name := token(v.Value)
	msg := fmt.Sprintf("Invalid %s '%s'. Valid %ss are: %s.", what, name, what, list)
	switch {
	case v.Value.IsLiteral() && slices.Contains(valid, example):
		msg += fmt.Sprintf(" The %s must be an IRI such as odrl:%s, not a literal.", what, example)
	case v.Value.IsLiteral():
		msg += fmt.Sprintf(" The %s must be an IRI, not a literal.", what)
	}
	if s := issues.Suggest(name, valid); s != "" {
		msg += " " + s
	}
	return msg
}
