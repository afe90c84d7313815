package rules

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// minOperands is the smallest number of constraints a logical operator combines.
const minOperands = 2

// LogicalConstraint checks that a logical constraint uses exactly one of
// and, or, xone and andSequence, that it combines at least two constraints,
// and that it does not also carry the properties of an atomic constraint.
type LogicalConstraint struct {
	shapes []*shape.Shape
}

// NewLogicalConstraint creates the logical constraint module.
func NewLogicalConstraint() *LogicalConstraint {
	targets := []shape.Target{{Kind: shape.TargetClass, IRI: vocab.ClassLogicalConstraint}}
	props := make([]shape.Property, 0, len(vocab.LogicalOperators()))
	for _, op := range vocab.LogicalOperators() {
		targets = append(targets, shape.Target{Kind: shape.TargetSubjectsOf, IRI: op})
		props = append(props, shape.Property{Path: op, MinMembers: minOperands})
	}

	return &LogicalConstraint{shapes: []*shape.Shape{{
		ID:           shape.IDPrefix + "LogicalConstraintShape",
		Targets:      targets,
		Severity:     string(issues.SeverityViolation),
		Properties:   props,
		ExactlyOneOf: vocab.LogicalOperators(),
		Message:      "Logical constraint must use exactly one of odrl:and, odrl:or, odrl:xone or odrl:andSequence",
	}, {
		ID:       shape.IDPrefix + "MixedConstraintShape",
		Targets:  targets,
		Severity: string(issues.SeverityViolation),
		NoneOf:   atomicProperties,
		Message:  "Logical constraint must not also declare a left operand, operator or right operand",
	}}}
}

// atomicProperties belong to a single constraint and never to a logical one.
var atomicProperties = []string{
	vocab.PropLeftOperand,
	vocab.PropOperator,
	vocab.PropRightOperand,
	vocab.PropRightOperandReference,
}

// Name implements Module.
func (m *LogicalConstraint) Name() string { return NameLogicalConstraint }

// Compile implements Module.
func (m *LogicalConstraint) Compile() []*shape.Shape { return m.shapes }

// Classify implements Module.
func (m *LogicalConstraint) Classify(v shape.RawViolation) issues.ValidationIssue {
	issue := issues.ValidationIssue{
		FocusNode:  v.FocusNode.String(),
		Severity:   issues.SeverityViolation,
		RuleModule: NameLogicalConstraint,
	}

	switch v.Component {
	case shape.ComponentXone:
		issue.IssueType = issues.TypeLogicalOperatorError
		if v.Value.Value == "0" {
			issue.ConstraintViolated = "Logical constraint has no logical operator. Use exactly one of odrl:and, odrl:or, " +
				"odrl:xone or odrl:andSequence holding the combined constraints."
		} else {
			issue.ActualValue = v.Value.Value
			issue.ConstraintViolated = fmt.Sprintf("Logical constraint uses %s logical operators. Use exactly one of odrl:and, "+
				"odrl:or, odrl:xone or odrl:andSequence, and nest further logical constraints if needed.", v.Value.Value)
		}
	case shape.ComponentNot:
		issue.IssueType = issues.TypeLogicalOperatorError
		issue.PropertyPath = v.Value.Value
		issue.ActualValue = token(v.Value)
		issue.ConstraintViolated = fmt.Sprintf("Logical constraint must not also declare %s. Move the left operand, "+
			"operator and right operand into a separate constraint and list it among the operands.",
			vocab.Compact(v.Value.Value))
	case shape.ComponentMinMembers:
		op := vocab.ShortName(v.ResultPath)
		issue.IssueType = issues.TypeInsufficientOperands
		issue.PropertyPath = v.ResultPath
		issue.ActualValue = v.Value.Value
		issue.ConstraintViolated = fmt.Sprintf("Logical operator '%s' must combine at least %d constraints, found %s. "+
			"Add the missing constraints or replace the logical constraint with a single constraint.",
			op, minOperands, v.Value.Value)
	default:
		return unclassified(NameLogicalConstraint, v)
	}
	return issue
}
