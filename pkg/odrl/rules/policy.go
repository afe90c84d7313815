package rules

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// PolicyStructure checks every policy resource for a single IRI uid and at
// least one rule.
type PolicyStructure struct {
	shapes []*shape.Shape
}

// NewPolicyStructure creates the policy structure module.
func NewPolicyStructure() *PolicyStructure {
	targets := make([]shape.Target, 0, len(vocab.PolicyClasses()))
	for _, class := range vocab.PolicyClasses() {
		targets = append(targets, shape.Target{Kind: shape.TargetClass, IRI: class})
	}

	return &PolicyStructure{shapes: []*shape.Shape{{
		ID:       shape.IDPrefix + "PolicyShape",
		Targets:  targets,
		Severity: string(issues.SeverityViolation),
		Properties: []shape.Property{{
			Path:     vocab.PropUID,
			MinCount: 1,
			MaxCount: 1,
			NodeKind: shape.NodeKindIRI,
			Message:  "Policy must have exactly one odrl:uid whose value is an IRI",
		}},
		AtLeastOneOf: vocab.RuleProperties(),
		Message:      "Policy must have at least one odrl:permission, odrl:prohibition or odrl:obligation",
	}}}
}

// Name implements Module.
func (m *PolicyStructure) Name() string { return NamePolicyStructure }

// Compile implements Module.
func (m *PolicyStructure) Compile() []*shape.Shape { return m.shapes }

// Classify implements Module.
func (m *PolicyStructure) Classify(v shape.RawViolation) issues.ValidationIssue {
	issue := issues.ValidationIssue{
		FocusNode:    v.FocusNode.String(),
		PropertyPath: v.ResultPath,
		ActualValue:  v.Value.String(),
		Severity:     issues.SeverityViolation,
		RuleModule:   NamePolicyStructure,
	}

	switch {
	case v.ResultPath == vocab.PropUID:
		issue.IssueType = issues.TypeMissingPolicyUID
		const base = "Policy must have exactly one odrl:uid whose value is an IRI."
		switch v.Component {
		case shape.ComponentMinCount:
			issue.ConstraintViolated = base + " No odrl:uid was found; add 'odrl:uid <policy-iri>' using the policy's own IRI."
		case shape.ComponentMaxCount:
			issue.ConstraintViolated = base + " More than one odrl:uid was found; keep a single identifier."
		default:
			issue.ConstraintViolated = fmt.Sprintf("%s The value %q is a %s, not an IRI.", base, v.Value.String(), v.Value.Kind)
		}
	case v.Component == shape.ComponentOr:
		issue.IssueType = issues.TypeMissingPolicyRules
		issue.ConstraintViolated = "Policy must have at least one rule. Add an odrl:permission, odrl:prohibition or odrl:obligation " +
			"with an odrl:action."
	default:
		return unclassified(NamePolicyStructure, v)
	}
	return issue
}
