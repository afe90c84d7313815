package rules

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/registry"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
)

// Module names, in evaluation and report order.
const (
	NamePolicyStructure     = "PolicyStructure"
	NameConstraintStructure = "ConstraintStructure"
	NameCompatibility       = "Compatibility"
	NameLogicalConstraint   = "LogicalConstraint"
)

// Module owns one category of structural rule. It compiles the rule into
// shapes for the evaluation engine and turns the resulting raw violations
// into issues.
type Module interface {
	// Name identifies the module in issues, logs and metrics.
	Name() string

	// Compile returns the module's shapes. The result is the same on every call.
	Compile() []*shape.Shape

	// Classify converts a violation of one of the module's shapes into an issue.
	Classify(v shape.RawViolation) issues.ValidationIssue
}

// Modules returns the four rule modules in their fixed order. A nil registry
// means registry.Default().
func Modules(reg *registry.Registry) []Module {
	if reg == nil {
		reg = registry.Default()
	}
	return []Module{
		NewPolicyStructure(),
		NewConstraintStructure(reg),
		NewCompatibility(reg),
		NewLogicalConstraint(),
	}
}

// Names returns the module names in their fixed order.
func Names() []string {
	return []string{NamePolicyStructure, NameConstraintStructure, NameCompatibility, NameLogicalConstraint}
}

// Lookup returns the module called name.
func Lookup(reg *registry.Registry, name string) (Module, error) {
	for _, m := range Modules(reg) {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown rule module %q (valid: %v)", name, Names())
}

// unclassified covers violations a module's shapes should never produce.
func unclassified(module string, v shape.RawViolation) issues.ValidationIssue {
	return issues.ValidationIssue{
		IssueType:          issues.TypeValidationError,
		FocusNode:          v.FocusNode.String(),
		PropertyPath:       v.ResultPath,
		ActualValue:        v.Value.String(),
		ConstraintViolated: fmt.Sprintf("%s (%s, %s)", v.Message, v.SourceShape, v.Component),
		Severity:           issues.SeverityViolation,
		RuleModule:         module,
	}
}
