package issues

import (
	"fmt"
	"strings"
)

// Severity grades a finding.
type Severity string

const (
	SeverityViolation Severity = "Violation" // breaks the ODRL information model
	SeverityWarning   Severity = "Warning"   // unusual but possibly intended
)

// Issue types reported by the rule modules and the validator.
const (
	TypeMissingPolicyUID      = "Missing Policy UID"
	TypeMissingPolicyRules    = "Missing Policy Rules"
	TypeMissingPolicy         = "Missing Policy"
	TypeInvalidLeftOperand    = "Invalid Left Operand"
	TypeInvalidOperator       = "Invalid Operator"
	TypeMissingRightOperand   = "Missing Right Operand"
	TypeOperatorCompatibility = "Operator Compatibility"
	TypeLogicalOperatorError  = "Logical Operator Error"
	TypeInsufficientOperands  = "Insufficient Operands"
	TypeValidationError       = "Validation error"
)

// ValidationIssue is one finding about a policy graph.
type ValidationIssue struct {
	IssueType          string   `json:"issue_type"`
	FocusNode          string   `json:"focus_node"`
	PropertyPath       string   `json:"property_path"`
	ActualValue        string   `json:"actual_value"`
	ConstraintViolated string   `json:"constraint_violated"`
	Severity           Severity `json:"severity"`
	RuleModule         string   `json:"rule_module,omitempty"`
}

// IsWarning reports whether the issue is a non-fatal finding.
func (i ValidationIssue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String formats the issue on one line for logs and terminal output.
func (i ValidationIssue) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", i.Severity, i.IssueType))
	if i.FocusNode != "" {
		sb.WriteString(fmt.Sprintf(" at %s", i.FocusNode))
	}
	if i.PropertyPath != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", i.PropertyPath))
	}
	if i.ActualValue != "" {
		sb.WriteString(fmt.Sprintf(" value=%q", i.ActualValue))
	}
	if i.ConstraintViolated != "" {
		sb.WriteString(": " + i.ConstraintViolated)
	}
	return sb.String()
}

// ParseFailure is the single issue reported when the input graph cannot be
// parsed. Focus node and value are always empty.
func ParseFailure(err error) ValidationIssue {
	return ValidationIssue{
		IssueType:          TypeValidationError,
		ConstraintViolated: fmt.Sprintf("The policy could not be parsed as Turtle: %v", err),
		Severity:           SeverityViolation,
	}
}

// ModuleFailure is reported when a rule module fails internally. The other
// modules still run.
func ModuleFailure(module string, cause any) ValidationIssue {
	return ValidationIssue{
		IssueType:          TypeValidationError,
		ConstraintViolated: fmt.Sprintf("Rule module %s failed: %v", module, cause),
		Severity:           SeverityViolation,
		RuleModule:         module,
	}
}

// MissingPolicy is reported when policies are required and the graph has none.
func MissingPolicy() ValidationIssue {
	return ValidationIssue{
		IssueType: TypeMissingPolicy,
		ConstraintViolated: "The graph contains no resource typed odrl:Policy, odrl:Set, odrl:Offer or odrl:Agreement. " +
			"Declare the policy with 'a odrl:Set' (or Offer/Agreement) and give it an odrl:uid.",
		Severity: SeverityViolation,
	}
}

// Count returns the number of violations and warnings in list.
func Count(list []ValidationIssue) (violations, warnings int) {
	for _, i := range list {
		if i.IsWarning() {
			warnings++
		} else {
			violations++
		}
	}
	return violations, warnings
}

// Types returns the distinct issue types in list in first-appearance order.
func Types(list []ValidationIssue) []string {
	var out []string
	seen := make(map[string]bool)
	for _, i := range list {
		if !seen[i.IssueType] {
			seen[i.IssueType] = true
			out = append(out, i.IssueType)
		}
	}
	return out
}
