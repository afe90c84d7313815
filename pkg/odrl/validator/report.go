package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// ValidationReport is the result of validating one policy graph.
type ValidationReport struct {
	UserText       string                   `json:"user_text"`
	GeneratedGraph string                   `json:"generated_graph"`
	IsValid        bool                     `json:"is_valid"`
	Issues         []issues.ValidationIssue `json:"issues"`
	PolicyCount    int                      `json:"policy_count"`
	ViolationCount int                      `json:"violation_count"`
	WarningCount   int                      `json:"warning_count"`
}

// IssueGroup holds the issues of one type.
type IssueGroup struct {
	IssueType string
	Issues    []issues.ValidationIssue
}

// GroupByType groups the issues by type, in order of first appearance.
func (r *ValidationReport) GroupByType() []IssueGroup {
	var groups []IssueGroup
	index := make(map[string]int)
	for _, issue := range r.Issues {
		i, ok := index[issue.IssueType]
		if !ok {
			i = len(groups)
			index[issue.IssueType] = i
			groups = append(groups, IssueGroup{IssueType: issue.IssueType})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}
	return groups
}

// JSON encodes the report as indented JSON.
func (r *ValidationReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Render formats the report as a Markdown feedback document for a policy
// generator. Section headings are stable so the document can be parsed.
func (r *ValidationReport) Render() string {
	var sb strings.Builder

	sb.WriteString("# ODRL Policy Validation Report\n\n")

	sb.WriteString("## Original Input\n\n")
	if strings.TrimSpace(r.UserText) == "" {
		sb.WriteString("_(none)_\n\n")
	} else {
		sb.WriteString(strings.TrimRight(r.UserText, "\n") + "\n\n")
	}

	sb.WriteString("## Generated Policy\n\n")
	sb.WriteString("```turtle\n")
	if graph := strings.TrimRight(r.GeneratedGraph, "\n"); graph != "" {
		sb.WriteString(graph + "\n")
	}
	sb.WriteString("```\n\n")

	sb.WriteString("## Validation Result\n\n")
	status := "PASSED"
	if !r.IsValid {
		status = "FAILED"
	}
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n", status))
	sb.WriteString(fmt.Sprintf("- **Policies found:** %d\n", r.PolicyCount))
	sb.WriteString(fmt.Sprintf("- **Issues:** %d (%d violations, %d warnings)\n\n",
		len(r.Issues), r.ViolationCount, r.WarningCount))

	sb.WriteString("## Issues\n\n")
	groups := r.GroupByType()
	if len(groups) == 0 {
		sb.WriteString("No issues found.\n\n")
	}
	for _, group := range groups {
		sb.WriteString(fmt.Sprintf("### %s (%d)\n\n", group.IssueType, len(group.Issues)))
		for i, issue := range group.Issues {
			renderIssue(&sb, i+1, issue)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Notes\n\n")
	for _, note := range r.notes() {
		sb.WriteString("- " + note + "\n")
	}

	return sb.String()
}

func renderIssue(sb *strings.Builder, n int, issue issues.ValidationIssue) {
	focus := issue.FocusNode
	if focus == "" {
		focus = "(graph)"
	}
	sb.WriteString(fmt.Sprintf("%d. **Focus node:** `%s`\n", n, focus))
	if issue.PropertyPath != "" {
		sb.WriteString(fmt.Sprintf("   - **Property:** `%s`\n", vocab.Compact(issue.PropertyPath)))
	}
	if issue.ActualValue != "" {
		sb.WriteString(fmt.Sprintf("   - **Value:** `%s`\n", issue.ActualValue))
	}
	sb.WriteString(fmt.Sprintf("   - **Severity:** %s\n", issue.Severity))
	if issue.RuleModule != "" {
		sb.WriteString(fmt.Sprintf("   - **Rule:** %s\n", issue.RuleModule))
	}
	sb.WriteString(fmt.Sprintf("   - **Detail:** %s\n", issue.ConstraintViolated))
}

func (r *ValidationReport) notes() []string {
	if r.IsValid {
		return []string{
			"The policy conforms to the ODRL information model and the operand registry.",
			"No regeneration is needed.",
		}
	}

	var notes []string
	for _, issue := range r.Issues {
		if issue.IssueType == issues.TypeValidationError && issue.FocusNode == "" && issue.RuleModule == "" {
			notes = append(notes, "The policy is not valid Turtle. Fix the syntax before anything else; no rules were checked.")
			break
		}
	}
	notes = append(notes, "Regenerate the policy and fix every issue listed above. Keep the parts that were not reported unchanged.")
	if r.WarningCount > 0 {
		notes = append(notes, "Warnings mark operator choices that are unusual for their left operand. They also fail validation; "+
			"change the operator or confirm the left operand.")
	}
	notes = append(notes, "Use only canonical ODRL terms with the odrl: prefix (http://www.w3.org/ns/odrl/2/).")
	return notes
}
