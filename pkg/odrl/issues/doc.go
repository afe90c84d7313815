// Package issues defines the findings produced by validation: the
// ValidationIssue record, severities, the issue type labels, and the
// synthetic issues used for parse and rule module failures.
//
// Issues are data, not errors. A report with issues is a normal result that
// a policy generator uses as correction guidance.
package issues
