// Package validator builds validation reports for ODRL policy graphs.
//
// A Validator parses the Turtle input, evaluates the four rule modules
// (in parallel by default) and merges their issues in a fixed order, so
// identical input always yields an identical report. Validate never returns
// an error: a parse failure becomes a single "Validation error" issue, and a
// rule module that fails is reported as an issue tagged with its name while
// the other modules still run.
//
// A report is valid only when it has no issues at all. Warnings count,
// but ViolationCount and WarningCount let callers apply a softer policy.
//
//	v := validator.New(validator.WithRequirePolicy(true))
//	report := v.Validate(ctx, userText, turtle)
//	if !report.IsValid {
//	    feedback := report.Render()
//	    // send feedback back to the generator
//	}
package validator
