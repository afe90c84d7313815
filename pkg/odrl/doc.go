// Package odrl validates ODRL 2.2 policies serialized as Turtle.
//
// It is the entry point to the validation engine for callers that do not
// need to configure it:
//
//	report := odrl.Validate(request, turtle)
//	if !report.IsValid {
//	    retry(odrl.RenderFeedback(report))
//	}
//
// The engine lives in the subpackages: vocab (terms and operators),
// registry (left operands), graph (Turtle loading), shape (constraint
// evaluation), rules (the four rule modules), issues (findings) and
// validator (reports).
package odrl
