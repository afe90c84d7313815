// odrlcheck validates ODRL 2.2 policy graphs written in Turtle.
//
// It checks the graph structure against the ODRL information model, checks
// every constraint's operator against the operators its left operand
// accepts, and reports the findings as a machine-readable report and as a
// Markdown feedback document for the generator that produced the policy.
//
// Usage:
//
//	# Validate a policy file
//	odrlcheck validate --file policy.ttl
//
//	# Validate a directory with the originating request, as feedback
//	odrlcheck validate --dir policies/ --input "Allow reading until 2026" --format markdown
//
//	# List the known left operands
//	odrlcheck operands
//
//	# Run the HTTP API
//	odrlcheck serve --config config.yaml
//
//	# Re-validate on every change
//	odrlcheck watch --dir policies/
//
//	# Inspect the validation history
//	odrlcheck history list --valid=false
package main

func main() {
	Execute()
}
