// Package shape is a small constraint engine in the style of SHACL.
//
// A Shape names the focus nodes it applies to (by class, by predicate, by
// collection membership) and the constraints every focus node must meet:
// value counts, node kinds, allowed values, alternatives and collection
// lengths. Evaluate walks a graph.Graph and reports each failed constraint
// as a RawViolation. It knows nothing about ODRL issue types; turning
// violations into findings is the job of the rule modules.
//
// Shapes render to SHACL Turtle for inspection with Shape.Turtle and Document.
package shape
