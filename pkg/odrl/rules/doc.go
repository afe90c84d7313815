// Package rules holds the four ODRL rule modules: policy structure,
// constraint structure, operand/operator compatibility and logical
// constraints.
//
// Each module compiles its rule into shapes for package shape and classifies
// the resulting violations into issues. The set is closed; Modules returns
// it in the fixed order used for evaluation and reporting.
package rules
