// Package registry is the catalogue of ODRL left operands and the operators
// each of them can meaningfully be compared with.
//
// The default registry holds the ODRL 2.2 vocabulary and is built once on
// first use. Registries never change after construction; Extend and Load
// return new instances, so a registry can be shared by concurrent
// validations without locking.
//
// An unknown operand is not an error here. Lookup reports it with ok=false
// and the constraint rules turn that into a validation finding.
//
//	info, ok := registry.Default().Lookup("odrl:dateTime")
//	if ok && !info.Accepts("odrl:isAnyOf") {
//	    // unusual operator for a temporal operand
//	}
package registry
