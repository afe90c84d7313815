// Package vocab defines the ODRL 2.2 terms the validation engine works with:
// namespaces, classes, properties and the 12 canonical constraint operators.
//
// Messages shown to users and fed back to a policy generator refer to terms
// by their short token, so the package also provides ShortName, Expand and
// Compact for moving between full IRIs, prefixed names and tokens:
//
//	vocab.ShortName("http://www.w3.org/ns/odrl/2/lteq") // "lteq"
//	vocab.Expand("odrl:count")                           // "http://www.w3.org/ns/odrl/2/count"
//	vocab.Compact(vocab.PropLeftOperand)                 // "odrl:leftOperand"
package vocab
