package vocab

import (
	"sort"
	"strings"
)

// Canonical ODRL relational and set operators.
const (
	OpEq       = ODRL + "eq"
	OpGt       = ODRL + "gt"
	OpGteq     = ODRL + "gteq"
	OpLt       = ODRL + "lt"
	OpLteq     = ODRL + "lteq"
	OpNeq      = ODRL + "neq"
	OpIsA      = ODRL + "isA"
	OpHasPart  = ODRL + "hasPart"
	OpIsPartOf = ODRL + "isPartOf"
	OpIsAllOf  = ODRL + "isAllOf"
	OpIsAnyOf  = ODRL + "isAnyOf"
	OpIsNoneOf = ODRL + "isNoneOf"
)

var operators = []string{
	OpEq, OpGt, OpGteq, OpLt, OpLteq, OpNeq,
	OpIsA, OpHasPart, OpIsPartOf, OpIsAllOf, OpIsAnyOf, OpIsNoneOf,
}

var operatorSet = func() map[string]bool {
	m := make(map[string]bool, len(operators))
	for _, op := range operators {
		m[op] = true
	}
	return m
}()

// Operators returns the 12 canonical operator IRIs in vocabulary order.
func Operators() []string {
	out := make([]string, len(operators))
	copy(out, operators)
	return out
}

// OperatorNames returns the short names of the canonical operators.
func OperatorNames() []string {
	out := make([]string, len(operators))
	for i, op := range operators {
		out[i] = ShortName(op)
	}
	return out
}

// IsOperator reports whether iri is one of the canonical operators.
// Prefixed names ("odrl:eq") and bare tokens ("eq") are accepted.
func IsOperator(iri string) bool {
	return operatorSet[Expand(iri)]
}

// ShortName extracts the local token of an IRI or prefixed name: the ODRL
// namespace or "odrl:" prefix is stripped, otherwise everything up to and
// including the last '/' or '#'.
func ShortName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
	if strings.HasPrefix(s, ODRL) {
		return s[len(ODRL):]
	}
	if strings.HasPrefix(s, "odrl:") {
		return s[len("odrl:"):]
	}
	if i := strings.LastIndexAny(s, "/#"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Expand turns a prefixed name with a known prefix into a full IRI. A bare
// token without a colon is assumed to be in the ODRL namespace. Anything else
// is returned unchanged.
func Expand(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") || strings.HasPrefix(s, "urn:") {
		return s
	}
	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		if s == "" {
			return s
		}
		return ODRL + s
	}
	if ns, known := Prefixes()[prefix]; known {
		return ns + local
	}
	return s
}

// Compact renders an IRI as a prefixed name when its namespace is known.
// Longest namespace wins so that nested namespaces compact correctly.
func Compact(iri string) string {
	prefixes := Prefixes()
	names := make([]string, 0, len(prefixes))
	for p := range prefixes {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool {
		return len(prefixes[names[i]]) > len(prefixes[names[j]])
	})
	for _, p := range names {
		if ns := prefixes[p]; strings.HasPrefix(iri, ns) && len(iri) > len(ns) {
			return p + ":" + iri[len(ns):]
		}
	}
	return iri
}
