package registry

import (
	"fmt"
	"sort"
	"sync"

	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// OperandInfo describes one left operand of the ODRL vocabulary.
type OperandInfo struct {
	URI        string   // Full operand IRI
	Label      string   // Human-readable label
	Definition string   // Definition from the vocabulary
	Operators  []string // Compatible operator IRIs
	ValueType  string   // Expected right-operand datatype IRI
}

// Name returns the short token of the operand (e.g. "dateTime").
func (o OperandInfo) Name() string {
	return vocab.ShortName(o.URI)
}

// OperatorNames returns the short tokens of the compatible operators.
func (o OperandInfo) OperatorNames() []string {
	names := make([]string, len(o.Operators))
	for i, op := range o.Operators {
		names[i] = vocab.ShortName(op)
	}
	return names
}

// Accepts reports whether operator is in the operand's compatible set.
func (o OperandInfo) Accepts(operator string) bool {
	operator = vocab.Expand(operator)
	for _, op := range o.Operators {
		if op == operator {
			return true
		}
	}
	return false
}

// Registry is an immutable catalogue of left operands. It is safe for
// concurrent use by any number of readers.
type Registry struct {
	byURI map[string]OperandInfo
	uris  []string
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from the ODRL 2.2 vocabulary.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(defaultOperands...)
		if err != nil {
			panic(fmt.Sprintf("registry: invalid built-in vocabulary: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// New builds a registry from the given operands. Operand IRIs may be given as
// full IRIs, "odrl:" prefixed names or bare ODRL tokens. Operators must be
// canonical ODRL operators.
func New(operands ...OperandInfo) (*Registry, error) {
	r := &Registry{byURI: make(map[string]OperandInfo, len(operands))}

	for i, op := range operands {
		if op.URI == "" {
			return nil, fmt.Errorf("operand at index %d has no uri", i)
		}
		op.URI = vocab.Expand(op.URI)
		if _, dup := r.byURI[op.URI]; dup {
			return nil, fmt.Errorf("duplicate operand %q", op.URI)
		}

		ops := make([]string, 0, len(op.Operators))
		for _, o := range op.Operators {
			if !vocab.IsOperator(o) {
				return nil, fmt.Errorf("operand %q lists unknown operator %q", vocab.ShortName(op.URI), o)
			}
			ops = append(ops, vocab.Expand(o))
		}
		op.Operators = ops
		if op.ValueType != "" {
			op.ValueType = vocab.Expand(op.ValueType)
		}

		r.byURI[op.URI] = op
		r.uris = append(r.uris, op.URI)
	}

	sort.Strings(r.uris)
	return r, nil
}

// Extend returns a new registry holding the receiver's operands plus the
// given ones. The receiver is not modified.
func (r *Registry) Extend(operands ...OperandInfo) (*Registry, error) {
	all := make([]OperandInfo, 0, len(r.uris)+len(operands))
	all = append(all, r.Operands()...)
	all = append(all, operands...)
	return New(all...)
}

// Lookup finds an operand by full IRI, prefixed name or bare ODRL token.
func (r *Registry) Lookup(name string) (OperandInfo, bool) {
	info, ok := r.byURI[vocab.Expand(name)]
	return info, ok
}

// Contains reports whether name is a registered operand.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// URIs returns the operand IRIs in sorted order.
func (r *Registry) URIs() []string {
	out := make([]string, len(r.uris))
	copy(out, r.uris)
	return out
}

// Names returns the short operand tokens, ordered by IRI.
func (r *Registry) Names() []string {
	out := make([]string, len(r.uris))
	for i, uri := range r.uris {
		out[i] = vocab.ShortName(uri)
	}
	return out
}

// Operands returns all operands ordered by IRI.
func (r *Registry) Operands() []OperandInfo {
	out := make([]OperandInfo, len(r.uris))
	for i, uri := range r.uris {
		out[i] = r.byURI[uri]
	}
	return out
}

// Len returns the number of registered operands.
func (r *Registry) Len() int {
	return len(r.uris)
}
