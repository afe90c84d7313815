package rules

import (
	"fmt"
	"strings"

	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/registry"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// Compatibility warns when a constraint pairs a known left operand with a
// canonical operator that the operand does not usually take. Unknown
// operands and operators are reported by ConstraintStructure instead.
type Compatibility struct {
	shapes  []*shape.Shape
	byShape map[string]registry.OperandInfo
}

// NewCompatibility creates the compatibility module with one shape per
// registered operand.
func NewCompatibility(reg *registry.Registry) *Compatibility {
	m := &Compatibility{byShape: make(map[string]registry.OperandInfo)}

	for _, info := range reg.Operands() {
		s := &shape.Shape{
			ID: shape.IDPrefix + "OperatorCompatibility-" + info.Name(),
			Targets: []shape.Target{{
				Kind:  shape.TargetSubjectsWithValue,
				IRI:   vocab.PropLeftOperand,
				Value: info.URI,
			}},
			Where:    []shape.Condition{{Path: vocab.PropOperator, In: vocab.Operators()}},
			Severity: string(issues.SeverityWarning),
			Properties: []shape.Property{{
				Path:  vocab.PropOperator,
				In:    info.Operators,
				Scope: vocab.Operators(),
			}},
			Message: fmt.Sprintf("Operator is not compatible with left operand %s", info.Name()),
		}
		m.shapes = append(m.shapes, s)
		m.byShape[s.ID] = info
	}
	return m
}

// Name implements Module.
func (m *Compatibility) Name() string { return NameCompatibility }

// Compile implements Module.
func (m *Compatibility) Compile() []*shape.Shape { return m.shapes }

// Classify implements Module.
func (m *Compatibility) Classify(v shape.RawViolation) issues.ValidationIssue {
	info, ok := m.byShape[v.SourceShape]
	if !ok || v.ResultPath != vocab.PropOperator {
		return unclassified(NameCompatibility, v)
	}

	op := token(v.Value)
	text := fmt.Sprintf("Operator '%s' is not compatible with left operand '%s'. Compatible operators for %s are: %s.",
		op, info.Name(), info.Name(), strings.Join(info.OperatorNames(), ", "))
	if info.ValueType != "" {
		text += fmt.Sprintf(" Right operand values are expected to be %s.", vocab.Compact(info.ValueType))
	}

	return issues.ValidationIssue{
		IssueType:          issues.TypeOperatorCompatibility,
		FocusNode:          v.FocusNode.String(),
		PropertyPath:       v.ResultPath,
		ActualValue:        op,
		ConstraintViolated: text,
		Severity:           issues.SeverityWarning,
		RuleModule:         NameCompatibility,
	}
}
