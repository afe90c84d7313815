package health

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/odrlcheck/pkg/odrl/registry"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
)

// selfTestPolicy is a minimal valid policy. The validator must accept it.
const selfTestPolicy = `@prefix odrl: <http://www.w3.org/ns/odrl/2/> .
@prefix xsd:  <http://www.w3.org/2001/XMLSchema#> .
@prefix ex:   <http://example.com/> .

ex:healthcheck a odrl:Set ;
    odrl:uid ex:healthcheck ;
    odrl:permission [
        odrl:action odrl:read ;
        odrl:target ex:dataset ;
        odrl:constraint [
            odrl:leftOperand odrl:dateTime ;
            odrl:operator odrl:lteq ;
            odrl:rightOperand "2025-12-31"^^xsd:date
        ]
    ] .
`

// RegistryCheck fails when the operand registry is empty.
func RegistryCheck(reg *registry.Registry) CheckFunc {
	return func(ctx context.Context) error {
		if reg == nil || reg.Len() == 0 {
			return errors.New("operand registry is empty")
		}
		return nil
	}
}

// ValidatorCheck validates a known-good policy and fails when the validator
// reports any issue for it.
func ValidatorCheck(v *validator.Validator) CheckFunc {
	return func(ctx context.Context) error {
		report := v.Validate(ctx, "", selfTestPolicy)
		if !report.IsValid {
			return fmt.Errorf("self-test policy reported %d issue(s): %s",
				len(report.Issues), report.Issues[0].IssueType)
		}
		return nil
	}
}
