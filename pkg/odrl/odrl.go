package odrl

import (
	"context"
	"sync"

	"mercator-hq/odrlcheck/pkg/odrl/validator"
)

var (
	defaultOnce      sync.Once
	defaultValidator *validator.Validator
)

// Default returns the shared validator built with default options.
func Default() *validator.Validator {
	defaultOnce.Do(func() {
		defaultValidator = validator.New()
	})
	return defaultValidator
}

// Validate checks a Turtle policy graph with the default validator.
// userText is the natural-language request the graph was generated from;
// it is only echoed in the report.
func Validate(userText, graph string) *validator.ValidationReport {
	return Default().Validate(context.Background(), userText, graph)
}

// RenderFeedback renders report as the Markdown feedback document used to
// ask a generator for a corrected policy.
func RenderFeedback(report *validator.ValidationReport) string {
	return report.Render()
}
