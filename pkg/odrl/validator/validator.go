package validator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/odrlcheck/pkg/odrl/graph"
	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/registry"
	"mercator-hq/odrlcheck/pkg/odrl/rules"
	"mercator-hq/odrlcheck/pkg/odrl/shape"
	"mercator-hq/odrlcheck/pkg/odrl/vocab"
)

// tracerName is the instrumentation scope of validator spans.
const tracerName = "mercator-hq/odrlcheck/validator"

// Recorder receives validation measurements. metrics.Collector implements it.
type Recorder interface {
	RecordValidation(valid bool, duration time.Duration, found []issues.ValidationIssue)
	RecordModule(module string, duration time.Duration, failed bool)
	RecordParseFailure()
}

type nopRecorder struct{}

func (nopRecorder) RecordValidation(bool, time.Duration, []issues.ValidationIssue) {}
func (nopRecorder) RecordModule(string, time.Duration, bool) {}
func (nopRecorder) RecordParseFailure() {}

// Validator checks ODRL policy graphs against the rule modules. A Validator
// holds no per-call state and is safe for concurrent use.
type Validator struct {
	registry      *registry.Registry
	modules       []rules.Module
	parallel      bool
	requirePolicy bool
	maxGraphBytes int

	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry sets the operand registry. The default is registry.Default().
func WithRegistry(reg *registry.Registry) Option {
	return func(v *Validator) {
		if reg != nil {
			v.registry = reg
		}
	}
}

// WithParallel turns parallel rule module evaluation on or off. It is on by default.
func WithParallel(parallel bool) Option {
	return func(v *Validator) { v.parallel = parallel }
}

// WithRequirePolicy reports a "Missing Policy" violation for graphs without
// any policy resource. Off by default, in which case such graphs have no issues.
func WithRequirePolicy(require bool) Option {
	return func(v *Validator) { v.requirePolicy = require }
}

// WithMaxGraphBytes rejects graphs larger than n bytes without parsing them.
// Zero disables the limit.
func WithMaxGraphBytes(n int) Option {
	return func(v *Validator) { v.maxGraphBytes = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(v *Validator) {
		if r != nil {
			v.recorder = r
		}
	}
}

// WithTracer sets the tracer. The default uses the global tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(v *Validator) {
		if t != nil {
			v.tracer = t
		}
	}
}

// withModules replaces the rule modules.
func withModules(mods ...rules.Module) Option {
	return func(v *Validator) { v.modules = mods }
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		registry: registry.Default(),
		parallel: true,
		logger:   slog.Default().With("component", "validator"),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.modules == nil {
		v.modules = rules.Modules(v.registry)
	}
	return v
}

// Registry returns the operand registry the validator checks against.
func (v *Validator) Registry() *registry.Registry {
	return v.registry
}

// Modules returns the rule modules in evaluation order.
func (v *Validator) Modules() []rules.Module {
	out := make([]rules.Module, len(v.modules))
	copy(out, v.modules)
	return out
}

// Validate checks graphText, a Turtle serialization, and returns the report.
// It never fails: parse errors and rule module failures are reported as
// issues. ctx is only used to parent trace spans.
func (v *Validator) Validate(ctx context.Context, userText, graphText string) *ValidationReport {
	start := time.Now()
	ctx, span := v.tracer.Start(ctx, "odrl.validate",
		trace.WithAttributes(attribute.Int("odrl.graph_bytes", len(graphText))))
	defer span.End()

	report := &ValidationReport{
		UserText:       userText,
		GeneratedGraph: graphText,
		Issues:         []issues.ValidationIssue{},
	}

	g, err := v.parse(graphText)
	if err != nil {
		v.recorder.RecordParseFailure()
		span.RecordError(err)
		v.logger.Debug("policy graph could not be parsed", "error", err)
		report.Issues = append(report.Issues, issues.ParseFailure(err))
		v.finish(span, report, start)
		return report
	}

	report.PolicyCount = countPolicies(g)
	if v.requirePolicy && report.PolicyCount == 0 {
		report.Issues = append(report.Issues, issues.MissingPolicy())
	}

	for _, found := range v.runModules(ctx, g) {
		report.Issues = append(report.Issues, found...)
	}

	v.finish(span, report, start)
	return report
}

func (v *Validator) parse(graphText string) (*graph.Graph, error) {
	if v.maxGraphBytes > 0 && len(graphText) > v.maxGraphBytes {
		return nil, fmt.Errorf("graph is %d bytes, the limit is %d", len(graphText), v.maxGraphBytes)
	}
	return graph.Parse(graphText)
}

func (v *Validator) finish(span trace.Span, report *ValidationReport, start time.Time) {
	report.ViolationCount, report.WarningCount = issues.Count(report.Issues)
	report.IsValid = len(report.Issues) == 0

	span.SetAttributes(
		attribute.Bool("odrl.valid", report.IsValid),
		attribute.Int("odrl.policies", report.PolicyCount),
		attribute.Int("odrl.violations", report.ViolationCount),
		attribute.Int("odrl.warnings", report.WarningCount),
	)
	if !report.IsValid {
		span.SetStatus(codes.Error, "policy graph has issues")
	}

	duration := time.Since(start)
	v.recorder.RecordValidation(report.IsValid, duration, report.Issues)
	v.logger.Debug("validated policy graph",
		"valid", report.IsValid,
		"policies", report.PolicyCount,
		"violations", report.ViolationCount,
		"warnings", report.WarningCount,
		"duration", duration,
	)
}

// runModules evaluates every module and returns their issues indexed by
// module position, so the merge order does not depend on scheduling.
func (v *Validator) runModules(ctx context.Context, g *graph.Graph) [][]issues.ValidationIssue {
	results := make([][]issues.ValidationIssue, len(v.modules))

	if !v.parallel {
		for i, m := range v.modules {
			results[i] = v.runModule(ctx, m, g)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, m := range v.modules {
		wg.Add(1)
		go func(i int, m rules.Module) {
			defer wg.Done()
			results[i] = v.runModule(ctx, m, g)
		}(i, m)
	}
	wg.Wait()
	return results
}

// runModule evaluates one module. Errors and panics inside the module are
// converted into a module failure issue.
func (v *Validator) runModule(ctx context.Context, m rules.Module, g *graph.Graph) (found []issues.ValidationIssue) {
	name := m.Name()
	start := time.Now()
	_, span := v.tracer.Start(ctx, "odrl.rule_module", trace.WithAttributes(attribute.String("odrl.module", name)))
	failed := false

	defer func() {
		if r := recover(); r != nil {
			failed = true
			v.logger.Error("rule module panicked", "module", name, "panic", r)
			span.SetStatus(codes.Error, fmt.Sprint(r))
			found = append(found, issues.ModuleFailure(name, r))
		}
		v.recorder.RecordModule(name, time.Since(start), failed)
		span.SetAttributes(attribute.Int("odrl.issues", len(found)))
		span.End()
	}()

	raw, err := shape.Evaluate(g, m.Compile()...)
	for _, rv := range raw {
		found = append(found, m.Classify(rv))
	}
	if err != nil {
		failed = true
		v.logger.Warn("rule module failed", "module", name, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		found = append(found, issues.ModuleFailure(name, err))
	}
	return found
}

// countPolicies returns the number of distinct policy resources in g.
func countPolicies(g *graph.Graph) int {
	seen := make(map[graph.Term]bool)
	for _, class := range vocab.PolicyClasses() {
		for _, p := range g.InstancesOf(class) {
			seen[p] = true
		}
	}
	return len(seen)
}
