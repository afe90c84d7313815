package metrics

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/odrl/issues"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxPathLabels bounds the path label of the HTTP metrics.
const maxPathLabels = 200

// Collector owns the odrlcheck Prometheus metrics. It satisfies
// validator.Recorder and is also fed by the server's metrics middleware.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationMetrics  *ValidationMetrics
	moduleMetrics      *ModuleMetrics
	httpMetrics        *HTTPMetrics
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector registers all metrics on registry, or on a fresh registry
// when it is nil. Missing namespace and buckets are filled with defaults.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	v := validator.New(validator.WithRecorder(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = slices.Clone(config.DefaultDurationBuckets)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		validationMetrics:  NewValidationMetrics(cfg, registry),
		moduleMetrics:      NewModuleMetrics(cfg, registry),
		httpMetrics:        NewHTTPMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(maxPathLabels),
	}
}

// RecordValidation counts one finished validation and each of its issues
// by type and severity.
func (c *Collector) RecordValidation(valid bool, duration time.Duration, found []issues.ValidationIssue) {
	if c.config.Enabled {
		c.validationMetrics.RecordValidation(valid, duration)
		for _, is := range found {
			c.validationMetrics.RecordIssue(is.IssueType, string(is.Severity))
		}
	}
}

func (c *Collector) RecordModule(module string, duration time.Duration, failed bool) {
	if c.config.Enabled {
		c.moduleMetrics.RecordEvaluation(module, duration, failed)
	}
}

// RecordParseFailure counts a graph the Turtle decoder rejected.
func (c *Collector) RecordParseFailure() {
	if c.config.Enabled {
		c.validationMetrics.RecordParseFailure()
	}
}

// RecordHTTPRequest records an API request. Paths past the cardinality
// limit are folded into "other".
func (c *Collector) RecordHTTPRequest(path string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	if !c.cardinalityLimiter.Allow(path) {
		path = "other"
	}
	c.httpMetrics.RecordRequest(path, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus exposition
// format, OpenMetrics when the scraper asks for it.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// CardinalityLimiter caps the number of distinct values a label may take.
type CardinalityLimiter struct {
	mu   sync.Mutex
	max  int
	seen map[string]struct{}
}

func NewCardinalityLimiter(limit int) *CardinalityLimiter {
	return &CardinalityLimiter{max: limit, seen: map[string]struct{}{}}
}

// Allow admits value if it has been seen before or there is still room.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if _, ok := cl.seen[value]; ok {
		return true
	}
	if len(cl.seen) >= cl.max {
		return false
	}
	cl.seen[value] = struct{}{}
	return true
}

// Count is the number of admitted values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.seen)
}
