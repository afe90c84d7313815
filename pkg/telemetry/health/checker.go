package health

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// Status values reported by checks and probes.
const (
	StatusOK        = "ok"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const defaultCheckTimeout = 5 * time.Second

// CheckFunc reports whether a component can serve validations.
// A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one CheckFunc.
type CheckResult struct {
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// HealthStatus is the body served by the probe endpoints. Checks is only
// populated for readiness.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Checker holds the named readiness checks of the server.
type Checker struct {
	mu           sync.RWMutex
	checks       map[string]CheckFunc
	checkTimeout time.Duration
}

// New returns a Checker that bounds each check by checkTimeout
// (5s when zero).
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}
	return &Checker{checks: map[string]CheckFunc{}, checkTimeout: checkTimeout}
}

// RegisterCheck adds or replaces the check for name.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	c.checks[name] = check
	c.mu.Unlock()
}

// UnregisterCheck removes the check for name.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	delete(c.checks, name)
	c.mu.Unlock()
}

// ListChecks returns the registered check names in sorted order.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.checks))
}

// CheckLiveness always succeeds while the process can answer.
func (c *Checker) CheckLiveness(context.Context) HealthStatus {
	return HealthStatus{Status: StatusOK, Timestamp: time.Now()}
}

// CheckReadiness runs every registered check in parallel. Any unhealthy
// result degrades the aggregate status.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	snapshot := maps.Clone(c.checks)
	c.mu.RUnlock()

	type outcome struct {
		name   string
		result CheckResult
	}
	out := make(chan outcome, len(snapshot))
	for name, check := range snapshot {
		go func() {
			out <- outcome{name: name, result: c.run(ctx, check)}
		}()
	}

	status := HealthStatus{
		Status: StatusReady,
		Checks: make(map[string]CheckResult, len(snapshot)),
	}
	for range snapshot {
		o := <-out
		status.Checks[o.name] = o.result
		if o.result.Status == StatusUnhealthy {
			status.Status = StatusDegraded
		}
	}
	status.Timestamp = time.Now()
	return status
}

func (c *Checker) run(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- check(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		return CheckResult{Status: StatusUnhealthy, Message: "health check timeout", Duration: time.Since(start)}
	}

	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Duration: time.Since(start)}
	}
	return CheckResult{Status: StatusOK, Duration: time.Since(start)}
}
