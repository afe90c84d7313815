package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Upper bounds past which a value is almost certainly a typo.
const (
	maxHeaderBytesLimit = 10 << 20
	maxRetentionDays    = 3650
	maxCheckTimeout     = 60 * time.Second
)

// FieldError is one invalid value. Field is the dotted YAML path, e.g.
// "server.listen_address".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationError carries every FieldError found by Validate.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err)
	}
	return sb.String()
}

// fieldErrors accumulates problems so that one run reports all of them.
type fieldErrors []FieldError

func (fe *fieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg and returns a ValidationError listing every invalid
// field, or nil.
func Validate(cfg *Config) error {
	var errs fieldErrors
	validateServer(&errs, &cfg.Server)
	validateValidation(&errs, &cfg.Validation)
	validateHistory(&errs, &cfg.History)
	validateWatch(&errs, &cfg.Watch)
	validateTelemetry(&errs, &cfg.Telemetry)
	if len(errs) == 0 {
		return nil
	}
	return ValidationError{Errors: errs}
}

func validateServer(errs *fieldErrors, cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		errs.add("server.listen_address", "listen address is required")
	}
	for _, t := range []struct {
		field string
		d     time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
	} {
		if t.d < 0 {
			errs.add(t.field, "timeout must be positive")
		}
	}

	switch {
	case cfg.MaxHeaderBytes < 0:
		errs.add("server.max_header_bytes", "max header bytes must be non-negative")
	case cfg.MaxHeaderBytes > maxHeaderBytesLimit:
		errs.add("server.max_header_bytes", "max header bytes exceeds reasonable limit (10MB)")
	}
	if cfg.MaxBodyBytes < 0 {
		errs.add("server.max_body_bytes", "max body bytes must be non-negative")
	}

	if tls := cfg.TLS; tls.Enabled {
		if tls.CertFile == "" || tls.KeyFile == "" {
			errs.add("server.tls", "cert_file and key_file are required when TLS is enabled")
		}
		if tls.MinVersion != "1.2" && tls.MinVersion != "1.3" {
			errs.add("server.tls.min_version", "unsupported TLS version %q (use 1.2 or 1.3)", tls.MinVersion)
		}
		if !slices.Contains([]string{"require", "verify_if_given", "request"}, tls.ClientAuth) {
			errs.add("server.tls.client_auth", "unknown client auth %q", tls.ClientAuth)
		}
		if tls.ReloadInterval < 0 {
			errs.add("server.tls.reload_interval", "reload interval must be non-negative")
		}
	}

	if cfg.Auth.Enabled {
		if len(cfg.Auth.Keys) == 0 {
			errs.add("server.auth.keys", "at least one API key is required when auth is enabled")
		}
		seen := map[string]bool{}
		for i, k := range cfg.Auth.Keys {
			field := fmt.Sprintf("server.auth.keys[%d]", i)
			switch {
			case k.Name == "":
				errs.add(field+".name", "key name is required")
			case seen[k.Name]:
				errs.add(field+".name", "duplicate key name %q", k.Name)
			}
			seen[k.Name] = true
			if k.Key == "" && k.KeyEnv == "" {
				errs.add(field, "key or key_env is required")
			}
		}
	}

	if rl := cfg.RateLimit; rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			errs.add("server.rate_limit.requests_per_second", "requests per second must be positive")
		}
		if rl.Burst < 1 {
			errs.add("server.rate_limit.burst", "burst must be at least 1")
		}
		if rl.MaxConcurrent < 0 {
			errs.add("server.rate_limit.max_concurrent", "max concurrent must be non-negative")
		}
	}
}

func validateValidation(errs *fieldErrors, cfg *ValidationConfig) {
	if cfg.MaxGraphBytes < 0 {
		errs.add("validation.max_graph_bytes", "max graph bytes must be non-negative (0 disables the limit)")
	}
}

func validateHistory(errs *fieldErrors, cfg *HistoryConfig) {
	if !cfg.Enabled {
		return
	}

	switch cfg.Backend {
	case "memory":
		if cfg.MaxMemoryRecords < 0 {
			errs.add("history.max_memory_records", "max memory records must be non-negative")
		}
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs.add("history.sqlite.path", "SQLite path is required when backend is 'sqlite'")
		}
		if d := cfg.SQLite.Driver; d != "sqlite" && d != "sqlite3" {
			errs.add("history.sqlite.driver", "invalid SQLite driver %q: must be 'sqlite' or 'sqlite3'", d)
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs.add("history.sqlite.max_open_conns", "max open connections must be at least 1")
		}
	case "":
		errs.add("history.backend", "backend is required when history is enabled")
	default:
		errs.add("history.backend", "invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend)
	}

	r := cfg.Retention
	switch {
	case r.Days < 0:
		errs.add("history.retention.days", "retention days must be non-negative")
	case r.Days > maxRetentionDays:
		errs.add("history.retention.days", "retention days exceeds reasonable limit (%d days)", maxRetentionDays)
	}
	if r.MaxRecords < 0 {
		errs.add("history.retention.max_records", "max records must be non-negative")
	}
	if r.PruneSchedule != "" {
		if _, err := cron.ParseStandard(r.PruneSchedule); err != nil {
			errs.add("history.retention.prune_schedule", "invalid cron expression %q: %v", r.PruneSchedule, err)
		}
	}
}

func validateWatch(errs *fieldErrors, cfg *WatchConfig) {
	if cfg.Debounce < 0 {
		errs.add("watch.debounce", "debounce must be non-negative")
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || filepath.Base(ext) != ext {
			errs.add(fmt.Sprintf("watch.extensions[%d]", i), "invalid extension %q: must look like '.ttl'", ext)
		}
	}
}

// oneOf reports a required enum field that is empty or not in allowed.
func oneOf(errs *fieldErrors, field, what, value string, allowed ...string) {
	switch {
	case value == "":
		errs.add(field, "%s is required", what)
	case !slices.Contains(allowed, value):
		errs.add(field, "invalid %s %q: must be one of %s", what, value, strings.Join(allowed, ", "))
	}
}

func validateTelemetry(errs *fieldErrors, cfg *TelemetryConfig) {
	oneOf(errs, "telemetry.logging.level", "logging level", cfg.Logging.Level, "debug", "info", "warn", "error")
	oneOf(errs, "telemetry.logging.format", "logging format", cfg.Logging.Format, "json", "text", "console")
	for i, p := range cfg.Logging.RedactPatterns {
		if p.Pattern == "" {
			errs.add(fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i), "pattern is required")
		}
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" {
			errs.add("telemetry.metrics.path", "metrics path is required when metrics are enabled")
		} else if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs.add("telemetry.metrics.path", "metrics path must start with /")
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs.add("telemetry.tracing.endpoint", "tracing endpoint is required when tracing is enabled")
	}
	if !slices.Contains([]string{"always", "never", "ratio"}, cfg.Tracing.Sampler) {
		errs.add("telemetry.tracing.sampler", "invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler)
	}
	if r := cfg.Tracing.SampleRatio; r < 0 || r > 1 {
		errs.add("telemetry.tracing.sample_ratio", "sample ratio must be between 0.0 and 1.0")
	}

	if p := cfg.Health.LivenessPath; p != "" && !strings.HasPrefix(p, "/") {
		errs.add("telemetry.health.liveness_path", "liveness path must start with /")
	}
	if p := cfg.Health.ReadinessPath; p != "" && !strings.HasPrefix(p, "/") {
		errs.add("telemetry.health.readiness_path", "readiness path must start with /")
	}
	if cfg.Health.CheckTimeout > maxCheckTimeout {
		errs.add("telemetry.health.check_timeout", "check timeout exceeds reasonable limit (%s)", maxCheckTimeout)
	}
}
