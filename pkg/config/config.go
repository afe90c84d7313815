package config

import "time"

// Config is the root of odrlcheck.yaml. Defaults live in defaults.go.
// It contains the HTTP server, validation engine, operand registry,
// validation history, file watcher and telemetry settings.
type Config struct {
	// Server contains HTTP API server configuration including listen address,
	// timeouts and request size limits.
	Server ServerConfig `yaml:"server"`

	// Validation contains settings of the validation engine.
	Validation ValidationConfig `yaml:"validation"`

	// Registry contains operand registry settings.
	Registry RegistryConfig `yaml:"registry"`

	// History contains configuration for the validation history store
	// including backend selection and retention.
	History HistoryConfig `yaml:"history"`

	// Watch contains configuration for the policy file watcher.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// TLS serves the API over HTTPS.
	TLS TLSConfig `yaml:"tls"`

	// Auth protects the /v1/ endpoints with API keys.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit throttles /v1/ requests per client.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// TLSConfig contains HTTPS settings of the API server.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	Enabled bool `yaml:"enabled"`

	// CertFile and KeyFile are PEM files. They are re-read when they change,
	// so certificates can be renewed without a restart.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// MinVersion is "1.2" or "1.3".
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked.
	ReloadInterval time.Duration `yaml:"reload_interval"`

	// ClientCAFile enables client certificate authentication (mTLS) against
	// the PEM CA bundle.
	ClientCAFile string `yaml:"client_ca_file"`

	// ClientAuth is "require", "verify_if_given" or "request".
	ClientAuth string `yaml:"client_auth"`
}

// AuthConfig contains API key authentication settings.
type AuthConfig struct {
	// Enabled requires a valid key on every /v1/ request.
	Enabled bool `yaml:"enabled"`

	// Header carries the key.
	Header string `yaml:"header"`

	// Scheme is the prefix stripped from the header value, e.g. "Bearer".
	// Empty means the header holds the bare key.
	Scheme string `yaml:"scheme"`

	// Keys are the accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig describes one API key.
type APIKeyConfig struct {
	// Name identifies the client in logs and rate limits.
	Name string `yaml:"name"`

	// Key is the secret. KeyEnv names an environment variable holding it
	// instead and takes precedence when set.
	Key    string `yaml:"key"`
	KeyEnv string `yaml:"key_env"`

	// Disabled keys are rejected.
	Disabled bool `yaml:"disabled"`
}

// RateLimitConfig contains per-client request limits. Clients are identified
// by API key name when authentication is enabled, by remote IP otherwise.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests a client may send at once.
	Burst int `yaml:"burst"`

	// MaxConcurrent limits in-flight requests per client. 0 is unlimited.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// ValidationConfig contains settings of the validation engine.
type ValidationConfig struct {
	// Parallel evaluates the rule modules concurrently.
	Parallel bool `yaml:"parallel"`

	// RequirePolicy reports a "Missing Policy" violation for graphs that
	// contain no policy resource.
	RequirePolicy bool `yaml:"require_policy"`

	// MaxGraphBytes is the largest graph accepted for validation.
	// 0 means unlimited.
	MaxGraphBytes int `yaml:"max_graph_bytes"`
}

// RegistryConfig contains operand registry settings.
type RegistryConfig struct {
	// ExtensionsFile is a YAML file with additional left operands
	// (for example a domain profile). Empty means the ODRL vocabulary only.
	ExtensionsFile string `yaml:"extensions_file"`
}

// HistoryConfig contains configuration for the validation history store.
type HistoryConfig struct {
	// Enabled controls whether validation results are recorded.
	Enabled bool `yaml:"enabled"`

	// Backend specifies the storage backend.
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains record retention configuration.
	Retention RetentionConfig `yaml:"retention"`

	// MaxMemoryRecords caps the memory backend.
	MaxMemoryRecords int `yaml:"max_memory_records"`
}

// SQLiteConfig contains configuration for the SQLite history backend.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open database connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains history retention configuration.
type RetentionConfig struct {
	// Days is the number of days to retain records.
	// 0 means keep records forever.
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduling pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig contains configuration for the policy file watcher.
type WatchConfig struct {
	// Debounce is how long to wait after the last change event before
	// re-validating.
	Debounce time.Duration `yaml:"debounce"`

	// Extensions lists the file extensions that are validated.
	Extensions []string `yaml:"extensions"`
}

// TelemetryConfig contains configuration for observability features.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	Level string `yaml:"level"`

	// Format controls the log output format.
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// RedactPII enables redaction of e-mail addresses, API keys and other
	// sensitive values that may appear in user text.
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`

	// DurationBuckets defines histogram buckets for validation duration (seconds).
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// LivenessPath is the path for the liveness probe endpoint.
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
