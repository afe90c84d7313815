package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 4194304 // 4MB
	DefaultTLSMinVersion   = "1.2"
	DefaultTLSReload       = 5 * time.Minute
	DefaultTLSClientAuth   = "require"
	DefaultAuthHeader      = "Authorization"
	DefaultAuthScheme      = "Bearer"
	DefaultRateLimitRPS    = 10
	DefaultRateLimitBurst  = 20

	// Validation defaults
	DefaultValidationParallel      = true
	DefaultValidationRequirePolicy = false
	DefaultMaxGraphBytes           = 1048576 // 1MB

	// History defaults
	DefaultHistoryEnabled           = false
	DefaultHistoryBackend           = "sqlite"
	DefaultHistorySQLitePath        = "data/history.db"
	DefaultHistorySQLiteDriver      = "sqlite"
	DefaultHistorySQLiteMaxOpen     = 10
	DefaultHistorySQLiteMaxIdle     = 5
	DefaultHistorySQLiteWALMode     = true
	DefaultHistorySQLiteBusyTimeout = 5 * time.Second
	DefaultHistoryRetentionDays     = 30
	DefaultHistoryRetentionSchedule = "0 3 * * *"
	DefaultHistoryMaxMemoryRecords  = 10000

	// Watch defaults
	DefaultWatchDebounce = 100 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "json"
	DefaultLoggingRedactPII    = true
	DefaultMetricsEnabled      = true
	DefaultMetricsPath         = "/metrics"
	DefaultMetricsNamespace    = "odrlcheck"
	DefaultTracingEnabled      = false
	DefaultTracingSampler      = "ratio"
	DefaultTracingSampleRatio  = 1.0
	DefaultTracingServiceName  = "odrlcheck"
	DefaultTracingInsecure     = true
	DefaultTracingTimeout      = 10 * time.Second
	DefaultHealthLivenessPath  = "/health"
	DefaultHealthReadinessPath = "/ready"
	DefaultHealthCheckTimeout  = 5 * time.Second
)

// DefaultWatchExtensions lists the file extensions the watcher validates by default.
var DefaultWatchExtensions = []string{".ttl"}

// DefaultDurationBuckets are the histogram buckets (seconds) for validation timings.
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}

// NewConfig returns a Config holding every default value.
//
// Boolean settings can only be defaulted before a file is decoded, since
// false is a legitimate explicit value. LoadConfig therefore decodes YAML on
// top of NewConfig and then calls ApplyDefaults for the remaining zero values.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Server.Auth.Scheme = DefaultAuthScheme
	cfg.Validation.Parallel = DefaultValidationParallel
	cfg.Validation.RequirePolicy = DefaultValidationRequirePolicy
	cfg.History.Enabled = DefaultHistoryEnabled
	cfg.History.SQLite.WALMode = DefaultHistorySQLiteWALMode
	cfg.Telemetry.Logging.RedactPII = DefaultLoggingRedactPII
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	cfg.Validation.MaxGraphBytes = DefaultMaxGraphBytes
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == 0 {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReload
	}
	if cfg.Server.TLS.ClientAuth == "" {
		cfg.Server.TLS.ClientAuth = DefaultTLSClientAuth
	}
	if cfg.Server.Auth.Header == "" {
		cfg.Server.Auth.Header = DefaultAuthHeader
	}
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = DefaultRateLimitBurst
	}

	// History defaults
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.History.SQLite.Driver == "" {
		cfg.History.SQLite.Driver = DefaultHistorySQLiteDriver
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultHistorySQLiteMaxOpen
	}
	if cfg.History.SQLite.MaxIdleConns == 0 {
		cfg.History.SQLite.MaxIdleConns = DefaultHistorySQLiteMaxIdle
	}
	if cfg.History.SQLite.BusyTimeout == 0 {
		cfg.History.SQLite.BusyTimeout = DefaultHistorySQLiteBusyTimeout
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultHistoryRetentionDays
	}
	if cfg.History.Retention.PruneSchedule == "" {
		cfg.History.Retention.PruneSchedule = DefaultHistoryRetentionSchedule
	}
	if cfg.History.MaxMemoryRecords == 0 {
		cfg.History.MaxMemoryRecords = DefaultHistoryMaxMemoryRecords
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}

	// Health defaults
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultHealthLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultHealthReadinessPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
