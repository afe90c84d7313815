package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg *Config
}

// NewTestConfig creates a new ConfigBuilder with sensible defaults for testing.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: NewConfig()}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithListenAddress sets the server listen address.
func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

// WithReadTimeout sets the server read timeout.
func (b *ConfigBuilder) WithReadTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Server.ReadTimeout = d
	return b
}

// WithMaxGraphBytes sets the validation graph size limit.
func (b *ConfigBuilder) WithMaxGraphBytes(n int) *ConfigBuilder {
	b.cfg.Validation.MaxGraphBytes = n
	return b
}

// WithHistory enables history with the given backend.
func (b *ConfigBuilder) WithHistory(backend string) *ConfigBuilder {
	b.cfg.History.Enabled = true
	b.cfg.History.Backend = backend
	return b
}

// WithSQLite sets the SQLite path and driver.
func (b *ConfigBuilder) WithSQLite(path, driver string) *ConfigBuilder {
	b.cfg.History.SQLite.Path = path
	b.cfg.History.SQLite.Driver = driver
	return b
}

// WithPruneSchedule sets the retention cron expression.
func (b *ConfigBuilder) WithPruneSchedule(expr string) *ConfigBuilder {
	b.cfg.History.Retention.PruneSchedule = expr
	return b
}

// WithLoggingLevel sets the logging level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithTracingEnabled enables tracing with the given endpoint.
func (b *ConfigBuilder) WithTracingEnabled(enabled bool, endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = enabled
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
