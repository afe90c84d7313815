package config

import (
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if !cfg.Validation.Parallel {
		t.Error("expected parallel validation by default")
	}
	if cfg.Validation.RequirePolicy {
		t.Error("expected require_policy to be off by default")
	}
	if cfg.Validation.MaxGraphBytes != DefaultMaxGraphBytes {
		t.Errorf("expected max graph bytes %d, got %d", DefaultMaxGraphBytes, cfg.Validation.MaxGraphBytes)
	}
	if !cfg.History.SQLite.WALMode {
		t.Error("expected WAL mode by default")
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.Namespace != "odrlcheck" {
		t.Errorf("unexpected metrics defaults: %+v", cfg.Telemetry.Metrics)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 1.0 {
		t.Errorf("expected sample ratio 1.0, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
	if len(cfg.Watch.Extensions) != 1 || cfg.Watch.Extensions[0] != ".ttl" {
		t.Errorf("expected watch extensions [.ttl], got %v", cfg.Watch.Extensions)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration should be valid: %v", err)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	ApplyDefaults(cfg)

	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("expected read timeout %v, got %v", DefaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
		t.Errorf("duration buckets applied twice: %v", cfg.Telemetry.Metrics.DurationBuckets)
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = "0.0.0.0:9999"
	cfg.Watch.Debounce = time.Second
	cfg.History.SQLite.Driver = "sqlite3"
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce overwritten: %v", cfg.Watch.Debounce)
	}
	if cfg.History.SQLite.Driver != "sqlite3" {
		t.Errorf("driver overwritten: %q", cfg.History.SQLite.Driver)
	}
}

func TestConfigBuilder_ChainedCalls(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("0.0.0.0:9090").
		WithMaxGraphBytes(2048).
		WithHistory("sqlite").
		WithSQLite("/tmp/h.db", "sqlite3").
		WithLoggingLevel("debug").
		Build()

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Validation.MaxGraphBytes != 2048 {
		t.Errorf("expected max graph bytes 2048, got %d", cfg.Validation.MaxGraphBytes)
	}
	if !cfg.History.Enabled || cfg.History.SQLite.Driver != "sqlite3" {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("built configuration should be valid: %v", err)
	}
}
