package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odrlcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: 10s

validation:
  parallel: false
  require_policy: true
  max_graph_bytes: 0

history:
  enabled: true
  backend: memory

telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Validation.Parallel {
		t.Error("explicit parallel: false must be kept")
	}
	if !cfg.Validation.RequirePolicy {
		t.Error("expected require_policy true")
	}
	if cfg.Validation.MaxGraphBytes != 0 {
		t.Errorf("explicit max_graph_bytes 0 must be kept, got %d", cfg.Validation.MaxGraphBytes)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled: false must be kept")
	}
	if !cfg.History.SQLite.WALMode {
		t.Error("unset wal_mode should keep its default")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read configuration file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse configuration file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
history:
  enabled: true
  backend: postgres
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError in error chain, got %T: %v", err, err)
	}
	if validationErr.Errors[0].Field != "history.backend" {
		t.Errorf("expected history.backend error, got %v", validationErr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("ODRLCHECK_SERVER_LISTEN_ADDRESS", "0.0.0.0:9090")
	t.Setenv("ODRLCHECK_SERVER_READ_TIMEOUT", "45s")
	t.Setenv("ODRLCHECK_VALIDATION_PARALLEL", "false")
	t.Setenv("ODRLCHECK_VALIDATION_MAX_GRAPH_BYTES", "4096")
	t.Setenv("ODRLCHECK_HISTORY_SQLITE_DRIVER", "sqlite3")
	t.Setenv("ODRLCHECK_WATCH_EXTENSIONS", ".ttl, .turtle")
	t.Setenv("ODRLCHECK_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("ODRLCHECK_TELEMETRY_TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address from env, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("expected read timeout 45s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Validation.Parallel {
		t.Error("expected parallel disabled from env")
	}
	if cfg.Validation.MaxGraphBytes != 4096 {
		t.Errorf("expected max graph bytes 4096, got %d", cfg.Validation.MaxGraphBytes)
	}
	if cfg.History.SQLite.Driver != "sqlite3" {
		t.Errorf("expected driver sqlite3, got %q", cfg.History.SQLite.Driver)
	}
	if len(cfg.Watch.Extensions) != 2 || cfg.Watch.Extensions[1] != ".turtle" {
		t.Errorf("expected two extensions, got %v", cfg.Watch.Extensions)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level debug, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.25 {
		t.Errorf("expected sample ratio 0.25, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValues(t *testing.T) {
	path := writeConfig(t, "server:\n  read_timeout: 5s\n")

	t.Setenv("ODRLCHECK_SERVER_READ_TIMEOUT", "not-a-duration")
	t.Setenv("ODRLCHECK_SERVER_MAX_HEADER_BYTES", "lots")
	t.Setenv("ODRLCHECK_VALIDATION_PARALLEL", "maybe")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("invalid duration must be ignored, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxHeaderBytes != DefaultMaxHeaderBytes {
		t.Errorf("invalid integer must be ignored, got %d", cfg.Server.MaxHeaderBytes)
	}
	if !cfg.Validation.Parallel {
		t.Error("invalid boolean must be ignored")
	}
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("ODRLCHECK_TELEMETRY_LOGGING_FORMAT", "console")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	if cfg.Telemetry.Logging.Format != "console" {
		t.Errorf("expected console format, got %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidResult(t *testing.T) {
	t.Setenv("ODRLCHECK_TELEMETRY_LOGGING_LEVEL", "verbose")

	if _, err := LoadConfigWithEnvOverrides(""); err == nil {
		t.Fatal("expected validation error after env overrides")
	}
}
