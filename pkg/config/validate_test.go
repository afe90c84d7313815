package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(MinimalConfig()); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("").
		WithLoggingLevel("loud").
		Build()
	cfg.Telemetry.Tracing.SampleRatio = 2

	err := Validate(cfg)
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "negative read timeout",
			modify:    func(c *Config) { c.Server.ReadTimeout = -time.Second },
			wantField: "server.read_timeout",
		},
		{
			name:      "excessive header bytes",
			modify:    func(c *Config) { c.Server.MaxHeaderBytes = 11 * 1024 * 1024 },
			wantField: "server.max_header_bytes",
		},
		{
			name:      "tls without files",
			modify:    func(c *Config) { c.Server.TLS.Enabled = true },
			wantField: "server.tls",
		},
		{
			name: "tls 1.1",
			modify: func(c *Config) {
				c.Server.TLS.Enabled = true
				c.Server.TLS.MinVersion = "1.1"
			},
			wantField: "server.tls.min_version",
		},
		{
			name:      "auth without keys",
			modify:    func(c *Config) { c.Server.Auth.Enabled = true },
			wantField: "server.auth.keys",
		},
		{
			name: "auth key without secret",
			modify: func(c *Config) {
				c.Server.Auth.Enabled = true
				c.Server.Auth.Keys = []APIKeyConfig{{Name: "ci"}}
			},
			wantField: "server.auth.keys[0]",
		},
		{
			name: "duplicate auth key name",
			modify: func(c *Config) {
				c.Server.Auth.Enabled = true
				c.Server.Auth.Keys = []APIKeyConfig{{Name: "ci", Key: "a"}, {Name: "ci", Key: "b"}}
			},
			wantField: "server.auth.keys[1].name",
		},
		{
			name: "zero rate limit",
			modify: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.RequestsPerSecond = -1
			},
			wantField: "server.rate_limit.requests_per_second",
		},
		{
			name:      "negative graph bytes",
			modify:    func(c *Config) { c.Validation.MaxGraphBytes = -1 },
			wantField: "validation.max_graph_bytes",
		},
		{
			name: "unknown history backend",
			modify: func(c *Config) {
				c.History.Enabled = true
				c.History.Backend = "s3"
			},
			wantField: "history.backend",
		},
		{
			name: "unknown sqlite driver",
			modify: func(c *Config) {
				c.History.Enabled = true
				c.History.SQLite.Driver = "postgres"
			},
			wantField: "history.sqlite.driver",
		},
		{
			name: "bad cron expression",
			modify: func(c *Config) {
				c.History.Enabled = true
				c.History.Retention.PruneSchedule = "every day"
			},
			wantField: "history.retention.prune_schedule",
		},
		{
			name:      "extension without dot",
			modify:    func(c *Config) { c.Watch.Extensions = []string{"ttl"} },
			wantField: "watch.extensions[0]",
		},
		{
			name:      "unknown log format",
			modify:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name:      "metrics path without slash",
			modify:    func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "tracing without endpoint",
			modify:    func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "unknown sampler",
			modify:    func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" },
			wantField: "telemetry.tracing.sampler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			var validationErr ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, validationErr.Errors)
			}
		})
	}
}

func TestValidate_DisabledHistorySkipsChecks(t *testing.T) {
	cfg := MinimalConfig()
	cfg.History.Backend = "s3"
	if err := Validate(cfg); err != nil {
		t.Errorf("disabled history should not be validated: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "broken"}}}
	if got := single.Error(); got != "configuration validation failed: a: broken" {
		t.Errorf("unexpected single error message: %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: y") {
		t.Errorf("unexpected multi error message: %q", got)
	}

	if got := (ValidationError{}).Error(); got != "configuration validation failed" {
		t.Errorf("unexpected empty error message: %q", got)
	}
}
