package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/history"
	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/server/handlers"
)

// useConfig installs a default configuration as the global one for the test.
func useConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Telemetry.Logging.Level = "error"
	if mutate != nil {
		mutate(cfg)
	}
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(nil) })
	return cfg
}

func resetValidateFlags() {
	validateFlags.file = ""
	validateFlags.dir = ""
	validateFlags.input = ""
	validateFlags.inputFile = ""
	validateFlags.format = "text"
	validateFlags.strict = false
	validateFlags.record = false
}

func TestValidatePolicies(t *testing.T) {
	useConfig(t, nil)

	tests := []struct {
		name        string
		file        string
		format      string
		wantInvalid bool
		wantErr     bool
		wantOut     string
	}{
		{"valid file", "testdata/valid-policy.ttl", "text", false, false, "✓ testdata/valid-policy.ttl: valid (1 policies)"},
		{"invalid file", "testdata/invalid-policy.ttl", "text", true, false, issues.TypeInvalidOperator},
		{"markdown", "testdata/invalid-policy.ttl", "markdown", true, false, "**Status:** FAILED"},
		{"nonexistent file", "testdata/nonexistent.ttl", "text", false, true, ""},
		{"unknown format", "testdata/valid-policy.ttl", "yaml", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetValidateFlags()
			validateFlags.file = tt.file
			validateFlags.format = tt.format

			var out bytes.Buffer
			err := validatePolicies(context.Background(), &out)

			switch {
			case tt.wantInvalid:
				if !errors.Is(err, cli.ErrInvalidPolicy) {
					t.Fatalf("validatePolicies() = %v, want ErrInvalidPolicy", err)
				}
			case tt.wantErr:
				if err == nil || errors.Is(err, cli.ErrInvalidPolicy) {
					t.Fatalf("validatePolicies() = %v, want a command error", err)
				}
			default:
				if err != nil {
					t.Fatalf("validatePolicies() = %v", err)
				}
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output does not contain %q:\n%s", tt.wantOut, out.String())
			}
		})
	}
}

func TestValidatePoliciesNoFileOrDir(t *testing.T) {
	useConfig(t, nil)
	resetValidateFlags()

	if err := validatePolicies(context.Background(), &bytes.Buffer{}); err == nil {
		t.Error("validatePolicies() without file or dir should return error")
	}
}

func TestValidatePoliciesDirectoryJSON(t *testing.T) {
	useConfig(t, nil)
	resetValidateFlags()
	validateFlags.dir = "testdata/policies"
	validateFlags.inputFile = "testdata/request.txt"
	validateFlags.format = "json"

	var out bytes.Buffer
	err := validatePolicies(context.Background(), &out)
	if cli.ExitCode(err) != cli.ExitInvalid {
		t.Fatalf("exit code = %d (%v), want %d", cli.ExitCode(err), err, cli.ExitInvalid)
	}

	var results []FileResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (.txt must be skipped)", len(results))
	}
	if results[0].File != filepath.Join("testdata", "policies", "a.ttl") || !results[0].Report.IsValid {
		t.Errorf("first result = %s valid=%v", results[0].File, results[0].Report.IsValid)
	}
	if results[1].File != filepath.Join("testdata", "policies", "nested", "b.ttl") || results[1].Report.IsValid {
		t.Errorf("second result = %s valid=%v", results[1].File, results[1].Report.IsValid)
	}
	if !strings.HasPrefix(results[0].Report.UserText, "Allow reading the dataset") {
		t.Errorf("user text = %q, want the contents of --input-file", results[0].Report.UserText)
	}
}

func TestValidateRecordAndHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	useConfig(t, func(cfg *config.Config) {
		cfg.History.Backend = "sqlite"
		cfg.History.SQLite.Path = dbPath
	})

	resetValidateFlags()
	validateFlags.dir = "testdata/policies"
	validateFlags.record = true
	if err := validatePolicies(context.Background(), &bytes.Buffer{}); !errors.Is(err, cli.ErrInvalidPolicy) {
		t.Fatalf("validatePolicies() = %v", err)
	}

	historyFlags.backend = ""
	historyFlags.limit = history.DefaultLimit
	historyFlags.source = ""
	historyFlags.valid = "false"
	historyFlags.since = ""
	historyFlags.until = ""
	historyFlags.format = "json"

	var out bytes.Buffer
	if err := listHistory(context.Background(), &out); err != nil {
		t.Fatalf("listHistory() = %v", err)
	}
	var records []*history.Record
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("history list is not JSON: %v\n%s", err, out.String())
	}
	if len(records) != 1 {
		t.Fatalf("got %d invalid records, want 1", len(records))
	}
	rec := records[0]
	if rec.Source != "cli:"+filepath.Join("testdata", "policies", "nested", "b.ttl") || rec.Valid {
		t.Errorf("record = %+v", rec)
	}

	historyFlags.valid = ""
	historyFlags.format = "csv"
	out.Reset()
	if err := listHistory(context.Background(), &out); err != nil {
		t.Fatalf("listHistory(csv) = %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(out.String()), "\n"); lines != 2 {
		t.Errorf("csv has %d data rows, want 2:\n%s", lines, out.String())
	}

	historyFlags.showFormat = "markdown"
	out.Reset()
	if err := showHistory(context.Background(), &out, rec.ID); err != nil {
		t.Fatalf("showHistory() = %v", err)
	}
	if !strings.Contains(out.String(), "### "+issues.TypeInvalidOperator) {
		t.Errorf("history show markdown:\n%s", out.String())
	}

	if err := showHistory(context.Background(), &out, "missing"); err == nil {
		t.Error("showHistory() of an unknown id should fail")
	}

	historyFlags.days = -1
	historyFlags.maxRecords = 1
	out.Reset()
	if err := pruneHistory(context.Background(), &out); err != nil {
		t.Fatalf("pruneHistory() = %v", err)
	}
	if !strings.Contains(out.String(), "Deleted 1 record(s)") {
		t.Errorf("prune output = %q", out.String())
	}
}

func TestBuildHistoryQuery(t *testing.T) {
	historyFlags.limit = 0
	historyFlags.source = "api"
	historyFlags.valid = "maybe"
	historyFlags.since = ""
	historyFlags.until = ""
	if _, err := buildHistoryQuery(); err == nil {
		t.Error("--valid=maybe should be rejected")
	}

	historyFlags.valid = "true"
	historyFlags.since = "2026-01-01T00:00:00Z"
	q, err := buildHistoryQuery()
	if err != nil {
		t.Fatal(err)
	}
	if q.Limit != history.DefaultLimit || q.Valid == nil || !*q.Valid || q.Since == nil || q.Source != "api" {
		t.Errorf("query = %+v", q)
	}

	historyFlags.since = "yesterday"
	if _, err := buildHistoryQuery(); err == nil {
		t.Error("invalid --since should be rejected")
	}
}

func TestListOperands(t *testing.T) {
	useConfig(t, nil)

	operandsFlags.format = "text"
	var out bytes.Buffer
	if err := listOperands(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "OPERAND") || !strings.Contains(out.String(), "dateTime") {
		t.Errorf("text output:\n%s", out.String())
	}

	operandsFlags.format = "json"
	out.Reset()
	if err := listOperands(&out); err != nil {
		t.Fatal(err)
	}
	var resp handlers.OperandsResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count == 0 || resp.Count != len(resp.Operands) {
		t.Errorf("json count = %d, operands = %d", resp.Count, len(resp.Operands))
	}
}

func TestPrintShapes(t *testing.T) {
	useConfig(t, nil)

	shapesFlags.module = ""
	var out bytes.Buffer
	if err := printShapes(&out); err != nil {
		t.Fatal(err)
	}
	all := strings.Count(out.String(), "a sh:NodeShape")
	if all == 0 || !strings.HasPrefix(out.String(), "@prefix") {
		t.Fatalf("shapes output:\n%s", out.String())
	}

	shapesFlags.module = "PolicyStructure"
	out.Reset()
	if err := printShapes(&out); err != nil {
		t.Fatal(err)
	}
	if one := strings.Count(out.String(), "a sh:NodeShape"); one == 0 || one >= all {
		t.Errorf("module filter printed %d of %d shapes", one, all)
	}

	shapesFlags.module = "Nope"
	if err := printShapes(&out); err == nil {
		t.Error("unknown module should fail")
	}
}

func TestBuildServerDependencies(t *testing.T) {
	cfg := useConfig(t, func(cfg *config.Config) {
		cfg.History.Enabled = true
		cfg.History.Backend = "memory"
	})

	deps, cleanup, err := buildServerDependencies(context.Background(), cfg, slog.New(slog.DiscardHandler))
	defer cleanup()
	if err != nil {
		t.Fatalf("buildServerDependencies() = %v", err)
	}
	if deps.Validator == nil || deps.Health == nil || deps.Metrics == nil || deps.History == nil || deps.Recorder == nil {
		t.Fatalf("missing dependency: %+v", deps)
	}
	if deps.Tracer != nil {
		t.Error("tracer set although tracing is disabled")
	}

	checks := strings.Join(deps.Health.ListChecks(), ",")
	if checks != "history,registry,validator" {
		t.Errorf("health checks = %s", checks)
	}
	if status := deps.Health.CheckReadiness(context.Background()); status.Status != "ready" {
		t.Errorf("readiness = %+v", status)
	}
}

func TestVersionInfo(t *testing.T) {
	orig := Version
	Version = "0.1.0-test"
	defer func() { Version = orig }()

	if info := versionInfo(); info.Version != "0.1.0-test" || info.GoVersion == "" {
		t.Errorf("versionInfo() = %+v", info)
	}
	if versionCmd == nil || versionCmd.Use != "version" {
		t.Error("version command not initialized")
	}

	var out bytes.Buffer
	if err := printVersion(&out, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "odrlcheck 0.1.0-test\n") {
		t.Errorf("text version = %q", out.String())
	}

	out.Reset()
	if err := printVersion(&out, "json"); err != nil {
		t.Fatal(err)
	}
	var info map[string]any
	if err := json.Unmarshal(out.Bytes(), &info); err != nil || info["version"] != "0.1.0-test" {
		t.Errorf("json version = %q (%v)", out.String(), err)
	}

	if err := printVersion(&out, "csv"); err == nil {
		t.Error("csv should be rejected")
	}
}

func TestPolicyCheckerCheck(t *testing.T) {
	cfg := useConfig(t, nil)
	v, err := newValidator(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := &policyChecker{validator: v, out: &out, logger: slog.New(slog.DiscardHandler)}

	c.check(context.Background(), "testdata/invalid-policy.ttl")
	c.check(context.Background(), "testdata/gone.ttl")

	want := []string{
		"✗ testdata/invalid-policy.ttl: 1 violation(s), 0 warning(s)",
		issues.TypeInvalidOperator,
		"- testdata/gone.ttl: removed",
	}
	for _, w := range want {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output does not contain %q:\n%s", w, out.String())
		}
	}
}

func TestWatchPoliciesRequiresDir(t *testing.T) {
	watchFlags.dir = ""
	if err := watchPolicies(context.Background(), &bytes.Buffer{}); err == nil {
		t.Error("watchPolicies() without --dir should fail")
	}
}
