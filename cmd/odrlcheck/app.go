package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/history"
	"mercator-hq/odrlcheck/pkg/history/recorder"
	"mercator-hq/odrlcheck/pkg/history/retention"
	"mercator-hq/odrlcheck/pkg/history/storage"
	"mercator-hq/odrlcheck/pkg/odrl/registry"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
	"mercator-hq/odrlcheck/pkg/telemetry/logging"
)

// loadConfig returns the global configuration, loading it from --config and
// the environment on first use.
func loadConfig() (*config.Config, error) {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg, nil
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return config.GetConfig(), nil
}

// newLogger builds the process logger. Logs go to w so that command output
// on stdout stays machine-readable.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	lc := logging.FromConfig(&cfg.Telemetry.Logging, w)
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.Registry.ExtensionsFile == "" {
		return registry.Default(), nil
	}
	reg, err := registry.LoadFile(cfg.Registry.ExtensionsFile)
	if err != nil {
		return nil, cli.NewConfigError("registry.extensions_file", err.Error())
	}
	return reg, nil
}

// newValidator builds a validator from the validation and registry settings.
func newValidator(cfg *config.Config, logger *slog.Logger, opts ...validator.Option) (*validator.Validator, error) {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	base := []validator.Option{
		validator.WithRegistry(reg),
		validator.WithParallel(cfg.Validation.Parallel),
		validator.WithRequirePolicy(cfg.Validation.RequirePolicy),
		validator.WithMaxGraphBytes(cfg.Validation.MaxGraphBytes),
		validator.WithLogger(logger),
	}
	return validator.New(append(base, opts...)...), nil
}

// historySink bundles a history backend with the recorder writing to it.
type historySink struct {
	storage  history.Storage
	recorder *recorder.Recorder
}

func openHistory(cfg *config.Config) (*historySink, error) {
	store, err := storage.Open(&cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return &historySink{
		storage:  store,
		recorder: recorder.New(store, recorder.DefaultConfig()),
	}, nil
}

// Close flushes queued records and closes the backend.
func (h *historySink) Close() error {
	if h == nil {
		return nil
	}
	if err := h.recorder.Close(); err != nil {
		h.storage.Close()
		return err
	}
	return h.storage.Close()
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newPruner(cfg *config.Config, store history.Storage) *retention.Pruner {
	return retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.History.Retention.Days,
		PruneSchedule: cfg.History.Retention.PruneSchedule,
		MaxRecords:    cfg.History.Retention.MaxRecords,
	})
}
