package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
	"mercator-hq/odrlcheck/pkg/server"
	"mercator-hq/odrlcheck/pkg/telemetry/health"
	"mercator-hq/odrlcheck/pkg/telemetry/metrics"
	"mercator-hq/odrlcheck/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation API server",
	Long: `Start the HTTP API server with the specified configuration.

Endpoints:
  POST /v1/validate            validation report (JSON)
  POST /v1/validate/feedback   feedback document (Markdown)
  GET  /v1/operands            operand registry
  GET  /v1/history[/{id}]      validation history (history.enabled)
  GET  /health, /ready         probes
  GET  /metrics                Prometheus metrics (telemetry.metrics.enabled)
  GET  /version                build information

Examples:
  # Start with defaults
  odrlcheck serve

  # Start with a config file
  odrlcheck serve --config /etc/odrlcheck/config.yaml

  # Override listen address
  odrlcheck serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  odrlcheck serve --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}
	logger.SetDefault()

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	deps, cleanup, err := buildServerDependencies(ctx, cfg, logger.Slog())
	defer cleanup()
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	logger.Info("odrlcheck starting",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"operands", deps.Validator.Registry().Len(),
		"history", cfg.History.Enabled,
		"auth", cfg.Server.Auth.Enabled,
		"rate_limit", cfg.Server.RateLimit.Enabled,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)

	ctx, stop := cli.SignalContext(ctx)
	defer stop()

	srv := server.NewServer(cfg, deps)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// buildServerDependencies wires telemetry, the validator, health checks and
// history. cleanup releases whatever was created, also on error.
func buildServerDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (server.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := server.Dependencies{Logger: logger}
	info := versionInfo()
	deps.Version = &info

	var opts []validator.Option

	if cfg.Telemetry.Metrics.Enabled {
		deps.Metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		opts = append(opts, validator.WithRecorder(deps.Metrics))
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return deps, cleanup, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	closers = append(closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	})
	if tracer.Enabled() {
		deps.Tracer = tracer
		opts = append(opts, validator.WithTracer(tracer.Tracer()))
	}

	deps.Validator, err = newValidator(cfg, logger, opts...)
	if err != nil {
		return deps, cleanup, err
	}
	reg := deps.Validator.Registry()

	deps.Health = health.New(cfg.Telemetry.Health.CheckTimeout)
	deps.Health.RegisterCheck("registry", health.RegistryCheck(reg))
	deps.Health.RegisterCheck("validator", health.ValidatorCheck(deps.Validator))

	if cfg.History.Enabled {
		sink, err := openHistory(cfg)
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() {
			if err := sink.Close(); err != nil {
				logger.Error("failed to close history", "error", err)
			}
		})
		deps.History = sink.storage
		deps.Recorder = sink.recorder
		deps.Health.RegisterCheck("history", sink.storage.Ping)

		pruner := newPruner(cfg, sink.storage)
		if err := pruner.Start(ctx); err != nil {
			return deps, cleanup, fmt.Errorf("failed to start retention: %w", err)
		}
		closers = append(closers, pruner.Stop)
	}

	return deps, cleanup, nil
}
