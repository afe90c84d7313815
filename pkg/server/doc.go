// Package server provides the HTTP API server of odrlcheck.
//
// The server exposes the validator over HTTP and, when configured, the
// validation history, health probes and Prometheus metrics. It owns the
// listener lifecycle: Start blocks until the context is cancelled, SIGINT or
// SIGTERM is received, or Stop is called, and then shuts down gracefully
// within the configured shutdown timeout.
//
// # Basic Usage
//
//	cfg := config.GetConfig()
//	v := validator.New(validator.WithParallel(cfg.Validation.Parallel))
//
//	srv := server.NewServer(cfg, server.Dependencies{
//	    Validator: v,
//	    Health:    checker,
//	    Metrics:   collector,
//	    Logger:    logger.Slog(),
//	})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//	POST /v1/validate            report as JSON
//	POST /v1/validate/feedback   report as Markdown
//	GET  /v1/operands            operand registry
//	GET  /v1/history             history listing (history enabled)
//	GET  /v1/history/{id}        one history record (history enabled)
//	/health, /ready              probes (paths configurable)
//	GET  /metrics                Prometheus (path configurable)
//	GET  /version                build information
//
// See package handlers for the request and response formats and package
// middleware for the middleware chain.
package server
