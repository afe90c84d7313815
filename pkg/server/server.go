// Package server provides the HTTP API server of odrlcheck.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/history"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
	"mercator-hq/odrlcheck/pkg/server/auth"
	"mercator-hq/odrlcheck/pkg/server/handlers"
	"mercator-hq/odrlcheck/pkg/server/middleware"
	"mercator-hq/odrlcheck/pkg/server/ratelimit"
	"mercator-hq/odrlcheck/pkg/server/tlsconfig"
	"mercator-hq/odrlcheck/pkg/telemetry/health"
	"mercator-hq/odrlcheck/pkg/telemetry/metrics"
	"mercator-hq/odrlcheck/pkg/telemetry/tracing"
)

// Dependencies are the components the server routes requests to.
// Only Validator is required.
type Dependencies struct {
	Validator *validator.Validator

	// History enables the /v1/history endpoints.
	History history.Storage
	// Recorder records every API validation.
	Recorder handlers.HistoryRecorder

	Health  *health.Checker
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Version *health.VersionInfo
	Logger  *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	config       *config.Config
	deps         Dependencies
	logger       *slog.Logger
	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:       cfg,
		deps:         deps,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled, a
// termination signal arrives, Stop is called or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s.deps.Validator == nil {
		return fmt.Errorf("server requires a validator")
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	if s.config.Server.TLS.Enabled {
		if ln, err = s.listenTLS(ctx, ln); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", "address", ln.Addr().String(), "tls", s.config.Server.TLS.Enabled)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// listenTLS wraps ln with TLS. Certificates are reloaded until ctx is done.
func (s *Server) listenTLS(ctx context.Context, ln net.Listener) (net.Listener, error) {
	tc := &s.config.Server.TLS
	reloader := tlsconfig.NewReloader(tc.CertFile, tc.KeyFile, tc.ReloadInterval, s.logger)
	if err := reloader.Start(ctx); err != nil {
		ln.Close()
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsCfg, err := tlsconfig.Build(tc, reloader)
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	return tls.NewListener(ln, tlsCfg), nil
}

// Stop asks a running Start to shut down. It does not wait.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("api server stopped")
	})

	return shutdownErr
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	api := s.apiMiddleware()

	validate := handlers.NewValidateHandler(s.deps.Validator, s.deps.Recorder, s.logger)
	mux.Handle("POST /v1/validate", api(validate))
	mux.Handle("POST /v1/validate/feedback", api(http.HandlerFunc(validate.Feedback)))
	mux.Handle("GET /v1/operands", api(handlers.OperandsHandler(s.deps.Validator.Registry())))

	if s.deps.History != nil {
		hist := handlers.NewHistoryHandler(s.deps.History, s.logger)
		mux.Handle("GET /v1/history", api(http.HandlerFunc(hist.List)))
		mux.Handle("GET /v1/history/{id}", api(http.HandlerFunc(hist.Get)))
	}

	healthCfg := s.config.Telemetry.Health
	if s.deps.Health != nil && healthCfg.LivenessPath != "" && healthCfg.ReadinessPath != "" {
		mux.Handle(healthCfg.LivenessPath, s.deps.Health.LivenessHandler())
		mux.Handle(healthCfg.ReadinessPath, s.deps.Health.ReadinessHandler())
	}
	if s.deps.Version != nil {
		mux.Handle("GET /version", health.VersionHandler(*s.deps.Version))
	}

	var recorder middleware.HTTPRecorder
	if s.deps.Metrics != nil && s.config.Telemetry.Metrics.Path != "" {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.deps.Metrics.Handler())
		recorder = s.deps.Metrics
	}

	// Innermost first; recovery ends up outermost.
	var handler http.Handler = mux
	handler = middleware.MetricsMiddleware(recorder)(handler)
	handler = middleware.MaxBodyMiddleware(s.config.Server.MaxBodyBytes)(handler)
	if s.deps.Tracer != nil {
		handler = s.deps.Tracer.HTTPMiddleware(handler)
	}
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// apiMiddleware returns the chain applied to /v1/ routes only, so that
// probes and metrics stay reachable without a key.
func (s *Server) apiMiddleware() func(http.Handler) http.Handler {
	var chain []func(http.Handler) http.Handler
	if ac := s.config.Server.Auth; ac.Enabled {
		chain = append(chain, auth.NewMiddleware(auth.FromConfig(&ac), ac.Header, ac.Scheme, s.logger).Handle)
	}
	if rc := s.config.Server.RateLimit; rc.Enabled {
		chain = append(chain, ratelimit.New(&rc).Middleware(s.logger))
	}
	return func(h http.Handler) http.Handler {
		for i := len(chain) - 1; i >= 0; i-- {
			h = chain[i](h)
		}
		return h
	}
}
