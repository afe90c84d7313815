// Package health provides liveness and readiness probes for the odrlcheck
// HTTP API.
//
// Liveness only reports that the process runs. Readiness runs every
// registered check concurrently, each bounded by the configured timeout:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("registry", health.RegistryCheck(v.Registry()))
//	checker.RegisterCheck("validator", health.ValidatorCheck(v))
//	checker.RegisterCheck("history", store.Ping)
//	mux.Handle("GET /ready", checker.ReadinessHandler())
package health
