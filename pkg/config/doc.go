// Package config loads and validates odrlcheck.yaml.
//
// Values are resolved in order: built-in defaults (defaults.go), the YAML
// file, then ODRLCHECK_* environment variables. The merged result is
// validated and every failing field is reported in one ValidationError.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("odrlcheck.yaml")
//
// Environment variable names join the YAML path with underscores:
//
//	ODRLCHECK_SERVER_LISTEN_ADDRESS    server.listen_address
//	ODRLCHECK_HISTORY_SQLITE_DRIVER    history.sqlite.driver
//	ODRLCHECK_TELEMETRY_LOGGING_LEVEL  telemetry.logging.level
//
// Commands share one process-wide Config through Initialize and GetConfig.
// Library code and tests should take a *Config explicitly.
package config
