// Package logging provides structured logging with PII redaction.
//
// The package wraps log/slog. Loggers support JSON, text and console output,
// request-scoped fields taken from the context, and redaction of e-mail
// addresses, API keys, bearer tokens and similar values. Redaction happens in
// the slog handler, so the *slog.Logger returned by Slog is redacted too.
//
//	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithRequestID(ctx, id)
//	logger.InfoContext(ctx, "validation finished", "valid", report.IsValid)
package logging
