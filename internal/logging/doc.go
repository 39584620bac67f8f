// Package logging provides structured logging utilities for the vaultpipe
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
// Command output goes to stdout; the configured handler writes all log lines
// to stderr so JSON consumers never see diagnostics mixed into their stream.
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "vault.ingest")
//	logger.Info("note written",
//	    logging.Path(rel),
//	    logging.State("new"))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("authenticated",
//	    logging.UserHash(email))
//
// User emails are hashed to prevent PII leakage while allowing correlation,
// and tokens are never logged directly.
package logging
