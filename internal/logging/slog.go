package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyFolder    = "folder"
	KeyLabel     = "label"
	KeyPath      = "path"
	KeyState     = "state"
	KeyMessageID = "message_id"
	KeyVideo     = "video"
	KeyLanguage  = "language"
	KeyCount     = "count"
	KeyUserHash  = "user_hash"
	KeyError     = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Folder returns a slog attribute for a mailbox folder name.
func Folder(folder string) slog.Attr {
	return slog.String(KeyFolder, folder)
}

// Label returns a slog attribute for a label name.
func Label(label string) slog.Attr {
	return slog.String(KeyLabel, label)
}

// Path returns a slog attribute for a filesystem path.
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// State returns a slog attribute for an ingestion state.
func State(state string) slog.Attr {
	return slog.String(KeyState, state)
}

// MessageID returns a slog attribute for a protocol-level message identifier.
func MessageID(id string) slog.Attr {
	return slog.String(KeyMessageID, id)
}

// Video returns a slog attribute for a video identifier.
func Video(id string) slog.Attr {
	return slog.String(KeyVideo, id)
}

// Language returns a slog attribute for a language code.
func Language(code string) slog.Attr {
	return slog.String(KeyLanguage, code)
}

// Count returns a slog attribute for a record count.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging purposes.
// This allows correlation of log entries without exposing PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// UserHash returns a slog attribute with the anonymized user email.
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
