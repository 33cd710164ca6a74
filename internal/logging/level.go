// Package logging provides the application's security log: leveled entries
// with stable identities, a capped in-memory buffer and encrypted
// line-oriented persistence. This log is the audit trail for key rotations,
// IV rotations, throttle trips and shutdown events; operational process
// logging stays on log/slog.
package logging

import (
	"strings"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

// Level is the severity of a log entry. Levels are ordered; a higher value is
// more severe.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name, case-insensitively. "warning" is accepted
// as an alias for warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, errors.Wrapf(errors.ErrInvalidInput, "unknown log level %q", s)
	}
}
