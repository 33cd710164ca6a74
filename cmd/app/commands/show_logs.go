package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
)

// RunShowLogs prints buffered security log entries, newest last. The level
// flag keeps entries at or above a severity, search keeps entries whose
// message contains a term, and limit keeps only the most recent entries.
func RunShowLogs(
	securityLog *logging.FileLogger,
	logger *slog.Logger,
	writer io.Writer,
	levelStr, search string,
	limit int,
) error {
	entries := securityLog.Entries()

	if levelStr != "" {
		level, err := logging.ParseLevel(levelStr)
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", levelStr, err)
		}
		entries = securityLog.FilterByLevel(level)
	}
	if search != "" {
		needle := strings.ToLower(search)
		matched := make([]logging.Entry, 0, len(entries))
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Message), needle) {
				matched = append(matched, e)
			}
		}
		entries = matched
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	logger.Info("showing security log entries", slog.Int("count", len(entries)))
	for _, e := range entries {
		fmt.Fprintf(writer, "%s [%s] %s: %s\n",
			e.Timestamp.Format(time.RFC3339), e.Level, e.Source, e.Message)
	}
	if corrupt := securityLog.CorruptLines(); corrupt > 0 {
		fmt.Fprintf(writer, "(%d corrupt lines skipped on load)\n", corrupt)
	}
	return nil
}
