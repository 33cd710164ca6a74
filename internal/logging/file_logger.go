package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

const (
	// DefaultMaxEntries is the in-memory buffer size used when the config
	// does not set one.
	DefaultMaxEntries = 1000

	// HardMaxEntries is the upper bound on the in-memory buffer. Larger
	// configured values are clamped.
	HardMaxEntries = 10000

	// reportTailLen is how many recent entries a report includes.
	reportTailLen = 20
)

// FileLoggerConfig configures a FileLogger.
type FileLoggerConfig struct {
	// Path is the log file location. Empty means memory only: entries are
	// buffered but never persisted.
	Path string

	// Source tags every entry recorded through this logger.
	Source string

	// Crypter seals persisted lines. Required when Path is set.
	Crypter LineCrypter

	// MaxEntries caps the in-memory buffer. Zero means DefaultMaxEntries.
	MaxEntries int

	// AutoSave persists each entry as it is recorded instead of waiting for
	// Flush.
	AutoSave bool
}

// FileLogger records security events to a capped in-memory buffer and, when a
// path is configured, to an append-only file of encrypted lines. The file is
// a journal: restarts replay it to rebuild the buffer, corrupt lines are
// counted and skipped.
type FileLogger struct {
	mu      sync.Mutex
	path    string
	source  string
	crypter LineCrypter

	maxEntries int
	autoSave   bool

	entries []Entry
	pending []Entry
	file    *os.File
	closed  bool

	corruptLines  int
	writeFailures int
}

// NewFileLogger creates a logger, replaying any existing log file into the
// buffer.
func NewFileLogger(cfg FileLoggerConfig) (*FileLogger, error) {
	if cfg.MaxEntries < 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "log buffer size")
	}
	if cfg.Path != "" && cfg.Crypter == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "persistent log requires a crypter")
	}

	maxEntries := cfg.MaxEntries
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxEntries > HardMaxEntries {
		maxEntries = HardMaxEntries
	}

	source := cfg.Source
	if source == "" {
		source = "security"
	}

	fl := &FileLogger{
		path:       cfg.Path,
		source:     source,
		crypter:    cfg.Crypter,
		maxEntries: maxEntries,
		autoSave:   cfg.AutoSave,
	}

	if fl.path == "" {
		return fl, nil
	}

	if err := fl.loadExisting(); err != nil {
		return nil, err
	}
	if err := fl.openLocked(); err != nil {
		return nil, err
	}

	return fl, nil
}

// loadExisting replays the persisted journal into the buffer. Lines that fail
// to decrypt or parse are counted, not fatal.
func (fl *FileLogger) loadExisting() error {
	data, err := os.ReadFile(fl.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read log file")
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		plain, err := fl.crypter.DecodeDecrypt(line)
		if err != nil {
			fl.corruptLines++
			continue
		}
		entry, err := ParseEntry(plain)
		if err != nil {
			fl.corruptLines++
			continue
		}
		fl.entries = append(fl.entries, entry)
	}

	if len(fl.entries) > fl.maxEntries {
		fl.entries = fl.entries[len(fl.entries)-fl.maxEntries:]
	}

	return nil
}

func (fl *FileLogger) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(fl.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}
	file, err := os.OpenFile(fl.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return errors.Wrap(err, "failed to open log file")
	}
	fl.file = file
	return nil
}

// Trace records a trace-level entry.
func (fl *FileLogger) Trace(message string) { fl.log(LevelTrace, message) }

// Debug records a debug-level entry.
func (fl *FileLogger) Debug(message string) { fl.log(LevelDebug, message) }

// Info records an info-level entry.
func (fl *FileLogger) Info(message string) { fl.log(LevelInfo, message) }

// Warn records a warn-level entry.
func (fl *FileLogger) Warn(message string) { fl.log(LevelWarn, message) }

// Error records an error-level entry with the causing error appended to the
// message.
func (fl *FileLogger) Error(message string, err error) {
	fl.log(LevelError, withCause(message, err))
}

// Fatal records a fatal-level entry. It does not terminate the process.
func (fl *FileLogger) Fatal(message string, err error) {
	fl.log(LevelFatal, withCause(message, err))
}

func withCause(message string, err error) string {
	if err == nil {
		return message
	}
	return message + ": " + err.Error()
}

func (fl *FileLogger) log(level Level, message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.closed {
		return
	}

	entry := NewEntry(level, fl.source, message)
	fl.entries = append(fl.entries, entry)
	if len(fl.entries) > fl.maxEntries {
		fl.entries = fl.entries[len(fl.entries)-fl.maxEntries:]
	}

	if fl.path == "" {
		return
	}

	if fl.autoSave {
		if err := fl.writeLocked(entry); err != nil {
			fl.writeFailures++
		}
		return
	}
	fl.pending = append(fl.pending, entry)
}

func (fl *FileLogger) writeLocked(entry Entry) error {
	sealed, err := fl.crypter.EncryptEncode(entry.CSV())
	if err != nil {
		return errors.Wrap(err, "failed to seal log entry")
	}
	if _, err := fl.file.WriteString(sealed + "\n"); err != nil {
		return errors.Wrap(err, "failed to write log entry")
	}
	if err := fl.file.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync log file")
	}
	return nil
}

// Flush persists pending entries. It is a no-op for memory-only loggers.
func (fl *FileLogger) Flush() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.flushLocked()
}

func (fl *FileLogger) flushLocked() error {
	if fl.path == "" || len(fl.pending) == 0 {
		return nil
	}

	for i, entry := range fl.pending {
		if err := fl.writeLocked(entry); err != nil {
			fl.pending = fl.pending[i:]
			return err
		}
	}
	fl.pending = nil
	return nil
}

// Close flushes pending entries and releases the file. Entries recorded after
// Close are dropped. Calling Close again returns nil.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.closed {
		return nil
	}
	fl.closed = true

	flushErr := fl.flushLocked()
	if fl.file != nil {
		if err := fl.file.Close(); err != nil && flushErr == nil {
			flushErr = errors.Wrap(err, "failed to close log file")
		}
		fl.file = nil
	}
	return flushErr
}

// Entries returns a copy of the buffered entries, oldest first.
func (fl *FileLogger) Entries() []Entry {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	out := make([]Entry, len(fl.entries))
	copy(out, fl.entries)
	return out
}

// Len reports how many entries are buffered.
func (fl *FileLogger) Len() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.entries)
}

// CorruptLines reports how many persisted lines were skipped on load.
func (fl *FileLogger) CorruptLines() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.corruptLines
}

// WriteFailures reports how many autosaved entries could not be persisted.
func (fl *FileLogger) WriteFailures() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.writeFailures
}

// FilterByLevel returns buffered entries at or above the given severity.
func (fl *FileLogger) FilterByLevel(min Level) []Entry {
	return fl.filter(func(e Entry) bool { return e.Level >= min })
}

// FilterBySource returns buffered entries recorded under the given source.
func (fl *FileLogger) FilterBySource(source string) []Entry {
	return fl.filter(func(e Entry) bool { return e.Source == source })
}

// FilterSince returns buffered entries recorded after the given time.
func (fl *FileLogger) FilterSince(since time.Time) []Entry {
	return fl.filter(func(e Entry) bool { return e.Timestamp.After(since) })
}

// Search returns buffered entries whose message contains the term,
// case-insensitively.
func (fl *FileLogger) Search(term string) []Entry {
	needle := strings.ToLower(term)
	return fl.filter(func(e Entry) bool {
		return strings.Contains(strings.ToLower(e.Message), needle)
	})
}

func (fl *FileLogger) filter(keep func(Entry) bool) []Entry {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	var out []Entry
	for _, e := range fl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Stats returns the number of buffered entries per level.
func (fl *FileLogger) Stats() map[Level]int {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	stats := make(map[Level]int)
	for _, e := range fl.entries {
		stats[e.Level]++
	}
	return stats
}

// Report writes a human-readable summary of the buffered entries.
func (fl *FileLogger) Report(w io.Writer) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if _, err := fmt.Fprintf(w, "security log report generated %s\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	fmt.Fprintf(w, "source: %s\n", fl.source)
	fmt.Fprintf(w, "entries buffered: %d\n", len(fl.entries))
	if fl.corruptLines > 0 {
		fmt.Fprintf(w, "corrupt lines skipped on load: %d\n", fl.corruptLines)
	}

	for level := LevelTrace; level <= LevelFatal; level++ {
		count := 0
		for _, e := range fl.entries {
			if e.Level == level {
				count++
			}
		}
		fmt.Fprintf(w, "  %-5s %d\n", level, count)
	}

	tail := fl.entries
	if len(tail) > reportTailLen {
		tail = tail[len(tail)-reportTailLen:]
	}
	if len(tail) > 0 {
		fmt.Fprintln(w, "recent entries:")
	}
	for _, e := range tail {
		if _, err := fmt.Fprintf(w, "  %s [%s] %s: %s\n",
			e.Timestamp.Format(time.RFC3339), e.Level, e.Source, e.Message); err != nil {
			return err
		}
	}
	return nil
}
