package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

// entryFieldCount is the number of comma-separated fields in a serialized
// entry. The message is the last field, so commas inside messages survive the
// round trip.
const entryFieldCount = 5

// Entry is one security log event.
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	Level     Level
	Source    string
	Message   string
}

// NewEntry creates an entry stamped with a fresh v7 id and the current UTC
// time.
func NewEntry(level Level, source, message string) Entry {
	return Entry{
		ID:        uuid.Must(uuid.NewV7()),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Source:    source,
		Message:   message,
	}
}

// CSV serializes the entry as one line: id, timestamp, level, source and the
// message last.
func (e Entry) CSV() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		e.ID, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Level, e.Source, e.Message)
}

// ParseEntry parses the CSV form produced by CSV.
func ParseEntry(line string) (Entry, error) {
	parts := strings.SplitN(line, ",", entryFieldCount)
	if len(parts) != entryFieldCount {
		return Entry{}, errors.Wrap(errors.ErrInvalidInput, "log entry field count")
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrInvalidInput, "log entry id")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrInvalidInput, "log entry timestamp")
	}
	level, err := ParseLevel(parts[2])
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:        id,
		Timestamp: ts,
		Level:     level,
		Source:    parts[3],
		Message:   parts[4],
	}, nil
}
