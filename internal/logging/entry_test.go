package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

func TestNewEntry(t *testing.T) {
	before := time.Now().UTC()
	entry := NewEntry(LevelWarn, "crypto", "key rotated")

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, "crypto", entry.Source)
	assert.Equal(t, "key rotated", entry.Message)
	assert.False(t, entry.Timestamp.Before(before))
}

func TestEntryCSVRoundTrip(t *testing.T) {
	t.Run("plain message", func(t *testing.T) {
		entry := NewEntry(LevelInfo, "auth", "access code issued")

		parsed, err := ParseEntry(entry.CSV())
		require.NoError(t, err)
		assert.Equal(t, entry.ID, parsed.ID)
		assert.True(t, entry.Timestamp.Equal(parsed.Timestamp))
		assert.Equal(t, entry.Level, parsed.Level)
		assert.Equal(t, entry.Source, parsed.Source)
		assert.Equal(t, entry.Message, parsed.Message)
	})

	t.Run("message keeps embedded commas", func(t *testing.T) {
		entry := NewEntry(LevelError, "records", "load failed: file students.sam, line 3, bad record")

		parsed, err := ParseEntry(entry.CSV())
		require.NoError(t, err)
		assert.Equal(t, "load failed: file students.sam, line 3, bad record", parsed.Message)
	})
}

func TestParseEntryRejectsMalformedLines(t *testing.T) {
	validLine := NewEntry(LevelInfo, "crypto", "ok").CSV()

	tests := []struct {
		name string
		line string
	}{
		{name: "empty line", line: ""},
		{name: "too few fields", line: "a,b,c"},
		{name: "bad id", line: "not-a-uuid" + validLine[strings.Index(validLine, ","):]},
		{name: "bad timestamp", line: strings.Replace(validLine, strings.Split(validLine, ",")[1], "yesterday", 1)},
		{name: "bad level", line: strings.Replace(validLine, ",info,", ",loud,", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
}
