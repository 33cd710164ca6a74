// Package domain defines the school record entities and their CSV codecs.
//
// Every entity serializes to a single CSV line and parses back from one. The
// codec quotes fields, so free-text values like addresses survive embedded
// commas. Each repository file carries one encrypted line per record.
package domain

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

// joinFields serializes fields into one CSV line without a trailing newline.
func joinFields(fields ...string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// splitFields parses one CSV line and checks the field count.
func splitFields(line string, want int) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	fields, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "malformed record line")
	}
	if len(fields) != want {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "record field count %d, want %d", len(fields), want)
	}
	return fields, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "%s is not a number", field)
	}
	return v, nil
}

func parseInt(s, field string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "%s is not a number", field)
	}
	return v, nil
}
