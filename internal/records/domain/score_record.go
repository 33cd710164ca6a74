package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const scoreRecordFieldCount = 5

// ScoreRecord is a student's score in a subject for a term.
type ScoreRecord struct {
	ID        string
	StudentID string
	Subject   string
	Term      string
	Score     float64
}

// RecordID returns the score record's repository key.
func (s ScoreRecord) RecordID() string { return s.ID }

// CSV serializes the score record as one line.
func (s ScoreRecord) CSV() string {
	return joinFields(
		s.ID,
		s.StudentID,
		s.Subject,
		s.Term,
		formatFloat(s.Score),
	)
}

// Validate checks the score record's fields.
func (s ScoreRecord) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&s.StudentID, validation.Required, appvalidation.RecordID),
		validation.Field(&s.Subject, validation.Required, appvalidation.FreeText),
		validation.Field(&s.Term, validation.Required, appvalidation.FreeText),
		validation.Field(&s.Score, validation.Min(0.0), validation.Max(100.0)),
	))
}

// ParseScoreRecord parses the CSV form produced by CSV.
func ParseScoreRecord(line string) (ScoreRecord, error) {
	fields, err := splitFields(line, scoreRecordFieldCount)
	if err != nil {
		return ScoreRecord{}, err
	}

	score, err := parseFloat(fields[4], "score")
	if err != nil {
		return ScoreRecord{}, err
	}

	return ScoreRecord{
		ID:        fields[0],
		StudentID: fields[1],
		Subject:   fields[2],
		Term:      fields[3],
		Score:     score,
	}, nil
}
