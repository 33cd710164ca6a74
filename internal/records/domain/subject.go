package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const subjectFieldCount = 3

// Subject is a taught subject record.
type Subject struct {
	ID         string
	Name       string
	Discipline string
}

// RecordID returns the subject's repository key.
func (s Subject) RecordID() string { return s.ID }

// CSV serializes the subject as one line.
func (s Subject) CSV() string {
	return joinFields(s.ID, s.Name, s.Discipline)
}

// Validate checks the subject's fields.
func (s Subject) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&s.Name, validation.Required, appvalidation.FreeText),
		validation.Field(&s.Discipline, validation.Required, appvalidation.FreeText),
	))
}

// ParseSubject parses the CSV form produced by CSV.
func ParseSubject(line string) (Subject, error) {
	fields, err := splitFields(line, subjectFieldCount)
	if err != nil {
		return Subject{}, err
	}

	return Subject{
		ID:         fields[0],
		Name:       fields[1],
		Discipline: fields[2],
	}, nil
}
