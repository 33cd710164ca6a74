package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const studentFieldCount = 9

// Student is an enrolled student record.
type Student struct {
	ID         string
	Name       string
	Age        int
	Gender     string
	Grade      string
	Discipline string
	Address    string
	Phone      string
	CGPA       float64
}

// RecordID returns the student's repository key.
func (s Student) RecordID() string { return s.ID }

// CSV serializes the student as one line.
func (s Student) CSV() string {
	return joinFields(
		s.ID,
		s.Name,
		formatInt(s.Age),
		s.Gender,
		s.Grade,
		s.Discipline,
		s.Address,
		s.Phone,
		formatFloat(s.CGPA),
	)
}

// Validate checks the student's fields against the application field rules.
func (s Student) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&s.Name, validation.Required, appvalidation.PersonName),
		validation.Field(&s.Age, appvalidation.Age),
		validation.Field(&s.Gender, validation.Required),
		validation.Field(&s.Grade, validation.Required, appvalidation.FreeText),
		validation.Field(&s.Discipline, validation.Required, appvalidation.FreeText),
		validation.Field(&s.Address, validation.Required, appvalidation.Address),
		validation.Field(&s.Phone, validation.Required, appvalidation.NigerianPhone),
		validation.Field(&s.CGPA, validation.Min(0.0), validation.Max(4.0)),
	))
}

// ParseStudent parses the CSV form produced by CSV.
func ParseStudent(line string) (Student, error) {
	fields, err := splitFields(line, studentFieldCount)
	if err != nil {
		return Student{}, err
	}

	age, err := parseInt(fields[2], "age")
	if err != nil {
		return Student{}, err
	}
	cgpa, err := parseFloat(fields[8], "cgpa")
	if err != nil {
		return Student{}, err
	}

	return Student{
		ID:         fields[0],
		Name:       fields[1],
		Age:        age,
		Gender:     fields[3],
		Grade:      fields[4],
		Discipline: fields[5],
		Address:    fields[6],
		Phone:      fields[7],
		CGPA:       cgpa,
	}, nil
}
