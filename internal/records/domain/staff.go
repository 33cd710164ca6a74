package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const staffFieldCount = 8

// Staff is an employed staff member record.
type Staff struct {
	ID          string
	Name        string
	Age         int
	Gender      string
	Designation string
	Phone       string
	Address     string
	Salary      float64
}

// RecordID returns the staff member's repository key.
func (s Staff) RecordID() string { return s.ID }

// CSV serializes the staff member as one line.
func (s Staff) CSV() string {
	return joinFields(
		s.ID,
		s.Name,
		formatInt(s.Age),
		s.Gender,
		s.Designation,
		s.Phone,
		s.Address,
		formatFloat(s.Salary),
	)
}

// Validate checks the staff member's fields.
func (s Staff) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&s.Name, validation.Required, appvalidation.PersonName),
		validation.Field(&s.Age, appvalidation.Age),
		validation.Field(&s.Gender, validation.Required),
		validation.Field(&s.Designation, validation.Required, appvalidation.FreeText),
		validation.Field(&s.Phone, validation.Required, appvalidation.NigerianPhone),
		validation.Field(&s.Address, validation.Required, appvalidation.Address),
		validation.Field(&s.Salary, validation.Min(0.0)),
	))
}

// ParseStaff parses the CSV form produced by CSV.
func ParseStaff(line string) (Staff, error) {
	fields, err := splitFields(line, staffFieldCount)
	if err != nil {
		return Staff{}, err
	}

	age, err := parseInt(fields[2], "age")
	if err != nil {
		return Staff{}, err
	}
	salary, err := parseFloat(fields[7], "salary")
	if err != nil {
		return Staff{}, err
	}

	return Staff{
		ID:          fields[0],
		Name:        fields[1],
		Age:         age,
		Gender:      fields[3],
		Designation: fields[4],
		Phone:       fields[5],
		Address:     fields[6],
		Salary:      salary,
	}, nil
}
