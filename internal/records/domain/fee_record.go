package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const feeRecordFieldCount = 5

// FeeRecord tracks a student's billed and paid fees for a grade.
type FeeRecord struct {
	ID        string
	StudentID string
	Grade     string
	Billed    float64
	Paid      float64
}

// RecordID returns the fee record's repository key.
func (f FeeRecord) RecordID() string { return f.ID }

// Outstanding returns the unpaid balance.
func (f FeeRecord) Outstanding() float64 { return f.Billed - f.Paid }

// CSV serializes the fee record as one line.
func (f FeeRecord) CSV() string {
	return joinFields(
		f.ID,
		f.StudentID,
		f.Grade,
		formatFloat(f.Billed),
		formatFloat(f.Paid),
	)
}

// Validate checks the fee record's fields.
func (f FeeRecord) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&f.StudentID, validation.Required, appvalidation.RecordID),
		validation.Field(&f.Grade, validation.Required, appvalidation.FreeText),
		validation.Field(&f.Billed, validation.Min(0.0)),
		validation.Field(&f.Paid, validation.Min(0.0)),
	))
}

// ParseFeeRecord parses the CSV form produced by CSV.
func ParseFeeRecord(line string) (FeeRecord, error) {
	fields, err := splitFields(line, feeRecordFieldCount)
	if err != nil {
		return FeeRecord{}, err
	}

	billed, err := parseFloat(fields[3], "billed amount")
	if err != nil {
		return FeeRecord{}, err
	}
	paid, err := parseFloat(fields[4], "paid amount")
	if err != nil {
		return FeeRecord{}, err
	}

	return FeeRecord{
		ID:        fields[0],
		StudentID: fields[1],
		Grade:     fields[2],
		Billed:    billed,
		Paid:      paid,
	}, nil
}
