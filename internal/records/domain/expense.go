package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const expenseFieldCount = 5

// expenseDateLayout is the day-resolution date format expenses carry.
const expenseDateLayout = "2006-01-02"

// Expense is a school expenditure record.
type Expense struct {
	ID          string
	Description string
	Category    string
	Amount      float64
	IncurredOn  time.Time
}

// RecordID returns the expense's repository key.
func (e Expense) RecordID() string { return e.ID }

// CSV serializes the expense as one line.
func (e Expense) CSV() string {
	return joinFields(
		e.ID,
		e.Description,
		e.Category,
		formatFloat(e.Amount),
		e.IncurredOn.Format(expenseDateLayout),
	)
}

// Validate checks the expense's fields.
func (e Expense) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&e.Description, validation.Required, appvalidation.FreeText),
		validation.Field(&e.Category, validation.Required, appvalidation.FreeText),
		validation.Field(&e.Amount, validation.Min(0.0)),
		validation.Field(&e.IncurredOn, validation.Required),
	))
}

// ParseExpense parses the CSV form produced by CSV.
func ParseExpense(line string) (Expense, error) {
	fields, err := splitFields(line, expenseFieldCount)
	if err != nil {
		return Expense{}, err
	}

	amount, err := parseFloat(fields[3], "amount")
	if err != nil {
		return Expense{}, err
	}
	incurredOn, err := time.Parse(expenseDateLayout, fields[4])
	if err != nil {
		return Expense{}, errors.Wrap(errors.ErrInvalidInput, "incurred date")
	}

	return Expense{
		ID:          fields[0],
		Description: fields[1],
		Category:    fields[2],
		Amount:      amount,
		IncurredOn:  incurredOn,
	}, nil
}
