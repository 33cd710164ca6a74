package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const inventoryItemFieldCount = 5

// InventoryItem is a school inventory stock record.
type InventoryItem struct {
	ID        string
	Name      string
	Category  string
	Quantity  int
	UnitPrice float64
}

// RecordID returns the item's repository key.
func (i InventoryItem) RecordID() string { return i.ID }

// CSV serializes the item as one line.
func (i InventoryItem) CSV() string {
	return joinFields(
		i.ID,
		i.Name,
		i.Category,
		formatInt(i.Quantity),
		formatFloat(i.UnitPrice),
	)
}

// Validate checks the item's fields.
func (i InventoryItem) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&i.Name, validation.Required, appvalidation.FreeText),
		validation.Field(&i.Category, validation.Required, appvalidation.FreeText),
		validation.Field(&i.Quantity, validation.Min(0)),
		validation.Field(&i.UnitPrice, validation.Min(0.0)),
	))
}

// ParseInventoryItem parses the CSV form produced by CSV.
func ParseInventoryItem(line string) (InventoryItem, error) {
	fields, err := splitFields(line, inventoryItemFieldCount)
	if err != nil {
		return InventoryItem{}, err
	}

	quantity, err := parseInt(fields[3], "quantity")
	if err != nil {
		return InventoryItem{}, err
	}
	unitPrice, err := parseFloat(fields[4], "unit price")
	if err != nil {
		return InventoryItem{}, err
	}

	return InventoryItem{
		ID:        fields[0],
		Name:      fields[1],
		Category:  fields[2],
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}
