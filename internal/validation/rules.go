// Package validation provides custom validation rules for the application.
// The field rules mirror the formats the record files carry: names, ages,
// Nigerian phone numbers, addresses and seven-character record IDs.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// nameRegex allows spaces, hyphens and apostrophes for names like
	// O'Connor or Jean-Luc
	nameRegex = regexp.MustCompile(`^[a-zA-Z]+(?:[\s'-][a-zA-Z]+)*$`)

	// recordIDRegex matches the seven-character alphanumeric record IDs
	recordIDRegex = regexp.MustCompile(`^[a-zA-Z0-9]{7}$`)

	// nigerianPhoneRegex supports the major local formats (+234 or 0 prefix)
	nigerianPhoneRegex = regexp.MustCompile(`^(\+234|0)([7-9][0-1])([0-9]{8})$`)

	// addressRegex allows letters, numbers, spaces and common address punctuation
	addressRegex = regexp.MustCompile(`^[a-zA-Z0-9\s.,#-]+$`)

	// freeTextRegex allows letters, numbers, spaces and common punctuation
	freeTextRegex = regexp.MustCompile(`^[a-zA-Z0-9\s.,!?;:'"()-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength validates password meets minimum security requirements
type PasswordStrength struct {
	MinLength      int
	RequireLetter  bool
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate checks if the password meets the configured requirements
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	if p.RequireLetter && !hasLetter(s) {
		return validation.NewError(
			"validation_password_letter",
			"password must contain at least one letter",
		)
	}

	if p.RequireUpper && !hasUpperCase(s) {
		return validation.NewError(
			"validation_password_uppercase",
			"password must contain at least one uppercase letter",
		)
	}

	if p.RequireLower && !hasLowerCase(s) {
		return validation.NewError(
			"validation_password_lowercase",
			"password must contain at least one lowercase letter",
		)
	}

	if p.RequireNumber && !hasNumber(s) {
		return validation.NewError("validation_password_number", "password must contain at least one number")
	}

	if p.RequireSpecial && !hasSpecialChar(s) {
		return validation.NewError(
			"validation_password_special",
			"password must contain at least one special character",
		)
	}

	return nil
}

// CredentialPassword is the baseline policy applied to stored credentials:
// at least 8 characters with at least one letter and one number.
var CredentialPassword = PasswordStrength{
	MinLength:     8,
	RequireLetter: true,
	RequireNumber: true,
}

// hasLetter checks if string contains letters of either case
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// hasUpperCase checks if string contains uppercase letters
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// hasLowerCase checks if string contains lowercase letters
func hasLowerCase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// hasNumber checks if string contains numbers
func hasNumber(s string) bool {
	for _, r := range s {
		if unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// hasSpecialChar checks if string contains special characters
func hasSpecialChar(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(strings.TrimSpace(s))
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// PersonName validates a human name: letters with optional spaces, hyphens
// and apostrophes between parts.
var PersonName = validation.NewStringRuleWithError(
	func(s string) bool {
		return nameRegex.MatchString(strings.TrimSpace(s))
	},
	validation.NewError("validation_person_name", "must be a valid name"),
)

// Age validates a numeric age between 1 and 120.
var Age = validation.By(func(value interface{}) error {
	invalid := validation.NewError("validation_age", "must be an age between 1 and 120")

	var age int
	switch v := value.(type) {
	case int:
		age = v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return invalid
		}
		age = n
	default:
		return invalid
	}

	if age < 1 || age > 120 {
		return invalid
	}
	return nil
})

// NigerianPhone validates Nigerian phone numbers in +234 or 0-prefixed form.
// Spaces and dashes are ignored.
var NigerianPhone = validation.NewStringRuleWithError(
	func(s string) bool {
		cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
		return nigerianPhoneRegex.MatchString(cleaned)
	},
	validation.NewError("validation_nigerian_phone", "must be a valid Nigerian phone number"),
)

// Address validates a postal address of at least 5 characters.
var Address = validation.NewStringRuleWithError(
	func(s string) bool {
		trimmed := strings.TrimSpace(s)
		return len(trimmed) >= 5 && addressRegex.MatchString(trimmed)
	},
	validation.NewError("validation_address", "must be a valid address of at least 5 characters"),
)

// RecordID validates the seven-character alphanumeric ID used by stored
// records and credentials.
var RecordID = validation.NewStringRuleWithError(
	func(s string) bool {
		return recordIDRegex.MatchString(s)
	},
	validation.NewError("validation_record_id", "must be a 7 character alphanumeric id"),
)

// FreeText validates general text fields: letters, numbers, spaces and
// common punctuation.
var FreeText = validation.NewStringRuleWithError(
	func(s string) bool {
		return freeTextRegex.MatchString(s)
	},
	validation.NewError("validation_free_text", "must contain only letters, numbers and common punctuation"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
