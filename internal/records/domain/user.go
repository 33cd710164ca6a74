package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

const userFieldCount = 4

// User roles.
const (
	UserRoleUser  = "USER"
	UserRoleAdmin = "ADMIN"
)

// User is an application account record. PasswordHash carries the Argon2id
// encoding, never a plain password.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
}

// RecordID returns the user's repository key.
func (u User) RecordID() string { return u.ID }

// CSV serializes the user as one line.
func (u User) CSV() string {
	return joinFields(u.ID, u.Username, u.PasswordHash, u.Role)
}

// Validate checks the user's fields.
func (u User) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.Required, appvalidation.RecordID),
		validation.Field(&u.Username, validation.Required, appvalidation.NoWhitespace, appvalidation.NotBlank),
		validation.Field(&u.PasswordHash, validation.Required),
		validation.Field(&u.Role, validation.Required, validation.In(UserRoleUser, UserRoleAdmin)),
	))
}

// ParseUser parses the CSV form produced by CSV.
func ParseUser(line string) (User, error) {
	fields, err := splitFields(line, userFieldCount)
	if err != nil {
		return User{}, err
	}

	return User{
		ID:           fields[0],
		Username:     fields[1],
		PasswordHash: fields[2],
		Role:         fields[3],
	}, nil
}
