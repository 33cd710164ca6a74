package commands

import (
	"fmt"
	"io"

	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
)

// RunHashPassword derives the slow salted hash of a password and prints the
// encoded form. Each run salts fresh, so the same password never prints the
// same hash twice; verify-password checks a hash against its password.
func RunHashPassword(
	crypter cryptoService.Crypter,
	writer io.Writer,
	password string,
) error {
	encoded, err := crypter.HashPBKDF2([]byte(password))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintln(writer, encoded)
	return nil
}

// RunVerifyPassword checks a password against an encoded hash produced by
// hash-password. A mismatch is reported through the exit code as well as the
// output so scripts can branch on it.
func RunVerifyPassword(
	crypter cryptoService.Crypter,
	writer io.Writer,
	password, encoded string,
) error {
	ok, err := crypter.VerifyPBKDF2([]byte(password), encoded)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}

	if !ok {
		fmt.Fprintln(writer, "password does not match")
		return fmt.Errorf("password mismatch")
	}
	fmt.Fprintln(writer, "password matches")
	return nil
}
