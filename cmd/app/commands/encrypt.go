package commands

import (
	"fmt"
	"io"

	validation "github.com/jellydator/validation"

	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

// RunEncrypt seals a plaintext string into one storable line: the combined
// iv-prefixed ciphertext, base64-encoded. This is exactly what repositories
// write per record.
func RunEncrypt(
	crypter cryptoService.Crypter,
	writer io.Writer,
	plaintext string,
) error {
	sealed, err := crypter.EncryptEncode(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	fmt.Fprintln(writer, sealed)
	return nil
}

// RunDecrypt opens a line produced by encrypt and prints the plaintext.
func RunDecrypt(
	crypter cryptoService.Crypter,
	writer io.Writer,
	line string,
) error {
	if err := validation.Validate(line, validation.Required, appvalidation.Base64); err != nil {
		return fmt.Errorf("not a sealed line: %w", err)
	}

	plain, err := crypter.DecodeDecrypt(line)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	fmt.Fprintln(writer, plain)
	return nil
}
