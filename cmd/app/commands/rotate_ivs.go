package commands

import (
	"fmt"
	"io"
	"log/slog"

	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
)

// RunRotateIVs refreshes both vault slots and persists the vault. Safe at
// any time: every sealed record carries its own IV, so old lines stay
// readable.
func RunRotateIVs(
	crypter cryptoService.Crypter,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("rotating initialization vectors")

	if err := crypter.RotateIVs(); err != nil {
		return fmt.Errorf("failed to rotate ivs: %w", err)
	}

	fmt.Fprintln(writer, "initialization vectors rotated")
	return nil
}
