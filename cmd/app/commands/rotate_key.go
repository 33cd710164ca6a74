package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
)

// RunRotateKey replaces the engine key with a fresh one and re-seals the IV
// vault under it. Existing repository files stay readable only until the
// next persist, so a full save should follow a rotation; the provider's
// shutdown path takes care of that for dirty repositories.
func RunRotateKey(
	ctx context.Context,
	crypter cryptoService.Crypter,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("rotating engine key")

	if err := crypter.RotateKey(ctx); err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	fmt.Fprintln(writer, "engine key rotated")
	return nil
}
