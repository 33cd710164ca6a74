package commands

import (
	"fmt"
	"io"
	"log/slog"

	authService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/auth/service"
)

// RunGenerateAuth issues count auth codes and prints one per line.
func RunGenerateAuth(
	generator authService.AuthGenerator,
	logger *slog.Logger,
	writer io.Writer,
	count int,
) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	logger.Info("generating auth codes", slog.Int("count", count))

	for i := 0; i < count; i++ {
		code, err := generator.GenerateAuth()
		if err != nil {
			return fmt.Errorf("failed to generate auth code: %w", err)
		}
		fmt.Fprintln(writer, code)
	}
	return nil
}
