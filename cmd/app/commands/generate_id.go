package commands

import (
	"fmt"
	"io"
	"log/slog"

	authService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/auth/service"
)

// RunGenerateID issues count record IDs and prints one per line. Every
// issued value is recorded in the encrypted auth store, so reruns never
// repeat an ID.
func RunGenerateID(
	generator authService.AuthGenerator,
	logger *slog.Logger,
	writer io.Writer,
	prefix string,
	length, count int,
) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	logger.Info("generating record ids", slog.Int("count", count))

	for i := 0; i < count; i++ {
		id, err := generator.GenerateID(prefix, length)
		if err != nil {
			return fmt.Errorf("failed to generate id: %w", err)
		}
		fmt.Fprintln(writer, id)
	}
	return nil
}
