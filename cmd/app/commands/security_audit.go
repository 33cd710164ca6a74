package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
)

// RunSecurityAudit runs the engine's read-only posture checks and prints the
// report. The audit itself never fails; the command returns an error only
// when output cannot be produced, so operators can distinguish "audit found
// problems" (report content) from "audit could not run" (exit code).
func RunSecurityAudit(
	crypter cryptoService.Crypter,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("running security audit")
	report := crypter.SecurityAudit()

	if format == "json" {
		return outputJSON(report, writer)
	}

	fmt.Fprintf(writer, "security audit at %s\n", report.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(writer, "  key strength ok: %t\n", report.KeyStrengthOK)
	fmt.Fprintf(writer, "  ivs valid:       %t\n", report.IVsValid)
	fmt.Fprintf(writer, "  ivs distinct:    %t\n", report.IVsDistinct)
	fmt.Fprintf(writer, "  ivs fresh:       %t\n", report.IVsFresh)
	fmt.Fprintf(writer, "  key age:         %s\n", report.KeyAge.Round(time.Second))
	fmt.Fprintf(writer, "  iv age:          %s\n", report.IVAge.Round(time.Second))
	if report.Passed() {
		fmt.Fprintln(writer, "result: PASSED")
	} else {
		fmt.Fprintln(writer, "result: ATTENTION REQUIRED")
	}
	return nil
}
