package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/app"
)

// closeProvider shuts the provider down and logs any errors.
func closeProvider(ctx context.Context, provider *app.Provider) {
	if err := provider.Shutdown(ctx); err != nil {
		provider.Logger().Error("failed to shutdown security provider", slog.Any("error", err))
	}
}

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSecurityCommands()...)
	cmds = append(cmds, getAuthCommands()...)
	cmds = append(cmds, getSystemCommands()...)
	return cmds
}
