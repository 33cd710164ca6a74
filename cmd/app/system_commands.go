package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/urfave/cli/v3"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/cmd/app/commands"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/app"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/config"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "show-logs",
			Usage: "Print buffered security log entries",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "level",
					Aliases: []string{"l"},
					Usage:   "Keep entries at or above this level (trace..fatal)",
				},
				&cli.StringFlag{
					Name:    "search",
					Aliases: []string{"s"},
					Usage:   "Keep entries whose message contains this term",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"n"},
					Value:   0,
					Usage:   "Keep only the most recent N entries (0 keeps all)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				securityLog, err := provider.SecurityLog(ctx)
				if err != nil {
					return err
				}
				return commands.RunShowLogs(
					securityLog,
					provider.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("level"),
					cmd.String("search"),
					int(cmd.Int("limit")),
				)
			},
		},
		{
			Name:  "metrics",
			Usage: "Gather and print application metrics in Prometheus text format",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				metricsProvider, err := provider.MetricsProvider(ctx)
				if err != nil {
					return err
				}
				var gatherer prometheus.Gatherer
				if metricsProvider != nil {
					gatherer = metricsProvider.Gatherer()
				}
				return commands.RunMetrics(gatherer, commands.DefaultIO().Writer)
			},
		},
	}
}
