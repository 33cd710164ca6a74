package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/cmd/app/commands"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/app"
	authService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/auth/service"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-id",
			Usage: "Issue collision-checked record IDs",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "prefix",
					Aliases: []string{"p"},
					Value:   authService.DefaultIDPrefix,
					Usage:   "ID prefix",
				},
				&cli.IntFlag{
					Name:    "length",
					Aliases: []string{"l"},
					Value:   authService.DefaultIDLength,
					Usage:   "Total ID length, prefix included",
				},
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Value:   1,
					Usage:   "How many IDs to issue",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunGenerateID(
					components.Generator,
					provider.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("prefix"),
					int(cmd.Int("length")),
					int(cmd.Int("count")),
				)
			},
		},
		{
			Name:  "generate-auth",
			Usage: "Issue collision-checked auth codes",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Value:   1,
					Usage:   "How many auth codes to issue",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunGenerateAuth(
					components.Generator,
					provider.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("count")),
				)
			},
		},
	}
}
