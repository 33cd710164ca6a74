package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/cmd/app/commands"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/app"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/config"
)

func getSecurityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "security-audit",
			Usage: "Run the engine's read-only security posture checks",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
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
				return commands.RunSecurityAudit(
					components.Crypter,
					provider.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-key",
			Usage: "Replace the engine key and re-seal the IV vault under it",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunRotateKey(
					ctx,
					components.Crypter,
					provider.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "rotate-ivs",
			Usage: "Refresh both initialization vectors and persist the vault",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunRotateIVs(
					components.Crypter,
					provider.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:      "encrypt",
			Usage:     "Seal a plaintext string into one storable line",
			ArgsUsage: "<plaintext>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunEncrypt(
					components.Crypter,
					commands.DefaultIO().Writer,
					cmd.Args().First(),
				)
			},
		},
		{
			Name:      "decrypt",
			Usage:     "Open a line produced by encrypt",
			ArgsUsage: "<line>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunDecrypt(
					components.Crypter,
					commands.DefaultIO().Writer,
					cmd.Args().First(),
				)
			},
		},
		{
			Name:      "hash-password",
			Usage:     "Derive the slow salted hash of a password",
			ArgsUsage: "<password>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunHashPassword(
					components.Crypter,
					commands.DefaultIO().Writer,
					cmd.Args().First(),
				)
			},
		},
		{
			Name:      "verify-password",
			Usage:     "Check a password against an encoded hash",
			ArgsUsage: "<password> <hash>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				provider := app.NewProvider(cfg)
				defer closeProvider(ctx, provider)

				components, err := provider.Components(ctx)
				if err != nil {
					return err
				}
				return commands.RunVerifyPassword(
					components.Crypter,
					commands.DefaultIO().Writer,
					cmd.Args().Get(0),
					cmd.Args().Get(1),
				)
			},
		},
	}
}
