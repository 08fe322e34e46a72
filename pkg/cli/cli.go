package cli

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/cli/config"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const appDescription = `InitiativeFlow tracks organizational initiatives, their tasks, ratings
and attachments on top of Firestore, Firebase Authentication and Cloud
Storage. Every flag can also be set through an INITIATIVEFLOW_* variable.

A fresh environment is usually brought up in this order:

   initiativeflow migrate --firestore-project-id <project>
   initiativeflow seed --dataset dataset.toml
   initiativeflow serve

"clear" removes seeded initiatives, lookup tables and non-admin profiles
so that "seed" can run again from a clean state.`

func newApp(version string) *cli.Command {
	var loggerCfg config.Logger
	var closer func()

	return &cli.Command{
		Name:                  "initiativeflow",
		Usage:                 "Initiative, task and rating backend for InitiativeFlow",
		Description:           appDescription,
		Version:               version,
		EnableShellCompletion: true,
		Flags:                 loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logger := logging.Default().With("app", "initiativeflow", "version", version)
			logger.Info("Starting initiativeflow", "command", c.Args().First(), "logger", loggerCfg)
			return logging.With(ctx, logger), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(version),
			cmdSeed(),
			cmdClear(),
			cmdMigrate(),
		},
	}
}

func Run(ctx context.Context, args []string, version string) error {
	if err := newApp(version).Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
