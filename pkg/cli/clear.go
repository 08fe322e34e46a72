package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/cli/config"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ErrNotConfirmed is returned when clear runs without --yes
var ErrNotConfirmed = goerr.New("clear requires --yes")

func cmdClear() *cli.Command {
	var confirmed bool
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "Confirm deletion of all initiatives, lookup tables and non-admin users",
			Destination: &confirmed,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:     "clear",
		Category: "Dataset",
		Usage:    "Delete seeded data, keeping admin profiles",
		Flags:    flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !confirmed {
				return ErrNotConfirmed
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.From(ctx).Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)

			out := os.Stdout
			report, err := uc.Seed.ClearData(ctx, printProgress(out))
			if err != nil {
				_, _ = colorFailed.Fprintln(out, "clear failed")
				return goerr.Wrap(err, "clear failed")
			}

			_, _ = fmt.Fprintf(out, "initiatives: %d, departments: %d, designations: %d, users: %d deleted (%d admins kept)\n",
				report.InitiativesDeleted, report.DepartmentsDeleted, report.DesignationsDeleted,
				report.UsersDeleted, report.AdminsKept)
			_, _ = colorCreated.Fprintln(out, "clear completed")
			return nil
		},
	}
}
