package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/cli/config"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

var (
	colorStep    = color.New(color.FgCyan, color.Bold)
	colorCreated = color.New(color.FgGreen)
	colorExists  = color.New(color.FgYellow)
	colorFailed  = color.New(color.FgRed, color.Bold)
)

// printProgress renders each progress event as one line on w
func printProgress(w io.Writer) usecase.ProgressFunc {
	return func(p model.SeedProgress) {
		_, _ = colorStep.Fprintf(w, "[%3d%%] ", p.Percentage)
		_, _ = fmt.Fprintln(w, p.Message)
	}
}

func printSeedReport(w io.Writer, report *model.SeedReport) {
	if report == nil {
		return
	}

	for _, acc := range report.Accounts {
		switch acc.Status {
		case model.ProvisionCreated:
			_, _ = colorCreated.Fprintf(w, "  created  ")
		case model.ProvisionAlreadyExists:
			_, _ = colorExists.Fprintf(w, "  exists   ")
		default:
			_, _ = colorFailed.Fprintf(w, "  failed   ")
		}
		_, _ = fmt.Fprint(w, acc.Email)
		if acc.Reason != nil {
			_, _ = fmt.Fprintf(w, " (%s)", acc.Reason.Error())
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "departments: %d, designations: %d\n", report.DepartmentsWritten, report.DesignationsWritten)
	_, _ = fmt.Fprintf(w, "profiles: %d created, %d existing\n", report.ProfilesCreated, report.ProfilesExisting)
	_, _ = fmt.Fprintf(w, "initiatives: %d created\n", report.InitiativesCreated)
	for _, email := range report.UnresolvedEmails {
		_, _ = colorExists.Fprintf(w, "  unresolved %s\n", email)
	}
}

func cmdSeed() *cli.Command {
	var datasetPath string
	var repoCfg config.Repository
	var identityCfg config.Identity

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "Seed dataset TOML file",
			Required:    true,
			Sources:     cli.EnvVars("INITIATIVEFLOW_SEED_DATASET"),
			Destination: &datasetPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, identityCfg.Flags()...)

	return &cli.Command{
		Name:     "seed",
		Category: "Dataset",
		Usage:    "Provision accounts, profiles, lookup tables and initiatives from a dataset",
		Flags:    flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			dataset, err := config.LoadDataset(datasetPath)
			if err != nil {
				return err
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

			idSvc, err := identityCfg.Configure(ctx, repoCfg.ClientOptions()...)
			if err != nil {
				return goerr.Wrap(err, "failed to configure identity provider")
			}

			uc := usecase.New(repo, usecase.WithIdentityProvider(idSvc))

			out := os.Stdout
			report, err := uc.Seed.RunSeed(ctx, dataset, printProgress(out))
			printSeedReport(out, report)
			if err != nil {
				_, _ = colorFailed.Fprintln(out, "seed failed")
				return goerr.Wrap(err, "seed failed", goerr.V("dataset", datasetPath))
			}

			_, _ = colorCreated.Fprintln(out, "seed completed")
			return nil
		},
	}
}
