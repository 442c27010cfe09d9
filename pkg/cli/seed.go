package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/cli/config"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
	"github.com/mateh-lab/taskcast/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var orgPath string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "org-file",
			Usage:       "Path to the organization TOML file (units and members)",
			Required:    true,
			Sources:     cli.EnvVars("TASKCAST_ORG_FILE"),
			Destination: &orgPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load the organization tree and member directory into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			org, err := config.LoadOrgConfiguration(orgPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load org configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			for _, u := range org.DomainUnits() {
				if err := repo.Unit().Put(ctx, u); err != nil {
					return goerr.Wrap(err, "failed to store unit", goerr.V("id", u.ID))
				}
			}
			for _, m := range org.DomainMembers() {
				if err := repo.Member().Put(ctx, m); err != nil {
					return goerr.Wrap(err, "failed to store member", goerr.V("id", m.ID))
				}
			}

			logging.Default().Info("Organization seeded",
				"units", len(org.Units),
				"members", len(org.Members),
				"path", orgPath,
			)
			return nil
		},
	}
}
