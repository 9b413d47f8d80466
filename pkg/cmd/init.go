package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/project"
)

// initCmd creates the CLI command for materializing the standard dbt project
// skeleton. Safe to run repeatedly; existing directories and files are left
// untouched.
func initCmd(cfg *config.Config, newGenerator project.Factory) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the dbt project directory structure",
		Flags: []cli.Flag{
			projectRootFlag(cfg),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			g := newGenerator(cmd.String("project-root"))

			err := g.CreateStructure()
			status(cmd.Writer, err == nil, "project structure in %s", g.Root())
			return err
		},
	}
}
