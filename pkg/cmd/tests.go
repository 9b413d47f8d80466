package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/project"
)

// testsCmd creates the CLI command for generating unit-test stubs under
// tests/. Models whose SQL file is missing are skipped with a warning.
func testsCmd(cfg *config.Config, newGenerator project.Factory) *cli.Command {
	return &cli.Command{
		Name:  "tests",
		Usage: "Generate unit-test stubs for mapped models",
		Flags: []cli.Flag{
			mappingPathFlag(cfg),
			projectRootFlag(cfg),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mappingPath := cmd.String("mapping-path")
			if mappingPath == "" {
				return errors.New("no mapping document provided; pass --mapping-path or set MAPPING_YAML_PATH")
			}

			g := newGenerator(cmd.String("project-root"))
			if err := g.CreateStructure(); err != nil {
				return err
			}

			err := g.GenerateUnitTests(ctx, mappingPath)
			status(cmd.Writer, err == nil, "unit-test stubs from %s", mappingPath)
			return err
		},
	}
}
