package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/project"
)

// generate creates the CLI command for a full scaffolding run: project
// skeleton, source-catalog merge, model bodies, schema documents, and
// unit-test stubs, in that order.
//
// Inputs default to the configured paths and can be overridden per
// invocation:
//   - --csv-path, -c: source-table catalog (skips the merge when empty)
//   - --mapping-path, -m: mapping document (skips model phases when empty)
//   - --project-root, -p: directory the project is written below
//
// The whole run executes under the configured watchdog deadline. A run that
// exceeds it is abandoned with ErrDeadlineExceeded; files written before the
// deadline are kept.
//
// Examples:
//
//	# Run with configured inputs
//	dbtforge generate
//
//	# Only merge a catalog, into a different root
//	dbtforge generate -m "" -c ./catalogs/tables.csv -p ./analytics
func generate(cfg *config.Config, newGenerator project.Factory) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Run the full project scaffolding pipeline",
		Flags: []cli.Flag{
			csvPathFlag(cfg),
			mappingPathFlag(cfg),
			projectRootFlag(cfg),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			g := newGenerator(cmd.String("project-root"))

			err := runWithTimeout(ctx, cfg.Timeout, func(ctx context.Context) error {
				return g.Run(ctx, cmd.String("csv-path"), cmd.String("mapping-path"))
			})

			status(cmd.Writer, err == nil, "project generation in %s", g.Root())
			return err
		},
	}
}

func csvPathFlag(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:    "csv-path",
		Aliases: []string{"c"},
		Usage:   "Path to the source-table catalog CSV",
		Value:   cfg.Paths.SourceCSV,
	}
}

func mappingPathFlag(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:    "mapping-path",
		Aliases: []string{"m"},
		Usage:   "Path to the table mapping YAML document",
		Value:   cfg.Paths.MappingYAML,
	}
}

func projectRootFlag(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:    "project-root",
		Aliases: []string{"p"},
		Usage:   "Directory the dbt project is written below",
		Value:   cfg.Paths.ProjectRoot,
	}
}
