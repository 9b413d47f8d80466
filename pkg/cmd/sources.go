package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/project"
)

// sourcesCmd creates the CLI command for merging a source-table catalog into
// the project's per-(database, schema) sources.yml documents. The merge is
// idempotent: re-running with the same catalog produces byte-identical
// documents, and tables defined by hand for other schemas are preserved.
func sourcesCmd(cfg *config.Config, newGenerator project.Factory) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "Merge the source-table catalog into sources.yml documents",
		Flags: []cli.Flag{
			csvPathFlag(cfg),
			projectRootFlag(cfg),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			csvPath := cmd.String("csv-path")
			if csvPath == "" {
				return errors.New("no source catalog provided; pass --csv-path or set SOURCE_CSV_PATH")
			}

			g := newGenerator(cmd.String("project-root"))
			if err := g.CreateStructure(); err != nil {
				return err
			}

			err := g.MergeSources(ctx, csvPath)
			status(cmd.Writer, err == nil, "source merge from %s", csvPath)
			return err
		},
	}
}
