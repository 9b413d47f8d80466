package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/project"
)

// models creates the CLI command for drafting model SQL files from the
// mapping document. Every generated file is written fully commented out;
// deploying a model is a deliberate human step, not a side effect of
// generation.
func models(cfg *config.Config, newGenerator project.Factory) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "Generate commented-out model SQL drafts from the mapping document",
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

			err := g.GenerateModels(ctx, mappingPath)
			status(cmd.Writer, err == nil, "model drafts from %s", mappingPath)
			return err
		},
	}
}
