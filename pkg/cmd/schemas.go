package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/project"
)

// schemas creates the CLI command for generating schema.yml documents, one
// per model output directory. Validation findings from the mapping document
// and the optional schema-definitions catalog are advisory.
func schemas(cfg *config.Config, newGenerator project.Factory) *cli.Command {
	return &cli.Command{
		Name:  "schemas",
		Usage: "Generate schema.yml documents for mapped models",
		Flags: []cli.Flag{
			mappingPathFlag(cfg),
			projectRootFlag(cfg),
			&cli.StringFlag{
				Name:  "schema-csv",
				Usage: "Path to the schema-definitions catalog CSV",
				Value: cfg.Paths.SchemaDefs,
			},
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

			err := g.GenerateSchemas(ctx, mappingPath, cmd.String("schema-csv"))
			status(cmd.Writer, err == nil, "schema documents from %s", mappingPath)
			return err
		},
	}
}
