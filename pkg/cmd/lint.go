package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

// lint creates the CLI command for linting a generated file. SQL files go
// through sqlfluff, YAML files through yamllint; the extension decides.
// Findings are printed one per line and the command exits zero either way,
// matching the advisory role linting plays in the pipeline.
func lint(fluff *sqlfluff.Runner) *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint a SQL or YAML file",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("exactly one path argument is required")
			}

			path := cmd.Args().First()

			var violations []sqlfluff.Violation
			if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
				violations = fluff.TryLintYAML(ctx, path)
			} else {
				violations = fluff.TryLint(ctx, path)
			}

			for _, v := range violations {
				if v.Code != "" {
					fmt.Fprintf(cmd.Writer, "L%d [%s] %s\n", v.Line, v.Code, v.Description)
					continue
				}
				fmt.Fprintln(cmd.Writer, v.Description)
			}

			status(cmd.Writer, len(violations) == 0, "%d finding(s) in %s", len(violations), path)
			return nil
		},
	}
}
