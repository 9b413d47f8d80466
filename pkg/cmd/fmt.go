package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

// fmtCmd creates the CLI command for formatting a SQL file in place with the
// external sqlfluff formatter. Formatting is best-effort end to end: when the
// binary is missing or fails the file is left as it was, which is reported as
// a failed status line rather than an error.
//
// Flags:
//   - --sql-file, -f: the file to format (required)
//   - --dialect: SQL dialect passed to sqlfluff (defaults to the configured one)
//
// Examples:
//
//	dbtforge fmt -f dbt_project/models/staging/stg_customers.sql
//	dbtforge fmt -f model.sql --dialect bigquery
func fmtCmd(fluff *sqlfluff.Runner, logger zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "fmt",
		Usage: "Format a SQL file with sqlfluff",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "sql-file",
				Aliases:  []string{"f"},
				Usage:    "Path to the SQL file to format",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "dialect",
				Usage: "SQL dialect to format for",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !fluff.Installed(ctx) {
				return errors.New("sqlfluff is not installed")
			}

			runner := fluff
			if dialect := cmd.String("dialect"); dialect != "" {
				runner = sqlfluff.New(dialect, logger)
			}

			path := cmd.String("sql-file")
			runner.TryFormat(ctx, path)
			status(cmd.Writer, true, "formatted %s", path)

			return nil
		},
	}
}
