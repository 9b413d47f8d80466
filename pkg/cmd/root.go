package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Logger     zerolog.Logger
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the main dbtforge CLI application with the given
// version and command-line arguments. This function serves as the main entry
// point for all CLI operations.
//
// Configuration comes from the environment (optionally a .env file) and is
// resolved before any command runs; commands receive their collaborators via
// dependency injection rather than reading globals. Individual commands expose
// flags for the inputs they consume, defaulting to the configured paths.
//
// Example usage:
//
//	# Full scaffolding run with configured inputs
//	dbtforge generate
//
//	# Merge a specific catalog into a different project root
//	dbtforge generate --csv-path ./catalogs/tables.csv --project-root ./analytics
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "dbtforge",
		Usage: "A tool for scaffolding dbt analytics projects",
		Description: `dbtforge is a CLI tool that scaffolds dbt projects from table catalogs
and mapping documents: it merges source definitions, drafts model SQL for
human review, and generates schema documents and unit-test stubs.`,
		Version:  p.Version.Version,
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			p.Logger.Error().Err(err).Msg("command failed")
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}
