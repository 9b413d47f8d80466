package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dbtforge/dbtforge/pkg/cmd"
	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/llm"
	"github.com/dbtforge/dbtforge/pkg/project"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			context.Background,
			func() []string { return os.Args },
			func() *cmd.Version {
				return &cmd.Version{Version: version, Commit: commit, Timestamp: date}
			},
			func() zerolog.Logger {
				return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			},
		),
		config.Module,
		llm.Module,
		sqlfluff.Module,
		project.Module,
		cmd.Module,
	).Run()
}
