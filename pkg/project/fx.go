package project

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/llm"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

var Module = fx.Module("project", fx.Provide(
	func(cfg *config.Config, client *llm.Client, fluff *sqlfluff.Runner, logger zerolog.Logger) Factory {
		return func(projectRoot string) *Generator {
			return New(cfg, projectRoot, client, fluff, logger)
		}
	},
))
