package sqlfluff

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dbtforge/dbtforge/pkg/config"
)

var Module = fx.Module("sqlfluff", fx.Provide(
	func(cfg *config.Config, logger zerolog.Logger) *Runner {
		return New(cfg.Dialect, logger)
	},
))
