package llm

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dbtforge/dbtforge/pkg/config"
)

var Module = fx.Module("llm", fx.Provide(
	func(cfg *config.Config, logger zerolog.Logger) *Client {
		return New(cfg.LLM, filepath.Join(cfg.Paths.ProjectRoot, "logs"), logger)
	},
))
