package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(fmtCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(generate, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(initCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(lint, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(models, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(schemas, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(sourcesCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(testsCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(validate, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
