package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/llm"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

// validate creates the CLI command that reports whether the environment is
// ready for a generation run: configuration shape, advisory configuration
// issues, text-generation credentials, and formatter availability. Findings
// are printed as status lines; only a malformed configuration is an error.
func validate(cfg *config.Config, client *llm.Client, fluff *sqlfluff.Runner) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check configuration and external tooling",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			err := cfg.Validate()
			status(cmd.Writer, err == nil, "configuration")
			if err != nil {
				return err
			}

			for _, issue := range cfg.Issues() {
				fmt.Fprintln(cmd.Writer, "  -", issue)
			}

			status(cmd.Writer, client.Configured(), "text-generation endpoint configured")
			status(cmd.Writer, fluff.Installed(ctx), "sqlfluff installed")

			return nil
		},
	}
}
