package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

// RunCommand executes a command with test context
func RunCommand(t *testing.T, command *cli.Command, args []string) error {
	t.Helper()

	_, err := RunCommandWithOutput(t, command, args)
	return err
}

// RunCommandWithOutput executes a command and captures what it wrote
func RunCommandWithOutput(t *testing.T, command *cli.Command, args []string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	command.Writer = &buf

	// Create a test CLI app
	app := &cli.Command{
		Name:     "test",
		Writer:   &buf,
		Commands: []*cli.Command{command},
	}

	// Prepend command name to args
	fullArgs := append([]string{"test", command.Name}, args...)

	err := app.Run(context.Background(), fullArgs)
	return buf.String(), err
}

// RunCommandWithContext executes a command with a custom context
func RunCommandWithContext(ctx context.Context, t *testing.T, command *cli.Command, args []string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "test",
		Commands: []*cli.Command{command},
	}

	fullArgs := append([]string{"test", command.Name}, args...)

	return app.Run(ctx, fullArgs)
}
