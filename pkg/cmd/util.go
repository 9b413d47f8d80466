package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
)

// ErrDeadlineExceeded reports that a run hit the configured watchdog
// deadline. The underlying work is abandoned, not cancelled; whatever files
// it already wrote remain on disk.
var ErrDeadlineExceeded = errors.New("generation timed out")

// runWithTimeout executes fn under a watchdog. The deadline is enforced by
// racing fn against a timer, so a stuck external call cannot wedge the CLI
// even when it ignores context cancellation.
func runWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return errors.Wrapf(ErrDeadlineExceeded, "after %s", timeout)
	}
}

// status prints a single pass/fail line for one step of a run.
func status(w io.Writer, ok bool, format string, args ...any) {
	mark := "✓"
	if !ok {
		mark = "✗"
	}

	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}
