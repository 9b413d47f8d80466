package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRunWithTimeout_Completes(t *testing.T) {
	err := runWithTimeout(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
}

func TestRunWithTimeout_PropagatesError(t *testing.T) {
	boom := errors.New("boom")

	err := runWithTimeout(context.Background(), time.Second, func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestRunWithTimeout_DeadlineExceeded(t *testing.T) {
	// The step sleeps past its budget while ignoring cancellation, like a
	// stuck external call would.
	err := runWithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		time.Sleep(500 * time.Millisecond)
		return nil
	})
	require.ErrorIs(t, err, ErrDeadlineExceeded)
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer

	status(&buf, true, "merged %d tables", 3)
	status(&buf, false, "formatting")

	require.Equal(t, "✓ merged 3 tables\n✗ formatting\n", buf.String())
}
