package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbtforge/dbtforge/pkg/cmd/testutil"
)

func TestInitCommand(t *testing.T) {
	cfg, factory := testDeps(t)
	root := filepath.Join(t.TempDir(), "proj")

	out, err := testutil.RunCommandWithOutput(t, initCmd(cfg, factory), []string{"-p", root})
	require.NoError(t, err)
	require.Contains(t, out, "✓ project structure in "+root)

	for _, dir := range []string{"models", "macros", "tests", "docs", "logs", "target"} {
		require.DirExists(t, filepath.Join(root, dir))
	}

	// Re-running against an existing project is fine.
	err = testutil.RunCommand(t, initCmd(cfg, factory), []string{"-p", root})
	require.NoError(t, err)
}
