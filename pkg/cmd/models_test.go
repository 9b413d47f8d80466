package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbtforge/dbtforge/pkg/cmd/testutil"
)

func TestModelsCommand_RequiresMapping(t *testing.T) {
	cfg, factory := testDeps(t)

	err := testutil.RunCommand(t, models(cfg, factory),
		[]string{"-m", "", "-p", t.TempDir()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no mapping document provided")
}

func TestModelsCommand_WritesDrafts(t *testing.T) {
	cfg, factory := testDeps(t)
	root := filepath.Join(t.TempDir(), "proj")
	mappingPath := writeTestFile(t, "table_mappings.yaml", testMappingYAML)

	err := testutil.RunCommand(t, models(cfg, factory),
		[]string{"-m", mappingPath, "-p", root})
	require.NoError(t, err)

	// No endpoint is configured, so drafts carry the fallback text.
	data, err := os.ReadFile(filepath.Join(root, "models", "staging", "stg_customers.sql"))
	require.NoError(t, err)
	require.Contains(t, string(data), "-- No code generated")
	require.FileExists(t, filepath.Join(root, "models", "marts", "dim_customers.sql"))
}
