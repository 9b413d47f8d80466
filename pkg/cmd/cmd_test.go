package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/llm"
	"github.com/dbtforge/dbtforge/pkg/project"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

const testMappingYAML = `
staging_models:
  - name: stg_customers
    type: staging
    source_table: customers
    columns:
      - name: id
        data_type: bigint
models:
  - name: dim_customers
    type: marts
    mart_type: dimensions
    columns:
      - name: customer_id
        data_type: bigint
`

const testSourceCSV = "table_name,source_database,source_schema,description,location,file_format\n" +
	"customers,analytics,raw_data,Customer master data,s3://bucket/raw/customers/,CSV\n"

// testDeps builds command dependencies against an empty PATH (no external
// binaries) and no text-generation endpoint, so commands exercise their
// fallback behavior without touching the network.
func testDeps(t *testing.T) (*config.Config, project.Factory) {
	t.Helper()
	t.Setenv("PATH", t.TempDir())

	cfg, err := config.New()
	require.NoError(t, err)

	logger := zerolog.Nop()
	client := llm.New(cfg.LLM, filepath.Join(t.TempDir(), "logs"), logger)
	fluff := sqlfluff.New(cfg.Dialect, logger)

	return cfg, func(root string) *project.Generator {
		return project.New(cfg, root, client, fluff, logger)
	}
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
