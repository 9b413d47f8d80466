package project_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/llm"
	. "github.com/dbtforge/dbtforge/pkg/project"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

const endpoint = "https://llm.example.com/v1/chat/completions"

const mappingYAML = `
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
    expected_behavior: One row per customer
    columns:
      - name: customer_id
        data_type: bigint
`

const sourceCSV = "table_name,source_database,source_schema,description,location,file_format\n" +
	"customers,analytics,raw_data,Customer master data,s3://bucket/raw/customers/,CSV\n"

const schemaDefsCSV = "schema_name,table_name,column_name,data_type,is_nullable,is_primary_key\n" +
	"raw_data,customers,id,bigint,false,true\n"

// newGenerator builds a Generator against a mocked collaborator and a PATH
// with no external binaries, so formatting degrades to a no-op.
func newGenerator(t *testing.T, root string) *Generator {
	t.Helper()
	t.Setenv("PATH", t.TempDir())

	cfg, err := config.New()
	require.NoError(t, err)

	client := llm.New(config.LLM{
		APIURL:    endpoint,
		APIKey:    "secret",
		Model:     "gpt-4",
		MaxTokens: 100,
	}, filepath.Join(root, "logs"), zerolog.Nop())

	httpmock.ActivateNonDefault(client.Resty().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("POST", endpoint,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "select 1 as id\nfrom source"}},
			},
		}))

	return New(cfg, root, client, sqlfluff.New("snowflake", zerolog.Nop()), zerolog.Nop())
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateStructure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dbt_project")

	require.NoError(t, CreateStructure(root))
	for _, dir := range []string{"models", "macros", "tests", "docs", "logs", "target"} {
		require.DirExists(t, filepath.Join(root, dir))
	}

	// Idempotent: a second run must not fail or disturb existing content.
	marker := filepath.Join(root, "models", "keep.sql")
	require.NoError(t, os.WriteFile(marker, []byte("-- keep"), 0o644))
	require.NoError(t, CreateStructure(root))
	require.FileExists(t, marker)
}

func TestGenerateModels(t *testing.T) {
	root := t.TempDir()
	g := newGenerator(t, root)
	mappingPath := writeInput(t, t.TempDir(), "mappings.yaml", mappingYAML)

	require.NoError(t, g.CreateStructure())
	require.NoError(t, g.GenerateModels(context.Background(), mappingPath))

	t.Run("staging model under its type directory", func(t *testing.T) {
		require.FileExists(t, filepath.Join(root, "models", "staging", "stg_customers.sql"))
	})

	t.Run("marts model directly under marts", func(t *testing.T) {
		require.FileExists(t, filepath.Join(root, "models", "marts", "dim_customers.sql"))
	})

	t.Run("file is entirely commented out", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(root, "models", "marts", "dim_customers.sql"))
		require.NoError(t, err)

		for _, line := range strings.Split(string(data), "\n") {
			require.True(t, strings.HasPrefix(line, "-- "), "line not commented: %q", line)
		}
		require.Contains(t, string(data), "-- select 1 as id")
	})

	t.Run("audit record written per model", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(root, "logs", "model_generation_dim_customers.log"))
		require.NoError(t, err)
		require.Contains(t, string(data), "URL: "+endpoint)
		require.Contains(t, string(data), "Authorization: Bearer secret")
	})

	t.Run("missing mapping file is fatal", func(t *testing.T) {
		err := g.GenerateModels(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestGenerateModelsCollaboratorFailure(t *testing.T) {
	root := t.TempDir()
	g := newGenerator(t, root)
	mappingPath := writeInput(t, t.TempDir(), "mappings.yaml", mappingYAML)

	httpmock.Reset()
	httpmock.RegisterResponder("POST", endpoint,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{"error": "overloaded"}))

	require.NoError(t, g.CreateStructure())
	require.NoError(t, g.GenerateModels(context.Background(), mappingPath))

	data, err := os.ReadFile(filepath.Join(root, "models", "staging", "stg_customers.sql"))
	require.NoError(t, err)
	require.Contains(t, string(data), "-- No code generated")
	require.Contains(t, string(data), "-- No tester suggestions.")
}

func TestGenerateUnitTests(t *testing.T) {
	root := t.TempDir()
	g := newGenerator(t, root)
	mappingPath := writeInput(t, t.TempDir(), "mappings.yaml", mappingYAML)
	require.NoError(t, g.CreateStructure())

	t.Run("missing model file is an advisory skip", func(t *testing.T) {
		require.NoError(t, g.GenerateUnitTests(context.Background(), mappingPath))
		require.NoFileExists(t, filepath.Join(root, "tests", "test_dim_customers.sql"))
	})

	t.Run("writes stub when the model file exists", func(t *testing.T) {
		modelDir := filepath.Join(root, "models", "marts", "dimensions")
		require.NoError(t, os.MkdirAll(modelDir, 0o755))
		writeInput(t, modelDir, "dim_customers.sql", "-- select 1")

		require.NoError(t, g.GenerateUnitTests(context.Background(), mappingPath))

		data, err := os.ReadFile(filepath.Join(root, "tests", "test_dim_customers.sql"))
		require.NoError(t, err)
		require.Contains(t, string(data), "select 1 as id")
	})
}

func TestRunFullGeneration(t *testing.T) {
	inputs := t.TempDir()
	root := filepath.Join(t.TempDir(), "dbt_project")

	t.Setenv("PROJECT_ROOT", root)
	t.Setenv("SOURCE_CSV_PATH", writeInput(t, inputs, "source_tables.csv", sourceCSV))
	t.Setenv("SCHEMA_DEFINITIONS_PATH", writeInput(t, inputs, "schema_definitions.csv", schemaDefsCSV))
	t.Setenv("MAPPING_YAML_PATH", writeInput(t, inputs, "table_mappings.yaml", mappingYAML))

	g := newGenerator(t, root)
	require.NoError(t, g.Run(context.Background(), os.Getenv("SOURCE_CSV_PATH"), os.Getenv("MAPPING_YAML_PATH")))

	require.FileExists(t, filepath.Join(root, "models", "analytics", "raw_data", "sources.yml"))
	require.FileExists(t, filepath.Join(root, "models", "staging", "stg_customers.sql"))
	require.FileExists(t, filepath.Join(root, "models", "marts", "dim_customers.sql"))
	require.FileExists(t, filepath.Join(root, "models", "marts", "dimensions", "schema.yml"))
}
