package sources_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/dbtforge/dbtforge/pkg/catalog"
	"github.com/dbtforge/dbtforge/pkg/mapping"
	. "github.com/dbtforge/dbtforge/pkg/sources"
)

func customersRow() catalog.SourceTableRow {
	return catalog.SourceTableRow{
		TableName:        "customers",
		Database:         "analytics",
		Schema:           "raw_data",
		Description:      "Customer master data",
		Location:         "s3://bucket/raw/customers/",
		FileFormat:       "CSV",
		PartitionBy:      "load_date",
		ClusterBy:        "region",
		RefreshFrequency: "daily",
	}
}

func idColumnDef() catalog.ColumnDef {
	return catalog.ColumnDef{
		SchemaName: "raw_data",
		TableName:  "customers",
		Name:       "id",
		DataType:   "bigint",
		PrimaryKey: true,
		Nullable:   false,
	}
}

func TestDeriveTests(t *testing.T) {
	tests := []struct {
		name     string
		def      catalog.ColumnDef
		expected []string
	}{
		{
			name:     "primary key",
			def:      catalog.ColumnDef{PrimaryKey: true, Nullable: false},
			expected: []string{"unique", "not_null"},
		},
		{
			name:     "not nullable",
			def:      catalog.ColumnDef{Nullable: false},
			expected: []string{"not_null"},
		},
		{
			name:     "plain column",
			def:      catalog.ColumnDef{Nullable: true},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, DeriveTests(tt.def))
		})
	}
}

func TestResolveColumnsPrecedence(t *testing.T) {
	row := customersRow()
	defs := []catalog.ColumnDef{idColumnDef()}
	doc := &mapping.Document{
		StagingModels: []*mapping.Model{{
			Name:        "stg_customers",
			SourceTable: "customers",
			Columns: []*mapping.Column{
				{Name: "customer_id", DataType: "bigint", Description: "Renamed key"},
			},
		}},
	}

	t.Run("mapping wins over catalog", func(t *testing.T) {
		cols := ResolveColumns(row, doc, defs)
		require.Len(t, cols, 1)
		require.Equal(t, "customer_id", cols[0].Name)
		require.Empty(t, cols[0].Tests)
	})

	t.Run("catalog fallback when mapping has no entry", func(t *testing.T) {
		cols := ResolveColumns(row, &mapping.Document{}, defs)
		require.Len(t, cols, 1)
		require.Equal(t, "id", cols[0].Name)
		require.Equal(t, []string{"unique", "not_null"}, cols[0].Tests)
	})

	t.Run("nil mapping document", func(t *testing.T) {
		cols := ResolveColumns(row, nil, defs)
		require.Len(t, cols, 1)
		require.Equal(t, "id", cols[0].Name)
	})

	t.Run("no columns anywhere", func(t *testing.T) {
		require.Empty(t, ResolveColumns(row, &mapping.Document{}, nil))
	})
}

func TestBuildTable(t *testing.T) {
	t.Run("optional attributes present", func(t *testing.T) {
		table := BuildTable(customersRow(), nil)
		require.Equal(t, "customers", table.Name)
		require.Equal(t, []Partition{{Name: "load_date", DataType: "date"}}, table.External.Partitions)
		require.Equal(t, []string{"region"}, table.External.ClusterBy)
		require.Equal(t, "daily", table.External.RefreshFrequency)
	})

	t.Run("optional attributes absent", func(t *testing.T) {
		table := BuildTable(catalog.SourceTableRow{TableName: "orders"}, nil)
		require.Nil(t, table.External.Partitions)
		require.Nil(t, table.External.ClusterBy)
		require.Empty(t, table.External.RefreshFrequency)
	})
}

func TestMergeIdempotent(t *testing.T) {
	doc := NewDocument()
	table := BuildTable(customersRow(), []*Column{{Name: "id", DataType: "bigint"}})

	doc.Merge("raw_data", table)
	once, err := doc.Encode()
	require.NoError(t, err)

	doc.Merge("raw_data", BuildTable(customersRow(), []*Column{{Name: "id", DataType: "bigint"}}))
	twice, err := doc.Encode()
	require.NoError(t, err)

	require.Equal(t, string(once), string(twice))
	require.Len(t, doc.Sources, 1)
	require.Len(t, doc.Sources[0].Tables, 1)
}

func TestMergePreservesSiblings(t *testing.T) {
	doc := NewDocument()
	first := BuildTable(customersRow(), nil)
	doc.Merge("raw_data", first)

	second := BuildTable(catalog.SourceTableRow{
		TableName:  "orders",
		Database:   "analytics",
		Schema:     "raw_data",
		Location:   "s3://bucket/raw/orders/",
		FileFormat: "PARQUET",
	}, nil)
	doc.Merge("raw_data", second)

	require.Len(t, doc.Sources, 1)
	require.Len(t, doc.Sources[0].Tables, 2)
	require.Empty(t, cmp.Diff(first, doc.Sources[0].Tables[0]))
	require.Equal(t, "orders", doc.Sources[0].Tables[1].Name)
}

func TestMergeReplacesStaleEntry(t *testing.T) {
	doc := NewDocument()
	doc.Merge("raw_data", &Table{Name: "customers", Description: "old"})
	doc.Merge("raw_data", &Table{Name: "customers", Description: "new"})

	require.Len(t, doc.Sources[0].Tables, 1)
	require.Equal(t, "new", doc.Sources[0].Tables[0].Description)
}

func TestLoadDocument(t *testing.T) {
	t.Run("missing file yields empty document", func(t *testing.T) {
		doc, err := LoadDocument(filepath.Join(t.TempDir(), "sources.yml"))
		require.NoError(t, err)
		require.Equal(t, DocumentVersion, doc.Version)
		require.Empty(t, doc.Sources)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sources.yml")
		doc := NewDocument()
		doc.Merge("raw_data", BuildTable(customersRow(), []*Column{{Name: "id", DataType: "bigint", Tests: []string{"unique", "not_null"}}}))
		require.NoError(t, doc.Write(path))

		loaded, err := LoadDocument(path)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(doc, loaded))
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sources.yml")
		require.NoError(t, os.WriteFile(path, []byte("sources: ["), 0o644))

		doc, err := LoadDocument(path)
		require.Error(t, err)
		require.Nil(t, doc)
	})
}

func TestMergerEndToEnd(t *testing.T) {
	// Catalog row with no mapping entry and one schema-definitions row: the
	// written document carries the customers table with a tested id column.
	root := t.TempDir()
	m := NewMerger(root, nil, zerolog.Nop())

	rows := []catalog.SourceTableRow{customersRow()}
	defs := []catalog.ColumnDef{idColumnDef()}
	require.NoError(t, m.MergeAll(context.Background(), rows, &mapping.Document{}, defs))

	path := filepath.Join(root, "models", "analytics", "raw_data", "sources.yml")
	require.FileExists(t, path)

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, doc.Sources, 1)
	require.Equal(t, "raw_data", doc.Sources[0].Name)

	table := doc.Sources[0].Tables[0]
	require.Equal(t, "customers", table.Name)
	require.Len(t, table.Columns, 1)
	require.Equal(t, "id", table.Columns[0].Name)
	require.Equal(t, []string{"unique", "not_null"}, table.Columns[0].Tests)

	// Re-running the full merge must not duplicate anything.
	require.NoError(t, m.MergeAll(context.Background(), rows, &mapping.Document{}, defs))
	again, err := LoadDocument(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(doc, again))
}

func TestDocumentGolden(t *testing.T) {
	doc := NewDocument()
	doc.Merge("raw_data", BuildTable(customersRow(), []*Column{
		{Name: "id", DataType: "bigint", Tests: []string{"unique", "not_null"}},
	}))

	data, err := doc.Encode()
	require.NoError(t, err)
	golden.Assert(t, string(data), "customers.yml")
}
