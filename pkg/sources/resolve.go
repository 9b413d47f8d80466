package sources

import (
	"github.com/dbtforge/dbtforge/pkg/catalog"
	"github.com/dbtforge/dbtforge/pkg/mapping"
)

// ResolveColumns produces the column list for a source table. Resolution is
// a strict two-stage lookup: the mapping document's staging entry wins
// outright when present; only when it yields nothing does the
// schema-definitions catalog contribute. The two sources are never merged
// column-by-column; first populated source wins.
func ResolveColumns(row catalog.SourceTableRow, doc *mapping.Document, defs []catalog.ColumnDef) []*Column {
	if doc != nil {
		if cols := columnsFromMapping(doc, row.TableName); len(cols) > 0 {
			return cols
		}
	}

	return columnsFromCatalog(row, defs)
}

// columnsFromMapping carries a staging entry's columns over verbatim. Quote,
// alias, and expression pass through only when the author set them.
func columnsFromMapping(doc *mapping.Document, table string) []*Column {
	stg := doc.StagingFor(table)
	if stg == nil {
		return nil
	}

	cols := make([]*Column, 0, len(stg.Columns))
	for _, c := range stg.Columns {
		cols = append(cols, &Column{
			Name:        c.Name,
			DataType:    c.DataType,
			Description: c.Description,
			Quote:       c.Quote,
			Alias:       c.Alias,
			Expression:  c.Expression,
		})
	}

	return cols
}

// columnsFromCatalog builds columns from schema-definition rows matching the
// table's (schema, table) pair, deriving data-quality tests from the
// nullability and key flags.
func columnsFromCatalog(row catalog.SourceTableRow, defs []catalog.ColumnDef) []*Column {
	var cols []*Column
	for _, def := range defs {
		if def.SchemaName != row.Schema || def.TableName != row.TableName {
			continue
		}

		cols = append(cols, &Column{
			Name:        def.Name,
			DataType:    def.DataType,
			Description: def.Description,
			Expression:  def.Expression,
			Tests:       DeriveTests(def),
		})
	}

	return cols
}

// DeriveTests maps catalog flags to test annotations: a primary key gets
// [unique, not_null], a non-nullable column gets [not_null], anything else
// gets no tests.
func DeriveTests(def catalog.ColumnDef) []string {
	switch {
	case def.PrimaryKey:
		return []string{"unique", "not_null"}
	case !def.Nullable:
		return []string{"not_null"}
	default:
		return nil
	}
}

// BuildTable derives the table descriptor for one catalog row. Optional
// attributes (partitioning, clustering, refresh frequency, columns) appear
// only when the row provides them; partition columns are fixed to type date.
func BuildTable(row catalog.SourceTableRow, cols []*Column) *Table {
	table := &Table{
		Name:        row.TableName,
		Description: row.Description,
		External: External{
			Location:   row.Location,
			FileFormat: row.FileFormat,
		},
		Columns: cols,
	}

	if row.PartitionBy != "" {
		table.External.Partitions = []Partition{{Name: row.PartitionBy, DataType: "date"}}
	}
	if row.ClusterBy != "" {
		table.External.ClusterBy = []string{row.ClusterBy}
	}
	if row.RefreshFrequency != "" {
		table.External.RefreshFrequency = row.RefreshFrequency
	}

	return table
}
