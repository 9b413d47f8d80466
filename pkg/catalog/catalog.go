package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Defaults applied when a catalog row leaves the field blank.
const (
	DefaultDatabase = "default"
	DefaultSchema   = "public"
)

type (
	// SourceTableRow is one row of the source-table catalog. Rows are
	// consumed once per generation run; they carry no identity beyond the
	// (database, schema, table) triple they describe.
	SourceTableRow struct {
		TableName        string
		Database         string
		Schema           string
		Description      string
		Location         string
		FileFormat       string
		PartitionBy      string
		ClusterBy        string
		RefreshFrequency string
	}

	// ColumnDef is one row of the schema-definitions catalog, describing a
	// single column of a physical source table.
	ColumnDef struct {
		SchemaName   string
		TableName    string
		Name         string
		DataType     string
		Description  string
		Expression   string
		DefaultValue string
		Nullable     bool
		PrimaryKey   bool
		Unique       bool
	}
)

// ReadSourceTables parses the source-table catalog at path. The file must
// have a header row naming at least table_name; all other columns are
// optional and default per row (database "default", schema "public").
//
// A row with an empty table_name is a fatal input error: the catalog is the
// authority on which tables exist, and a nameless entry cannot be merged.
func ReadSourceTables(path string) ([]SourceTableRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source catalog: %s", path)
	}

	rows := make([]SourceTableRow, 0, len(records))
	for i, rec := range records {
		row := SourceTableRow{
			TableName:        rec["table_name"],
			Database:         rec["source_database"],
			Schema:           rec["source_schema"],
			Description:      rec["description"],
			Location:         rec["location"],
			FileFormat:       rec["file_format"],
			PartitionBy:      rec["partition_by"],
			ClusterBy:        rec["cluster_by"],
			RefreshFrequency: rec["refresh_frequency"],
		}

		if row.TableName == "" {
			return nil, errors.Errorf("source catalog %s: row %d has no table_name", path, i+2)
		}
		if row.Database == "" {
			row.Database = DefaultDatabase
		}
		if row.Schema == "" {
			row.Schema = DefaultSchema
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// ReadSchemaDefinitions parses the schema-definitions catalog at path.
// Boolean columns accept native-looking literals ("true"/"false", any case);
// anything else falls back to the column default (nullable true, primary key
// and unique false).
func ReadSchemaDefinitions(path string) ([]ColumnDef, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema definitions: %s", path)
	}

	defs := make([]ColumnDef, 0, len(records))
	for _, rec := range records {
		defs = append(defs, ColumnDef{
			SchemaName:   rec["schema_name"],
			TableName:    rec["table_name"],
			Name:         rec["column_name"],
			DataType:     rec["data_type"],
			Description:  rec["description"],
			Expression:   rec["expression"],
			DefaultValue: rec["default_value"],
			Nullable:     ParseBool(rec["is_nullable"], true),
			PrimaryKey:   ParseBool(rec["is_primary_key"], false),
			Unique:       ParseBool(rec["is_unique"], false),
		})
	}

	return defs, nil
}

// ParseBool coerces a catalog cell into a boolean. "true" and "false" are
// recognized case-insensitively; any other value (including empty) yields
// the provided default.
func ParseBool(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// ValidateSchemaDefinitions checks the catalog for structural issues:
// duplicate column names within a table, columns without a name, and columns
// without a data type. Issues are advisory; callers report them and proceed.
func ValidateSchemaDefinitions(defs []ColumnDef) []string {
	var issues []string

	type tableKey struct{ schema, table string }
	seen := make(map[tableKey]map[string]int)
	order := make([]tableKey, 0)

	for _, def := range defs {
		key := tableKey{def.SchemaName, def.TableName}
		if _, ok := seen[key]; !ok {
			seen[key] = make(map[string]int)
			order = append(order, key)
		}
		seen[key][def.Name]++

		qualified := def.SchemaName + "." + def.TableName
		if def.Name == "" {
			issues = append(issues, "missing column name in "+qualified)
		}
		if def.DataType == "" {
			issues = append(issues, "missing data type for column "+def.Name+" in "+qualified)
		}
	}

	for _, key := range order {
		for name, count := range seen[key] {
			if name != "" && count > 1 {
				issues = append(issues, "duplicate column name in "+key.schema+"."+key.table+": "+name)
			}
		}
	}

	return issues
}

// readCSV loads a header-keyed CSV file into one map per data row. Cells are
// trimmed; missing trailing cells read as empty strings.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read row")
		}

		m := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				m[name] = strings.TrimSpace(rec[i])
			} else {
				m[name] = ""
			}
		}
		records = append(records, m)
	}

	return records, nil
}
