package sources

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the schema version stamped on every source document.
const DocumentVersion = 2

type (
	// Document is one persisted sources.yml, scoped to a single
	// (database, schema) pair. Field order in these structs is the emission
	// order; documents are written whole, never patched.
	Document struct {
		Version int      `yaml:"version"`
		Sources []*Entry `yaml:"sources"`
	}

	// Entry groups the tables of one schema. A document holds at most one
	// entry per schema name; in practice exactly one, since the file path
	// already encodes the schema.
	Entry struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description,omitempty"`
		Tables      []*Table `yaml:"tables"`
	}

	// Table describes one externally-owned table. Name is the identity key
	// within its entry: merging a table whose name already exists replaces
	// the old descriptor in place.
	Table struct {
		Name        string    `yaml:"name"`
		Description string    `yaml:"description"`
		External    External  `yaml:"external"`
		Columns     []*Column `yaml:"columns,omitempty"`
	}

	// External carries the storage-level attributes of an external table.
	External struct {
		Location         string      `yaml:"location"`
		FileFormat       string      `yaml:"file_format"`
		Partitions       []Partition `yaml:"partitions,omitempty"`
		ClusterBy        []string    `yaml:"cluster_by,omitempty"`
		RefreshFrequency string      `yaml:"refresh_frequency,omitempty"`
	}

	// Partition is a single partitioning column. Partition columns derived
	// from the catalog's partition_by field are always typed date.
	Partition struct {
		Name     string `yaml:"name"`
		DataType string `yaml:"data_type"`
	}

	// Column describes one table column, optionally annotated with
	// data-quality tests (not_null, unique, or parametrized checks).
	Column struct {
		Name        string   `yaml:"name"`
		DataType    string   `yaml:"data_type,omitempty"`
		Description string   `yaml:"description,omitempty"`
		Quote       *bool    `yaml:"quote,omitempty"`
		Alias       string   `yaml:"alias,omitempty"`
		Expression  string   `yaml:"expression,omitempty"`
		Tests       []string `yaml:"tests,omitempty"`
	}
)

// NewDocument returns an empty document ready to receive merges.
func NewDocument() *Document {
	return &Document{Version: DocumentVersion, Sources: []*Entry{}}
}

// LoadDocument reads the document at path, or returns a fresh empty document
// when the file does not exist yet.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source document: %s", path)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal source document: %s", path)
	}
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}

	return &doc, nil
}

// Merge adds table to the entry for schema, creating the entry if needed.
// Any existing table with the same name is removed first, so merging is
// idempotent: re-running the same merge replaces the descriptor in place and
// leaves sibling tables untouched. Entry and table ordering is preserved
// except that the merged table always moves to the end of its entry.
func (d *Document) Merge(schema string, table *Table) {
	var entry *Entry
	for _, e := range d.Sources {
		if e.Name == schema {
			entry = e
			break
		}
	}
	if entry == nil {
		entry = &Entry{
			Name:        schema,
			Description: "External tables in " + schema + " schema",
			Tables:      []*Table{},
		}
		d.Sources = append(d.Sources, entry)
	}

	kept := entry.Tables[:0]
	for _, t := range entry.Tables {
		if t.Name != table.Name {
			kept = append(kept, t)
		}
	}
	entry.Tables = append(kept, table)
}

// Encode renders the document as YAML: explicit document start, 2-space
// indent, block style, keys in struct order.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, "failed to marshal source document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize source document")
	}

	return buf.Bytes(), nil
}

// Write persists the document at path, creating parent directories as
// needed. The file is rewritten whole.
func (d *Document) Write(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write source document: %s", path)
	}

	return nil
}

// DocumentPath returns the deterministic location of the source document for
// a (database, schema) pair under the project root.
func DocumentPath(projectRoot, database, schema string) string {
	return filepath.Join(projectRoot, "models", database, schema, "sources.yml")
}
