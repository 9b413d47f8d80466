package mapping

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Document is the user-authored mapping specification connecting source
	// tables to generated models. Staging models and general models live in
	// separate lists; generation runs process staging first.
	Document struct {
		StagingModels []*Model `yaml:"staging_models" json:"staging_models,omitempty"`
		Models        []*Model `yaml:"models" json:"models,omitempty"`
	}

	// Model is one mapping entry. Name is the identity key; Type decides the
	// output directory (staging, intermediate, marts, ...), with MartType
	// subtyping marts models into dimensions or facts.
	Model struct {
		Name             string    `yaml:"name" json:"name"`
		Type             string    `yaml:"type" json:"type,omitempty"`
		MartType         string    `yaml:"mart_type" json:"mart_type,omitempty"`
		SourceTable      string    `yaml:"source_table" json:"source_table,omitempty"`
		Description      string    `yaml:"description" json:"description,omitempty"`
		Columns          []*Column `yaml:"columns" json:"columns,omitempty"`
		ExpectedBehavior string    `yaml:"expected_behavior" json:"expected_behavior,omitempty"`
	}

	// Column is one column spec within a mapping entry. DataType and Type are
	// aliases; documents in the wild use either. The test-intent fields
	// (Required, PrimaryKey, AcceptedValues, ...) drive data-quality test
	// derivation.
	Column struct {
		Name           string        `yaml:"name" json:"name"`
		DataType       string        `yaml:"data_type" json:"data_type,omitempty"`
		Type           string        `yaml:"type" json:"type,omitempty"`
		Description    string        `yaml:"description" json:"description,omitempty"`
		Transformation string        `yaml:"transformation" json:"transformation,omitempty"`
		Quote          *bool         `yaml:"quote" json:"quote,omitempty"`
		Alias          string        `yaml:"alias" json:"alias,omitempty"`
		Expression     string        `yaml:"expression" json:"expression,omitempty"`
		Required       bool          `yaml:"required" json:"required,omitempty"`
		PrimaryKey     bool          `yaml:"primary_key" json:"primary_key,omitempty"`
		AcceptedValues []string      `yaml:"accepted_values" json:"accepted_values,omitempty"`
		Relationship   *Relationship `yaml:"relationship" json:"relationship,omitempty"`
		MaxLength      *int          `yaml:"max_length" json:"max_length,omitempty"`
		MinValue       *float64      `yaml:"min_value" json:"min_value,omitempty"`
		MaxValue       *float64      `yaml:"max_value" json:"max_value,omitempty"`
		Pattern        string        `yaml:"pattern" json:"pattern,omitempty"`
	}

	// Relationship declares a foreign-key style test intent against another
	// model's field.
	Relationship struct {
		To    string `yaml:"to" json:"to"`
		Field string `yaml:"field" json:"field"`
	}
)

// Load reads the mapping document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal mapping document")
	}

	return &doc, nil
}

// LoadFile loads a mapping document from the given path. A missing or
// unreadable file is a fatal input error for phases that require a mapping.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open mapping document: %s", path)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// All returns every mapping entry, staging models first, preserving document
// order within each list.
func (d *Document) All() []*Model {
	all := make([]*Model, 0, len(d.StagingModels)+len(d.Models))
	all = append(all, d.StagingModels...)
	all = append(all, d.Models...)
	return all
}

// StagingFor locates the staging entry for a source table: either an entry
// named stg_<table> or one whose source_table references the table directly.
// Returns nil when no entry matches.
func (d *Document) StagingFor(table string) *Model {
	for _, m := range d.StagingModels {
		if m.Name == "stg_"+table || m.SourceTable == table {
			return m
		}
	}

	return nil
}

// Validate flags structural issues in the document: duplicate column names
// within a model, columns without a name, and columns without a type.
// Validation is advisory; issues are reported and never block generation.
func (d *Document) Validate() []string {
	var issues []string

	for _, m := range d.All() {
		counts := make(map[string]int, len(m.Columns))
		for _, col := range m.Columns {
			counts[col.Name]++

			if col.Name == "" {
				issues = append(issues, "missing column name in model "+m.Name)
			}
			if col.DataType == "" && col.Type == "" {
				issues = append(issues, "missing data type for column "+col.Name+" in model "+m.Name)
			}
		}

		for _, col := range m.Columns {
			if col.Name != "" && counts[col.Name] > 1 {
				issues = append(issues, "duplicate column name in model "+m.Name+": "+col.Name)
				counts[col.Name] = 0
			}
		}
	}

	return issues
}
