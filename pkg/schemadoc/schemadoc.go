package schemadoc

import (
	"bytes"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dbtforge/dbtforge/pkg/mapping"
)

// DocumentVersion is the schema version stamped on every schema document.
const DocumentVersion = 2

// Defaults applied when a mapping entry leaves the field blank.
const (
	DefaultModelType = "marts"
	DefaultMartType  = "dimensions"
)

type (
	// Document is one generated schema.yml, covering every model that lands
	// in the same output directory.
	Document struct {
		Version int      `yaml:"version"`
		Models  []*Model `yaml:"models"`
	}

	// Model is the generated contract for a single model.
	Model struct {
		Name        string    `yaml:"name"`
		Description string    `yaml:"description"`
		Config      Config    `yaml:"config"`
		Columns     []*Column `yaml:"columns"`
	}

	// Config carries the model-level dbt configuration; contracts are always
	// enforced on generated models.
	Config struct {
		Contract Contract `yaml:"contract"`
	}

	Contract struct {
		Enforced bool `yaml:"enforced"`
	}

	// Column documents one model column. Tests is part of the contract shape
	// but is not populated by Generate; see ColumnTests.
	Column struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Tests       []any  `yaml:"tests,omitempty"`
	}

	// Group is an ordered set of mapping entries that share an output
	// directory.
	Group struct {
		// Path is the directory below the project root, e.g. models/staging
		// or models/marts/facts.
		Path   string
		Models []*mapping.Model
	}
)

// GroupKey returns the output directory for a mapping entry: models/<type>,
// or models/marts/<mart_type> for marts models.
func GroupKey(m *mapping.Model) string {
	modelType := m.Type
	if modelType == "" {
		modelType = DefaultModelType
	}
	if modelType != "marts" {
		return path.Join("models", modelType)
	}

	martType := m.MartType
	if martType == "" {
		martType = DefaultMartType
	}
	return path.Join("models", "marts", martType)
}

// GroupModels partitions mapping entries by output directory. Groups appear
// in first-seen order and models keep their relative input order, so the
// generated documents are deterministic.
func GroupModels(models []*mapping.Model) []*Group {
	var groups []*Group
	index := make(map[string]*Group)

	for _, m := range models {
		key := GroupKey(m)
		g, ok := index[key]
		if !ok {
			g = &Group{Path: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Models = append(g.Models, m)
	}

	return groups
}

// Generate builds the schema document for one group.
func Generate(group *Group) *Document {
	doc := &Document{Version: DocumentVersion, Models: make([]*Model, 0, len(group.Models))}
	for _, m := range group.Models {
		doc.Models = append(doc.Models, modelSchema(m))
	}

	return doc
}

func modelSchema(m *mapping.Model) *Model {
	description := m.Description
	if description == "" {
		description = "Model for " + m.Name
	}

	schema := &Model{
		Name:        m.Name,
		Description: description,
		Config:      Config{Contract: Contract{Enforced: true}},
		Columns:     make([]*Column, 0, len(m.Columns)),
	}

	for _, col := range m.Columns {
		schema.Columns = append(schema.Columns, columnSchema(col))
	}

	return schema
}

func columnSchema(col *mapping.Column) *Column {
	description := col.Description
	if description == "" {
		description = "Column " + col.Name
	}
	if col.Transformation != "" {
		description += " (Transformation: " + col.Transformation + ")"
	}

	return &Column{Name: col.Name, Description: description}
}

// Encode renders the document as YAML (2-space indent, block style, keys in
// struct order).
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, "failed to marshal schema document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize schema document")
	}

	return buf.Bytes(), nil
}

// WriteAll groups the given mapping entries and writes one schema.yml per
// group below projectRoot. Returns the paths written, in group order.
func WriteAll(projectRoot string, models []*mapping.Model) ([]string, error) {
	var written []string
	for _, group := range GroupModels(models) {
		data, err := Generate(group).Encode()
		if err != nil {
			return written, err
		}

		target := filepath.Join(projectRoot, filepath.FromSlash(group.Path), "schema.yml")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.Wrapf(err, "failed to create directory for %s", target)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, errors.Wrapf(err, "failed to write schema document: %s", target)
		}

		written = append(written, target)
	}

	return written, nil
}
