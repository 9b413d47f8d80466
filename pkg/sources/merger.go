package sources

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dbtforge/dbtforge/pkg/catalog"
	"github.com/dbtforge/dbtforge/pkg/mapping"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

// YAMLLinter is the advisory lint hook run against each document after it is
// written. Findings never block the merge of subsequent rows.
type YAMLLinter interface {
	TryLintYAML(ctx context.Context, path string) []sqlfluff.Violation
}

// Merger derives source-table descriptors from catalog rows and folds them
// into the per-(database, schema) source documents under the project root.
type Merger struct {
	projectRoot string
	linter      YAMLLinter
	logger      zerolog.Logger
}

// NewMerger creates a Merger writing below projectRoot. linter may be nil to
// skip the post-write lint pass.
func NewMerger(projectRoot string, linter YAMLLinter, logger zerolog.Logger) *Merger {
	return &Merger{
		projectRoot: projectRoot,
		linter:      linter,
		logger:      logger.With().Str("component", "sources").Logger(),
	}
}

// MergeAll processes catalog rows in order. For each row it resolves
// columns, builds the descriptor, merges it into the target document
// (read-if-exists, mutate, full rewrite), and runs the advisory lint hook.
// Rows are independent: each one re-reads and rewrites its own document, so
// multiple rows targeting the same (database, schema) accumulate correctly.
//
// mappingDoc and defs are both optional; see ResolveColumns for precedence.
func (m *Merger) MergeAll(ctx context.Context, rows []catalog.SourceTableRow, mappingDoc *mapping.Document, defs []catalog.ColumnDef) error {
	for _, row := range rows {
		if err := m.mergeRow(ctx, row, mappingDoc, defs); err != nil {
			return err
		}
	}

	return nil
}

func (m *Merger) mergeRow(ctx context.Context, row catalog.SourceTableRow, mappingDoc *mapping.Document, defs []catalog.ColumnDef) error {
	path := DocumentPath(m.projectRoot, row.Database, row.Schema)

	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	table := BuildTable(row, ResolveColumns(row, mappingDoc, defs))
	doc.Merge(row.Schema, table)

	if err := doc.Write(path); err != nil {
		return err
	}

	m.logger.Info().
		Str("table", row.TableName).
		Str("path", path).
		Msg("merged source table")

	if m.linter != nil {
		for _, v := range m.linter.TryLintYAML(ctx, path) {
			m.logger.Warn().Str("path", path).Msg(v.Description)
		}
	}

	return nil
}
