// Package sources implements the incremental source-catalog merge: deriving
// external-table descriptors from catalog rows and folding them into the
// per-(database, schema) sources.yml documents of a dbt project.
//
// The merge is idempotent and sibling-preserving. Each document is scoped to
// one schema, holds at most one table entry per table name, and is rewritten
// whole on every merge. There are no partial updates and no locking; callers
// are responsible for not running two merges against one project root
// concurrently.
//
// Column resolution is a strict two-stage lookup (mapping document first,
// schema-definitions catalog second) with no cross-source merging; swapping
// the order would change generated output, so it is fixed here.
package sources
