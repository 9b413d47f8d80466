// Package project owns the shape of a generated dbt project and the
// orchestration of a full scaffolding run.
//
// A run is five sequential phases: validate configuration (advisory),
// create the directory skeleton, merge the source catalog (when a catalog
// is configured), then generate model bodies, schema documents, and
// unit-test stubs (when a mapping document is configured). Phases share no
// mutable state; every document write reads, merges, and rewrites its own
// file path independently. There is no rollback: a run that fails or is
// abandoned partway leaves the files it already wrote on disk.
package project
