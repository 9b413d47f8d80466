// Package cmd provides CLI commands for the dbtforge tool.
//
// This package implements the command-line interface for dbtforge,
// providing commands for project scaffolding, source-catalog merging,
// model drafting, and generated-file hygiene. Each command is implemented
// as a constructor function returning a *cli.Command, following the
// urfave/cli/v3 pattern, and receives its collaborators through the fx
// dependency graph rather than package globals.
//
// # Available Commands
//
//   - generate: Run the full scaffolding pipeline under a watchdog deadline
//   - sources: Merge the source-table catalog into sources.yml documents
//   - models: Draft commented-out model SQL files
//   - schemas: Generate schema.yml documents per model grouping
//   - tests: Generate unit-test stubs for mapped models
//   - fmt: Format a SQL file with sqlfluff
//   - lint: Lint a SQL or YAML file
//   - init: Create the dbt project directory skeleton
//   - validate: Check configuration and external tooling
//
// # Example Usage
//
//	dbtforge init -p ./dbt_project
//	dbtforge generate -c ./source_tables.csv -m ./table_mappings.yaml
//	dbtforge lint ./dbt_project/models/staging/stg_customers.sql
package cmd
