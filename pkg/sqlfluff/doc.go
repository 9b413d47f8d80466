// Package sqlfluff shells out to the external sqlfluff and yamllint tools to
// format generated SQL and lint generated YAML.
//
// Both collaborators are strictly best-effort: the generation pipeline must
// keep moving whether or not the tools are installed, so TryFormat leaves
// the target file untouched on any failure and the lint operations return an
// empty report instead of an error. Findings are advisory and never abort a
// run.
package sqlfluff
