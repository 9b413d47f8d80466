// Package catalog reads the tabular inputs of a generation run: the
// source-table catalog (one row per external table) and the
// schema-definitions catalog (one row per column of a physical table).
//
// Both files are plain CSV with a required header row; records are keyed by
// header name so column order never matters and unknown columns are ignored.
// Boolean cells are coerced leniently (see ParseBool) because the catalogs
// are typically exported from spreadsheets or warehouse metadata dumps with
// inconsistent casing.
package catalog
