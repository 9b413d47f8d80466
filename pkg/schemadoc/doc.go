// Package schemadoc generates the per-directory schema.yml documents that
// declare each generated model's contract: name, description, and column
// documentation. Models are grouped by output directory (models/<type>, or
// models/marts/<mart_type> for marts models) and emitted in input order.
package schemadoc
