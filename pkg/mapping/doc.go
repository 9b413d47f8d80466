// Package mapping reads and validates the user-authored mapping document:
// the YAML specification that connects source tables to the staging,
// intermediate, and mart models dbtforge generates.
package mapping
