package schemadoc

import (
	"fmt"

	"github.com/dbtforge/dbtforge/pkg/mapping"
)

// ColumnTests derives the data-quality test annotations a column's mapping
// entry declares: not_null/unique for required and key columns,
// accepted_values, relationships, and the dbt_utils parametrized checks
// (string length, numeric range, pattern match).
//
// Generated schema documents currently carry name and description only;
// whether these annotations should be emitted per column is an open product
// question, so the derivation lives here as a complete, separately usable
// step without being wired into columnSchema.
func ColumnTests(col *mapping.Column) []any {
	var tests []any

	if col.Required {
		tests = append(tests, map[string]any{
			"not_null": map[string]any{"config": map[string]any{"severity": "error"}},
		})
	}

	if col.PrimaryKey {
		tests = append(tests, map[string]any{
			"unique": map[string]any{"config": map[string]any{"severity": "error"}},
		})
	}

	if len(col.AcceptedValues) > 0 {
		tests = append(tests, map[string]any{
			"accepted_values": map[string]any{
				"values": col.AcceptedValues,
				"config": map[string]any{"severity": "warn"},
			},
		})
	}

	if col.Relationship != nil {
		tests = append(tests, map[string]any{
			"relationships": map[string]any{
				"to":     col.Relationship.To,
				"field":  col.Relationship.Field,
				"config": map[string]any{"severity": "error"},
			},
		})
	}

	if col.MaxLength != nil {
		tests = append(tests, map[string]any{
			"dbt_utils.string_length": map[string]any{
				"max_length": *col.MaxLength,
				"config":     map[string]any{"severity": "warn"},
			},
		})
	}

	if expr := rangeExpression(col); expr != "" {
		tests = append(tests, map[string]any{
			"dbt_utils.expression_is_true": map[string]any{"expression": expr},
		})
	}

	if col.Pattern != "" {
		tests = append(tests, map[string]any{
			"dbt_utils.expression_is_true": map[string]any{
				"expression": fmt.Sprintf("{{ ref('%s') }} ~ '%s'", col.Name, col.Pattern),
				"config":     map[string]any{"severity": "warn"},
			},
		})
	}

	return tests
}

func rangeExpression(col *mapping.Column) string {
	ref := fmt.Sprintf("{{ ref('%s') }}", col.Name)

	switch {
	case col.MinValue != nil && col.MaxValue != nil:
		return fmt.Sprintf("%s >= %v and %s <= %v", ref, *col.MinValue, ref, *col.MaxValue)
	case col.MinValue != nil:
		return fmt.Sprintf("%s >= %v", ref, *col.MinValue)
	case col.MaxValue != nil:
		return fmt.Sprintf("%s <= %v", ref, *col.MaxValue)
	default:
		return ""
	}
}
