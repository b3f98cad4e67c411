package catalog

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lychee-technology/sqlcore"
)

// logicalTypeJSONType maps a LogicalType to the JSON Schema primitive type
// its values would be rendered as, for DESCRIBE's machine-readable sibling.
func logicalTypeJSONType(t sqlcore.LogicalType) string {
	switch {
	case t == sqlcore.Boolean:
		return "boolean"
	case t.IsNumeric():
		if t == sqlcore.Float || t == sqlcore.Double {
			return "number"
		}
		return "integer"
	case t == sqlcore.Varchar:
		return "string"
	default:
		return "null"
	}
}

// DescribeJSONSchema renders a table's column definitions as a JSON
// Schema object: one property per column, typed per the mapping above,
// with non-nullable columns listed in Required. This is DESCRIBE's
// machine-readable sibling for callers that want a schema document
// instead of a (table_name, column_names, column_types) row set.
func DescribeJSONSchema(table *DataTable) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(table.Columns))
	var required []string
	for _, col := range table.Columns {
		props[col.Name] = &jsonschema.Schema{Type: logicalTypeJSONType(col.Type)}
		if !col.Nullable {
			required = append(required, col.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
