package tablefunc

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lychee-technology/sqlcore"
)

// duckDBTypeToLogical maps a DuckDB DESCRIBE column_type string to a
// LogicalType. DuckDB's scalar type names are a superset of the SQL
// names types.go's LogicalTypeFromSQLName already recognizes (BIGINT,
// VARCHAR, DOUBLE, BOOLEAN, ...); parameterized types (DECIMAL(18,3),
// VARCHAR(255)) are truncated at the first '(' before the lookup.
// Anything this engine has no LogicalType for (DATE, TIMESTAMP, LIST,
// STRUCT, ...) degrades to Varchar. (The binder, by contrast, rejects an
// unknown SQL type name in CREATE TABLE with an error.)
func duckDBTypeToLogical(duckType string) sqlcore.LogicalType {
	name := strings.ToUpper(strings.TrimSpace(duckType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "HUGEINT", "DATE", "TIME", "TIMESTAMP", "TIMESTAMP_S", "TIMESTAMP_MS", "TIMESTAMP_NS", "TIMESTAMP WITH TIME ZONE", "INTERVAL", "UUID", "BLOB", "JSON":
		return sqlcore.Varchar
	}
	t, err := sqlcore.LogicalTypeFromSQLName(name)
	if err != nil {
		return sqlcore.Varchar
	}
	return t
}

// newDuckDBColumnBuilder returns the arrow builder matching t, mirroring
// scalar.go's ToArray per-type dispatch so that builder choice and value
// scanning stay in lockstep with how the rest of the engine represents
// each LogicalType physically.
func newDuckDBColumnBuilder(mem memory.Allocator, t sqlcore.LogicalType) array.Builder {
	switch t {
	case sqlcore.Boolean:
		return array.NewBooleanBuilder(mem)
	case sqlcore.Tinyint:
		return array.NewInt8Builder(mem)
	case sqlcore.UTinyint:
		return array.NewUint8Builder(mem)
	case sqlcore.Smallint:
		return array.NewInt16Builder(mem)
	case sqlcore.USmallint:
		return array.NewUint16Builder(mem)
	case sqlcore.Integer:
		return array.NewInt32Builder(mem)
	case sqlcore.UInteger:
		return array.NewUint32Builder(mem)
	case sqlcore.Bigint:
		return array.NewInt64Builder(mem)
	case sqlcore.UBigint:
		return array.NewUint64Builder(mem)
	case sqlcore.Float:
		return array.NewFloat32Builder(mem)
	case sqlcore.Double:
		return array.NewFloat64Builder(mem)
	default:
		return array.NewStringBuilder(mem)
	}
}

// appendDuckDBValue appends one database/sql-scanned value (driver.Value,
// boxed through an any pointer) onto b, coercing numeric kinds the
// duckdb-go driver may hand back (int64 for every integer width, float64
// for both float widths) down to the narrower Arrow builder's Append
// signature. A nil value means SQL NULL.
func appendDuckDBValue(b array.Builder, t sqlcore.LogicalType, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch t {
	case sqlcore.Boolean:
		b.(*array.BooleanBuilder).Append(toBool(v))
	case sqlcore.Tinyint:
		b.(*array.Int8Builder).Append(int8(toInt64(v)))
	case sqlcore.UTinyint:
		b.(*array.Uint8Builder).Append(uint8(toInt64(v)))
	case sqlcore.Smallint:
		b.(*array.Int16Builder).Append(int16(toInt64(v)))
	case sqlcore.USmallint:
		b.(*array.Uint16Builder).Append(uint16(toInt64(v)))
	case sqlcore.Integer:
		b.(*array.Int32Builder).Append(int32(toInt64(v)))
	case sqlcore.UInteger:
		b.(*array.Uint32Builder).Append(uint32(toInt64(v)))
	case sqlcore.Bigint:
		b.(*array.Int64Builder).Append(toInt64(v))
	case sqlcore.UBigint:
		b.(*array.Uint64Builder).Append(uint64(toInt64(v)))
	case sqlcore.Float:
		b.(*array.Float32Builder).Append(float32(toFloat64(v)))
	case sqlcore.Double:
		b.(*array.Float64Builder).Append(toFloat64(v))
	default:
		b.(*array.StringBuilder).Append(toString(v))
	}
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	default:
		return false
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return ""
	}
}
