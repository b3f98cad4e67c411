package sqlcore

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// LogicalType is the engine's closed type enumeration.
type LogicalType int

const (
	Invalid LogicalType = iota
	Null
	Boolean
	Tinyint
	UTinyint
	Smallint
	USmallint
	Integer
	UInteger
	Bigint
	UBigint
	Float
	Double
	Varchar
)

func (t LogicalType) String() string {
	switch t {
	case Invalid:
		return "INVALID"
	case Null:
		return "NULL"
	case Boolean:
		return "BOOLEAN"
	case Tinyint:
		return "TINYINT"
	case UTinyint:
		return "UTINYINT"
	case Smallint:
		return "SMALLINT"
	case USmallint:
		return "USMALLINT"
	case Integer:
		return "INTEGER"
	case UInteger:
		return "UINTEGER"
	case Bigint:
		return "BIGINT"
	case UBigint:
		return "UBIGINT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Varchar:
		return "VARCHAR"
	default:
		return "UNKNOWN"
	}
}

// IsNumeric reports whether t is one of the signed or unsigned numeric types.
func (t LogicalType) IsNumeric() bool {
	return t.IsSignedNumeric() || t.IsUnsignedNumeric()
}

// IsSignedNumeric reports whether t is a signed integer or float type.
func (t LogicalType) IsSignedNumeric() bool {
	switch t {
	case Tinyint, Smallint, Integer, Bigint, Float, Double:
		return true
	default:
		return false
	}
}

// IsUnsignedNumeric reports whether t is an unsigned integer type.
func (t LogicalType) IsUnsignedNumeric() bool {
	switch t {
	case UTinyint, USmallint, UInteger, UBigint:
		return true
	default:
		return false
	}
}

// implicitCastRank orders numeric types along the implicit-cast lattice;
// a type may implicitly cast to any type with a strictly greater rank in
// its own signedness class, plus float/double dominate every integer.
var implicitCastRank = map[LogicalType]int{
	Tinyint:   1,
	Smallint:  2,
	Integer:   3,
	Bigint:    4,
	UTinyint:  1,
	USmallint: 2,
	UInteger:  3,
	UBigint:   4,
	Float:     5,
	Double:    6,
}

// CanImplicitCast reports whether a value of type from may be implicitly
// cast to type to, per the fixed table in §3.1: widening within
// signedness; unsigned widens to its next signed; float dominates
// integer; Double dominates Float.
func CanImplicitCast(from, to LogicalType) bool {
	if from == to {
		return true
	}
	if from == Null {
		return true
	}
	switch {
	case from.IsSignedNumeric() && to.IsSignedNumeric():
		return implicitCastRank[from] <= implicitCastRank[to]
	case from.IsUnsignedNumeric() && to.IsUnsignedNumeric():
		return implicitCastRank[from] <= implicitCastRank[to]
	case from.IsUnsignedNumeric() && to.IsSignedNumeric():
		// an unsigned type widens to the signed type one rank above its own,
		// e.g. UTinyint -> Smallint, UInteger -> Bigint.
		return implicitCastRank[to] > implicitCastRank[from]
	case (from.IsSignedNumeric() || from.IsUnsignedNumeric()) && (to == Float || to == Double):
		return true
	case from == Float && to == Double:
		return true
	}
	return false
}

// nextSignedOf returns the smallest signed integer type that strictly
// contains the range of the given unsigned type, per the mixed-signedness
// promotion table in §3.1.
func nextSignedOf(t LogicalType) LogicalType {
	switch t {
	case UTinyint:
		return Smallint
	case USmallint:
		return Integer
	case UInteger:
		return Bigint
	case UBigint:
		return Double
	default:
		return Invalid
	}
}

// MaxCommonType computes the total function max_common_type(L, R) from §3.1.
func MaxCommonType(l, r LogicalType) (LogicalType, error) {
	if l == r {
		return l, nil
	}
	if l == Null {
		return r, nil
	}
	if r == Null {
		return l, nil
	}
	if CanImplicitCast(l, r) {
		return r, nil
	}
	if CanImplicitCast(r, l) {
		return l, nil
	}
	if l.IsNumeric() && r.IsNumeric() {
		// mixed signedness, neither implicitly casts to the other: promote
		// to the smallest signed type that strictly contains both.
		var candidate LogicalType
		if l.IsUnsignedNumeric() {
			candidate = nextSignedOf(l)
		} else {
			candidate = nextSignedOf(r)
		}
		if candidate != Invalid && CanImplicitCast(l, candidate) && CanImplicitCast(r, candidate) {
			return candidate, nil
		}
		// fall back to Double, which dominates every numeric type.
		return Double, nil
	}
	return Invalid, NewTypeMismatchError("no common type for " + l.String() + " and " + r.String())
}

// LogicalTypeFromSQLName maps a SQL type name to a LogicalType. The
// mapping is fixed per §3.1; several aliases (e.g. INT, INT4) map to the
// same type.
func LogicalTypeFromSQLName(name string) (LogicalType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BOOLEAN", "BOOL":
		return Boolean, nil
	case "TINYINT", "INT1":
		return Tinyint, nil
	case "UTINYINT":
		return UTinyint, nil
	case "SMALLINT", "INT2":
		return Smallint, nil
	case "USMALLINT":
		return USmallint, nil
	case "INTEGER", "INT", "INT4":
		return Integer, nil
	case "UINTEGER":
		return UInteger, nil
	case "BIGINT", "INT8":
		return Bigint, nil
	case "UBIGINT":
		return UBigint, nil
	case "FLOAT", "REAL", "FLOAT4":
		return Float, nil
	case "DOUBLE", "FLOAT8":
		return Double, nil
	case "VARCHAR", "TEXT", "STRING", "CHAR":
		return Varchar, nil
	default:
		return Invalid, NewBindError(ErrCodeUnsupported, "unsupported SQL type name: "+name)
	}
}

// ArrowType maps a LogicalType to its columnar-array physical type.
func (t LogicalType) ArrowType() arrow.DataType {
	switch t {
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	case Tinyint:
		return arrow.PrimitiveTypes.Int8
	case UTinyint:
		return arrow.PrimitiveTypes.Uint8
	case Smallint:
		return arrow.PrimitiveTypes.Int16
	case USmallint:
		return arrow.PrimitiveTypes.Uint16
	case Integer:
		return arrow.PrimitiveTypes.Int32
	case UInteger:
		return arrow.PrimitiveTypes.Uint32
	case Bigint:
		return arrow.PrimitiveTypes.Int64
	case UBigint:
		return arrow.PrimitiveTypes.Uint64
	case Float:
		return arrow.PrimitiveTypes.Float32
	case Double:
		return arrow.PrimitiveTypes.Float64
	case Varchar:
		return arrow.BinaryTypes.String
	default:
		// Null and Invalid have no fixed physical representation; callers
		// choosing a physical type for a Null-typed column pick their own
		// placeholder (this engine uses a nullable Int32 array of all-NULL).
		return nil
	}
}
