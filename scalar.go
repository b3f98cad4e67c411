package sqlcore

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ScalarValue is a nullable tagged union over the logical types, per §3.2.
type ScalarValue struct {
	Type  LogicalType
	Null  bool
	Value any // matches Type's Go representation when !Null
}

func NewNullScalar(t LogicalType) ScalarValue { return ScalarValue{Type: t, Null: true} }

func NewBooleanScalar(v bool) ScalarValue     { return ScalarValue{Type: Boolean, Value: v} }
func NewTinyintScalar(v int8) ScalarValue     { return ScalarValue{Type: Tinyint, Value: v} }
func NewUTinyintScalar(v uint8) ScalarValue   { return ScalarValue{Type: UTinyint, Value: v} }
func NewSmallintScalar(v int16) ScalarValue   { return ScalarValue{Type: Smallint, Value: v} }
func NewUSmallintScalar(v uint16) ScalarValue { return ScalarValue{Type: USmallint, Value: v} }
func NewIntegerScalar(v int32) ScalarValue    { return ScalarValue{Type: Integer, Value: v} }
func NewUIntegerScalar(v uint32) ScalarValue  { return ScalarValue{Type: UInteger, Value: v} }
func NewBigintScalar(v int64) ScalarValue     { return ScalarValue{Type: Bigint, Value: v} }
func NewUBigintScalar(v uint64) ScalarValue   { return ScalarValue{Type: UBigint, Value: v} }
func NewFloatScalar(v float32) ScalarValue    { return ScalarValue{Type: Float, Value: v} }
func NewDoubleScalar(v float64) ScalarValue   { return ScalarValue{Type: Double, Value: v} }
func NewVarcharScalar(v string) ScalarValue   { return ScalarValue{Type: Varchar, Value: v} }

// AsUint64 coerces the scalar to an unsigned 64-bit integer, used by LIMIT/
// OFFSET constant folding. Fails for NULL, for negative values, and for
// every type other than the signed and unsigned integer types (Float and
// Double included).
func (s ScalarValue) AsUint64() (uint64, error) {
	if s.Null {
		return 0, NewInternalError("cannot coerce NULL to u64")
	}
	switch s.Type {
	case Tinyint:
		v := s.Value.(int8)
		if v < 0 {
			return 0, NewInternalError("negative value cannot coerce to u64")
		}
		return uint64(v), nil
	case Smallint:
		v := s.Value.(int16)
		if v < 0 {
			return 0, NewInternalError("negative value cannot coerce to u64")
		}
		return uint64(v), nil
	case Integer:
		v := s.Value.(int32)
		if v < 0 {
			return 0, NewInternalError("negative value cannot coerce to u64")
		}
		return uint64(v), nil
	case Bigint:
		v := s.Value.(int64)
		if v < 0 {
			return 0, NewInternalError("negative value cannot coerce to u64")
		}
		return uint64(v), nil
	case UTinyint:
		return uint64(s.Value.(uint8)), nil
	case USmallint:
		return uint64(s.Value.(uint16)), nil
	case UInteger:
		return uint64(s.Value.(uint32)), nil
	case UBigint:
		return s.Value.(uint64), nil
	default:
		return 0, NewInternalError(fmt.Sprintf("type %s is not coercible to u64", s.Type))
	}
}

// ToArray converts the scalar to an n-element array of its own physical
// type, per §3.2's "converting to a 1-element or N-element array" invariant.
func (s ScalarValue) ToArray(mem memory.Allocator, n int) (arrow.Array, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	switch s.Type {
	case Boolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(bool))
			}
		}
		return b.NewArray(), nil
	case Tinyint:
		b := array.NewInt8Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(int8))
			}
		}
		return b.NewArray(), nil
	case UTinyint:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(uint8))
			}
		}
		return b.NewArray(), nil
	case Smallint:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(int16))
			}
		}
		return b.NewArray(), nil
	case USmallint:
		b := array.NewUint16Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(uint16))
			}
		}
		return b.NewArray(), nil
	case Integer:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(int32))
			}
		}
		return b.NewArray(), nil
	case UInteger:
		b := array.NewUint32Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(uint32))
			}
		}
		return b.NewArray(), nil
	case Bigint:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(int64))
			}
		}
		return b.NewArray(), nil
	case UBigint:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(uint64))
			}
		}
		return b.NewArray(), nil
	case Float:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(float32))
			}
		}
		return b.NewArray(), nil
	case Double:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(float64))
			}
		}
		return b.NewArray(), nil
	case Varchar:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if s.Null {
				b.AppendNull()
			} else {
				b.Append(s.Value.(string))
			}
		}
		return b.NewArray(), nil
	default:
		return nil, NewInternalError("cannot build an array for type " + s.Type.String())
	}
}
