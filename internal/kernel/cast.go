package kernel

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Cast builds a ScalarKernel converting a single input array to the given
// target physical type. Cast expressions only ever appear where the
// binder has already determined the conversion is implicit-cast-legal or
// an explicit CAST, so this kernel does not re-validate the type lattice —
// it only performs the value conversion.
func Cast(target arrow.DataType) ScalarKernel {
	return func(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
		if len(args) != 1 {
			return nil, shapeError("cast kernel expects exactly 1 argument")
		}
		mem = allocatorOrDefault(mem)
		src := args[0]

		if target.ID() == arrow.STRING {
			return castToString(mem, src)
		}
		if isIntegerType(target.ID()) || isFloatType(target.ID()) {
			return castToNumeric(mem, src, target)
		}
		if target.ID() == arrow.BOOL {
			return castToBoolean(mem, src)
		}
		return nil, kernelError("cast to " + target.Name() + " not supported")
	}
}

func isIntegerType(id arrow.Type) bool {
	switch id {
	case arrow.INT8, arrow.UINT8, arrow.INT16, arrow.UINT16, arrow.INT32, arrow.UINT32, arrow.INT64, arrow.UINT64:
		return true
	}
	return false
}

func isFloatType(id arrow.Type) bool {
	return id == arrow.FLOAT32 || id == arrow.FLOAT64
}

func castToNumeric(mem memory.Allocator, src arrow.Array, target arrow.DataType) (arrow.Array, error) {
	n := src.Len()
	readF := func(int) (float64, bool) { return 0, false }
	switch s := src.(type) {
	case *array.Int8:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Uint8:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Int16:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Uint16:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Int32:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Uint32:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Int64:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Uint64:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Float32:
		readF = func(i int) (float64, bool) { return float64(s.Value(i)), s.IsNull(i) }
	case *array.Float64:
		readF = func(i int) (float64, bool) { return s.Value(i), s.IsNull(i) }
	case *array.String:
		return castStringToNumeric(mem, s, target)
	default:
		return nil, kernelError("cast source type " + src.DataType().Name() + " not supported")
	}

	switch target.ID() {
	case arrow.INT8:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[int8] { return array.NewInt8Builder(b) }, func(v float64) int8 { return int8(v) })
	case arrow.UINT8:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[uint8] { return array.NewUint8Builder(b) }, func(v float64) uint8 { return uint8(v) })
	case arrow.INT16:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[int16] { return array.NewInt16Builder(b) }, func(v float64) int16 { return int16(v) })
	case arrow.UINT16:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[uint16] { return array.NewUint16Builder(b) }, func(v float64) uint16 { return uint16(v) })
	case arrow.INT32:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[int32] { return array.NewInt32Builder(b) }, func(v float64) int32 { return int32(v) })
	case arrow.UINT32:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[uint32] { return array.NewUint32Builder(b) }, func(v float64) uint32 { return uint32(v) })
	case arrow.INT64:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[int64] { return array.NewInt64Builder(b) }, func(v float64) int64 { return int64(v) })
	case arrow.UINT64:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[uint64] { return array.NewUint64Builder(b) }, func(v float64) uint64 { return uint64(v) })
	case arrow.FLOAT32:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[float32] { return array.NewFloat32Builder(b) }, func(v float64) float32 { return float32(v) })
	case arrow.FLOAT64:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[float64] { return array.NewFloat64Builder(b) }, func(v float64) float64 { return v })
	default:
		return nil, kernelError("cast target type not numeric")
	}
}

func buildNumeric[T number](mem memory.Allocator, n int, readF func(int) (float64, bool), newBuilder func(memory.Allocator) numBuilder[T], conv func(float64) T) (arrow.Array, error) {
	b := newBuilder(mem)
	defer b.Release()
	for i := 0; i < n; i++ {
		v, isNull := readF(i)
		if isNull {
			b.AppendNull()
			continue
		}
		b.Append(conv(v))
	}
	return b.NewArray(), nil
}

func castStringToNumeric(mem memory.Allocator, s *array.String, target arrow.DataType) (arrow.Array, error) {
	n := s.Len()
	readF := func(i int) (float64, bool) {
		if s.IsNull(i) {
			return 0, true
		}
		v, err := strconv.ParseFloat(s.Value(i), 64)
		if err != nil {
			return 0, true
		}
		return v, false
	}
	switch target.ID() {
	case arrow.FLOAT64:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[float64] { return array.NewFloat64Builder(b) }, func(v float64) float64 { return v })
	case arrow.FLOAT32:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[float32] { return array.NewFloat32Builder(b) }, func(v float64) float32 { return float32(v) })
	case arrow.INT64:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[int64] { return array.NewInt64Builder(b) }, func(v float64) int64 { return int64(v) })
	case arrow.INT32:
		return buildNumeric(mem, n, readF, func(b memory.Allocator) numBuilder[int32] { return array.NewInt32Builder(b) }, func(v float64) int32 { return int32(v) })
	default:
		return nil, kernelError("cast from VARCHAR to target type not supported")
	}
}

func castToString(mem memory.Allocator, src arrow.Array) (arrow.Array, error) {
	mem = allocatorOrDefault(mem)
	b := array.NewStringBuilder(mem)
	defer b.Release()
	n := src.Len()
	for i := 0; i < n; i++ {
		if src.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(formatAt(src, i))
	}
	return b.NewArray(), nil
}

func formatAt(arr arrow.Array, i int) string {
	switch a := arr.(type) {
	case *array.Int8:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Uint8:
		return strconv.FormatUint(uint64(a.Value(i)), 10)
	case *array.Int16:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Uint16:
		return strconv.FormatUint(uint64(a.Value(i)), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Uint32:
		return strconv.FormatUint(uint64(a.Value(i)), 10)
	case *array.Int64:
		return strconv.FormatInt(a.Value(i), 10)
	case *array.Uint64:
		return strconv.FormatUint(a.Value(i), 10)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'g', -1, 64)
	case *array.Boolean:
		return strconv.FormatBool(a.Value(i))
	case *array.String:
		return a.Value(i)
	default:
		return fmt.Sprintf("%v", arr)
	}
}

func castToBoolean(mem memory.Allocator, src arrow.Array) (arrow.Array, error) {
	mem = allocatorOrDefault(mem)
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	switch s := src.(type) {
	case *array.Boolean:
		for i := 0; i < s.Len(); i++ {
			if s.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(s.Value(i))
		}
	case *array.String:
		for i := 0; i < s.Len(); i++ {
			if s.IsNull(i) {
				b.AppendNull()
				continue
			}
			v, err := strconv.ParseBool(s.Value(i))
			if err != nil {
				return nil, kernelError("cannot cast string \"" + s.Value(i) + "\" to BOOLEAN")
			}
			b.Append(v)
		}
	default:
		return nil, kernelError("cast to BOOLEAN not supported from " + src.DataType().Name())
	}
	return b.NewArray(), nil
}
