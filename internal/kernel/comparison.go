package kernel

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ComparisonOp names the six comparison operators.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNeq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
)

func compareOrdered[T int64 | float64 | string](a, b T, op ComparisonOp) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpLt:
		return a < b
	case OpLtEq:
		return a <= b
	case OpGt:
		return a > b
	case OpGtEq:
		return a >= b
	}
	return false
}

// Comparison builds a ScalarKernel producing a Boolean array from two
// same-typed input arrays (the expression binder's bindComparison has
// already cast both arguments to a common type before the kernel ever
// runs).
func Comparison(t arrow.DataType, op ComparisonOp) ScalarKernel {
	return func(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
		if len(args) != 2 {
			return nil, shapeError("comparison kernel expects exactly 2 arguments")
		}
		mem = allocatorOrDefault(mem)
		left, right := args[0], args[1]
		if left.Len() != right.Len() {
			return nil, shapeError("comparison operands have mismatched lengths")
		}
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		n := left.Len()
		switch t.ID() {
		case arrow.INT8, arrow.UINT8, arrow.INT16, arrow.UINT16, arrow.INT32, arrow.UINT32, arrow.INT64, arrow.UINT64:
			l, r := asInt64s(left), asInt64s(right)
			for i := 0; i < n; i++ {
				if left.IsNull(i) || right.IsNull(i) {
					b.AppendNull()
					continue
				}
				b.Append(compareOrdered(l(i), r(i), op))
			}
		case arrow.FLOAT32, arrow.FLOAT64:
			l, r := asFloat64s(left), asFloat64s(right)
			for i := 0; i < n; i++ {
				if left.IsNull(i) || right.IsNull(i) {
					b.AppendNull()
					continue
				}
				b.Append(compareOrdered(l(i), r(i), op))
			}
		case arrow.STRING, arrow.LARGE_STRING:
			l, r := left.(*array.String), right.(*array.String)
			for i := 0; i < n; i++ {
				if left.IsNull(i) || right.IsNull(i) {
					b.AppendNull()
					continue
				}
				b.Append(compareOrdered(l.Value(i), r.Value(i), op))
			}
		case arrow.BOOL:
			l, r := left.(*array.Boolean), right.(*array.Boolean)
			for i := 0; i < n; i++ {
				if left.IsNull(i) || right.IsNull(i) {
					b.AppendNull()
					continue
				}
				lv, rv := boolToInt(l.Value(i)), boolToInt(r.Value(i))
				b.Append(compareOrdered(lv, rv, op))
			}
		default:
			return nil, kernelError("comparison not defined for type " + t.Name())
		}
		return b.NewArray(), nil
	}
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// asInt64s returns a per-index accessor that widens any integer array's
// native element to int64, so ordered comparison can share one code path.
func asInt64s(a arrow.Array) func(int) int64 {
	switch arr := a.(type) {
	case *array.Int8:
		return func(i int) int64 { return int64(arr.Value(i)) }
	case *array.Uint8:
		return func(i int) int64 { return int64(arr.Value(i)) }
	case *array.Int16:
		return func(i int) int64 { return int64(arr.Value(i)) }
	case *array.Uint16:
		return func(i int) int64 { return int64(arr.Value(i)) }
	case *array.Int32:
		return func(i int) int64 { return int64(arr.Value(i)) }
	case *array.Uint32:
		return func(i int) int64 { return int64(arr.Value(i)) }
	case *array.Int64:
		return func(i int) int64 { return arr.Value(i) }
	case *array.Uint64:
		return func(i int) int64 { return int64(arr.Value(i)) }
	}
	return func(int) int64 { return 0 }
}

func asFloat64s(a arrow.Array) func(int) float64 {
	switch arr := a.(type) {
	case *array.Float32:
		return func(i int) float64 { return float64(arr.Value(i)) }
	case *array.Float64:
		return func(i int) float64 { return arr.Value(i) }
	}
	return func(int) float64 { return 0 }
}
