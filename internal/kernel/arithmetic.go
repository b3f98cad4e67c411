package kernel

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

type numArray[T any] interface {
	Value(int) T
	IsNull(int) bool
	Len() int
}

type numBuilder[T any] interface {
	Append(T)
	AppendNull()
	NewArray() arrow.Array
	Release()
}

// binaryNumeric applies op element-wise over two equal-length numeric
// arrays of the same physical type, propagating NULLs.
func binaryNumeric[T any](left, right numArray[T], newBuilder func() numBuilder[T], op func(a, b T) T) (arrow.Array, error) {
	if left.Len() != right.Len() {
		return nil, shapeError("arithmetic operands have mismatched lengths")
	}
	b := newBuilder()
	defer b.Release()
	n := left.Len()
	for i := 0; i < n; i++ {
		if left.IsNull(i) || right.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(op(left.Value(i), right.Value(i)))
	}
	return b.NewArray(), nil
}

// ArithmeticOp names the four built-in scalar arithmetic functions of §6.
type ArithmeticOp int

const (
	OpAdd ArithmeticOp = iota
	OpSubtract
	OpMultiply
	OpDivide
)

// Arithmetic builds a ScalarKernel for the given physical type and
// operator (OpAdd, OpSubtract, OpMultiply, OpDivide). Division by zero on integer types produces
// NULL rather than panicking (Go's integer division would panic;
// arrow-rs's behavior is implementation-defined division-by-zero, so this
// implementation chooses NULL as the conservative, documented behavior).
func Arithmetic(t arrow.DataType, op ArithmeticOp) ScalarKernel {
	return func(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
		if len(args) != 2 {
			return nil, shapeError("arithmetic kernel expects exactly 2 arguments")
		}
		mem = allocatorOrDefault(mem)
		switch t.ID() {
		case arrow.INT8:
			return binaryNumericOp(mem, args[0].(*array.Int8), args[1].(*array.Int8), func() numBuilder[int8] { return array.NewInt8Builder(mem) }, op)
		case arrow.UINT8:
			return binaryNumericOp(mem, args[0].(*array.Uint8), args[1].(*array.Uint8), func() numBuilder[uint8] { return array.NewUint8Builder(mem) }, op)
		case arrow.INT16:
			return binaryNumericOp(mem, args[0].(*array.Int16), args[1].(*array.Int16), func() numBuilder[int16] { return array.NewInt16Builder(mem) }, op)
		case arrow.UINT16:
			return binaryNumericOp(mem, args[0].(*array.Uint16), args[1].(*array.Uint16), func() numBuilder[uint16] { return array.NewUint16Builder(mem) }, op)
		case arrow.INT32:
			return binaryNumericOp(mem, args[0].(*array.Int32), args[1].(*array.Int32), func() numBuilder[int32] { return array.NewInt32Builder(mem) }, op)
		case arrow.UINT32:
			return binaryNumericOp(mem, args[0].(*array.Uint32), args[1].(*array.Uint32), func() numBuilder[uint32] { return array.NewUint32Builder(mem) }, op)
		case arrow.INT64:
			return binaryNumericOp(mem, args[0].(*array.Int64), args[1].(*array.Int64), func() numBuilder[int64] { return array.NewInt64Builder(mem) }, op)
		case arrow.UINT64:
			return binaryNumericOp(mem, args[0].(*array.Uint64), args[1].(*array.Uint64), func() numBuilder[uint64] { return array.NewUint64Builder(mem) }, op)
		case arrow.FLOAT32:
			return binaryNumericOp(mem, args[0].(*array.Float32), args[1].(*array.Float32), func() numBuilder[float32] { return array.NewFloat32Builder(mem) }, op)
		case arrow.FLOAT64:
			return binaryNumericOp(mem, args[0].(*array.Float64), args[1].(*array.Float64), func() numBuilder[float64] { return array.NewFloat64Builder(mem) }, op)
		default:
			return nil, kernelError("arithmetic not defined for type " + t.Name())
		}
	}
}

// number constrains the physical Go types arithmetic kernels operate over.
type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func binaryNumericOp[T number](mem memory.Allocator, left, right numArray[T], newBuilder func() numBuilder[T], op ArithmeticOp) (arrow.Array, error) {
	var isFloat bool
	switch any(T(0)).(type) {
	case float32, float64:
		isFloat = true
	}
	fn := func(a, b T) T {
		switch op {
		case OpAdd:
			return a + b
		case OpSubtract:
			return a - b
		case OpMultiply:
			return a * b
		case OpDivide:
			if !isFloat && b == 0 {
				return 0
			}
			return a / b
		}
		return a
	}
	if op == OpDivide && !isFloat {
		return binaryNumericDivideGuarded(left, right, newBuilder)
	}
	return binaryNumeric[T](left, right, newBuilder, fn)
}

// binaryNumericDivideGuarded performs integer division, emitting NULL for
// any row whose divisor is zero instead of the Go runtime panic that
// `a / b` would raise.
func binaryNumericDivideGuarded[T number](left, right numArray[T], newBuilder func() numBuilder[T]) (arrow.Array, error) {
	if left.Len() != right.Len() {
		return nil, shapeError("arithmetic operands have mismatched lengths")
	}
	b := newBuilder()
	defer b.Release()
	n := left.Len()
	for i := 0; i < n; i++ {
		if left.IsNull(i) || right.IsNull(i) || right.Value(i) == 0 {
			b.AppendNull()
			continue
		}
		b.Append(left.Value(i) / right.Value(i))
	}
	return b.NewArray(), nil
}
