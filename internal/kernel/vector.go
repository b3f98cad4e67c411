package kernel

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Concat concatenates same-typed arrays into one.
func Concat(mem memory.Allocator, arrays []arrow.Array) (arrow.Array, error) {
	if len(arrays) == 0 {
		return nil, shapeError("concat requires at least one array")
	}
	mem = allocatorOrDefault(mem)
	out, err := array.Concatenate(arrays, mem)
	if err != nil {
		return nil, kernelError(err.Error())
	}
	return out, nil
}

// Take gathers the elements of arr at the given row indices, in order,
// producing a new array of len(indices). It backs Filter and Broadcast
// here and the volcano executor's cross-join row pairing.
func Take(mem memory.Allocator, arr arrow.Array, indices []int) (arrow.Array, error) {
	mem = allocatorOrDefault(mem)
	switch a := arr.(type) {
	case *array.Int8:
		return takeNumeric(a, indices, func() numBuilder[int8] { return array.NewInt8Builder(mem) })
	case *array.Uint8:
		return takeNumeric(a, indices, func() numBuilder[uint8] { return array.NewUint8Builder(mem) })
	case *array.Int16:
		return takeNumeric(a, indices, func() numBuilder[int16] { return array.NewInt16Builder(mem) })
	case *array.Uint16:
		return takeNumeric(a, indices, func() numBuilder[uint16] { return array.NewUint16Builder(mem) })
	case *array.Int32:
		return takeNumeric(a, indices, func() numBuilder[int32] { return array.NewInt32Builder(mem) })
	case *array.Uint32:
		return takeNumeric(a, indices, func() numBuilder[uint32] { return array.NewUint32Builder(mem) })
	case *array.Int64:
		return takeNumeric(a, indices, func() numBuilder[int64] { return array.NewInt64Builder(mem) })
	case *array.Uint64:
		return takeNumeric(a, indices, func() numBuilder[uint64] { return array.NewUint64Builder(mem) })
	case *array.Float32:
		return takeNumeric(a, indices, func() numBuilder[float32] { return array.NewFloat32Builder(mem) })
	case *array.Float64:
		return takeNumeric(a, indices, func() numBuilder[float64] { return array.NewFloat64Builder(mem) })
	case *array.Boolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(i))
		}
		return b.NewArray(), nil
	case *array.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(i))
		}
		return b.NewArray(), nil
	default:
		return nil, kernelError("take not defined for type " + arr.DataType().Name())
	}
}

func takeNumeric[T number](a numArray[T], indices []int, newBuilder func() numBuilder[T]) (arrow.Array, error) {
	b := newBuilder()
	defer b.Release()
	for _, i := range indices {
		if a.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(a.Value(i))
	}
	return b.NewArray(), nil
}

// Filter selects the rows of arr where mask is true, dropping rows where
// mask is false or NULL (SQL WHERE semantics: unknown is not a match).
func Filter(mem memory.Allocator, arr arrow.Array, mask *array.Boolean) (arrow.Array, error) {
	if arr.Len() != mask.Len() {
		return nil, shapeError("filter mask length does not match array length")
	}
	indices := make([]int, 0, arr.Len())
	for i := 0; i < mask.Len(); i++ {
		if !mask.IsNull(i) && mask.Value(i) {
			indices = append(indices, i)
		}
	}
	return Take(mem, arr, indices)
}

// Broadcast builds an array of length n repeating a single scalar's
// columnar-array representation, used when a literal appears alongside a
// column-valued argument in the same function call.
func Broadcast(mem memory.Allocator, value arrow.Array, n int) (arrow.Array, error) {
	if value.Len() != 1 {
		return nil, shapeError("broadcast source must be a single-element array")
	}
	indices := make([]int, n)
	return Take(mem, value, indices)
}
