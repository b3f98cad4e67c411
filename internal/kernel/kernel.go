// Package kernel implements the columnar kernel library named as an
// external collaborator by spec.md §2 ("vectorized arithmetic, comparison,
// take, filter, concat... typed arrays, record batches"). Kernels are
// implemented as direct type switches over apache/arrow-go/v18 array and
// builder types rather than against arrow/compute, grounded on
// original_source/src/function/{cast,comparison,conjunction}/*.rs for
// exact per-kernel semantics, reimplemented against Arrow Go.
package kernel

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lychee-technology/sqlcore"
)

// ScalarKernel evaluates a scalar function over a fixed-arity list of
// equal-length input arrays, producing one output array of equal length.
type ScalarKernel func(mem memory.Allocator, args []arrow.Array) (arrow.Array, error)

// Allocator is used when callers don't carry their own session-scoped one.
var Allocator = memory.NewGoAllocator()

func allocatorOrDefault(mem memory.Allocator) memory.Allocator {
	if mem != nil {
		return mem
	}
	return Allocator
}

func shapeError(message string) error {
	return sqlcore.NewExecutorError(sqlcore.ErrCodeShapeViolation, message)
}

func kernelError(message string) error {
	return sqlcore.NewExecutorError(sqlcore.ErrCodeKernelError, message)
}
