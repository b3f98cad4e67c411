package binder

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/kernel"
)

// ExecuteScalar is §4.7's scalar-only expression-executor variant, used at
// bind time to fold LIMIT/OFFSET expressions into concrete u64 values. It
// supports only Constant, Cast, and (non-comparison, non-conjunction)
// Function calls on constants; anything else — a ColumnRef or Reference
// in particular — is an error, since there is no input batch to read from.
func ExecuteScalar(expr sqlcore.Expression) (sqlcore.ScalarValue, error) {
	switch e := expr.(type) {
	case *sqlcore.Constant:
		return e.Value, nil
	case *sqlcore.Cast:
		child, err := ExecuteScalar(e.Child)
		if err != nil {
			return sqlcore.ScalarValue{}, err
		}
		return castScalar(child, e.TargetType, e.TryCast)
	case *sqlcore.Function:
		args := make([]sqlcore.ScalarValue, len(e.Args))
		for i, a := range e.Args {
			v, err := ExecuteScalar(a)
			if err != nil {
				return sqlcore.ScalarValue{}, err
			}
			args[i] = v
		}
		return callScalarFunction(e.Function, args)
	default:
		return sqlcore.ScalarValue{}, sqlcore.NewInternalError("execute_scalar does not support this expression kind")
	}
}

func castScalar(v sqlcore.ScalarValue, target sqlcore.LogicalType, tryCast bool) (sqlcore.ScalarValue, error) {
	mem := memory.NewGoAllocator()
	arr, err := v.ToArray(mem, 1)
	if err != nil {
		return sqlcore.ScalarValue{}, err
	}
	k := kernel.Cast(target.ArrowType())
	out, err := k(mem, []arrow.Array{arr})
	if err != nil {
		if tryCast {
			return sqlcore.NewNullScalar(target), nil
		}
		return sqlcore.ScalarValue{}, sqlcore.NewCastError(err.Error())
	}
	return arrayToScalar(out, target)
}

func callScalarFunction(fn *sqlcore.ScalarFunction, args []sqlcore.ScalarValue) (sqlcore.ScalarValue, error) {
	mem := memory.NewGoAllocator()
	arrowArgs := make([]arrow.Array, len(args))
	for i, a := range args {
		arr, err := a.ToArray(mem, 1)
		if err != nil {
			return sqlcore.ScalarValue{}, err
		}
		arrowArgs[i] = arr
	}
	k, ok := fn.Kernel.(kernel.ScalarKernel)
	if !ok {
		return sqlcore.ScalarValue{}, sqlcore.NewInternalError("function has no kernel: " + fn.Name)
	}
	out, err := k(mem, arrowArgs)
	if err != nil {
		return sqlcore.ScalarValue{}, sqlcore.NewFunctionError(sqlcore.ErrCodeKernelError, err.Error())
	}
	return arrayToScalar(out, fn.ReturnType)
}

func arrayToScalar(arr arrow.Array, t sqlcore.LogicalType) (sqlcore.ScalarValue, error) {
	if arr.IsNull(0) {
		return sqlcore.NewNullScalar(t), nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return sqlcore.NewBooleanScalar(a.Value(0)), nil
	case *array.Int8:
		return sqlcore.NewTinyintScalar(a.Value(0)), nil
	case *array.Uint8:
		return sqlcore.NewUTinyintScalar(a.Value(0)), nil
	case *array.Int16:
		return sqlcore.NewSmallintScalar(a.Value(0)), nil
	case *array.Uint16:
		return sqlcore.NewUSmallintScalar(a.Value(0)), nil
	case *array.Int32:
		return sqlcore.NewIntegerScalar(a.Value(0)), nil
	case *array.Uint32:
		return sqlcore.NewUIntegerScalar(a.Value(0)), nil
	case *array.Int64:
		return sqlcore.NewBigintScalar(a.Value(0)), nil
	case *array.Uint64:
		return sqlcore.NewUBigintScalar(a.Value(0)), nil
	case *array.Float32:
		return sqlcore.NewFloatScalar(a.Value(0)), nil
	case *array.Float64:
		return sqlcore.NewDoubleScalar(a.Value(0)), nil
	case *array.String:
		return sqlcore.NewVarcharScalar(a.Value(0)), nil
	default:
		return sqlcore.ScalarValue{}, sqlcore.NewInternalError("cannot convert array element back to a scalar")
	}
}
