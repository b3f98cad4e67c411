package volcano

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/kernel"
)

// ExecuteExpressions implements §4.7's expression executor: given a list
// of bound expressions and an input batch, produces one output array per
// expression, each the length of input's row count. Grounded on
// original_source/src/execution/expression_executor.rs.
func ExecuteExpressions(exprs []sqlcore.Expression, input *sqlcore.RecordBatch) ([]arrow.Array, error) {
	n := 0
	if input != nil {
		n = int(input.NumRows())
	}
	return ExecuteExpressionsN(exprs, input, n)
}

// ExecuteExpressionsN is ExecuteExpressions with an explicit row count,
// for callers (ExpressionScan) that evaluate constant-only rows against
// no input batch but still need a 1-row, not 0-row, result.
func ExecuteExpressionsN(exprs []sqlcore.Expression, input *sqlcore.RecordBatch, n int) ([]arrow.Array, error) {
	out := make([]arrow.Array, len(exprs))
	for i, e := range exprs {
		arr, err := executeExpr(e, input, n)
		if err != nil {
			return nil, err
		}
		out[i] = arr
	}
	return out, nil
}

func executeExpr(e sqlcore.Expression, input *sqlcore.RecordBatch, n int) (arrow.Array, error) {
	mem := sqlcore.DefaultAllocator
	switch v := e.(type) {
	case *sqlcore.Constant:
		return v.Value.ToArray(mem, n)

	case *sqlcore.Reference:
		if input == nil || v.Index >= int(input.NumCols()) {
			return nil, sqlcore.NewExecutorError(sqlcore.ErrCodeShapeViolation, "reference index out of range for input batch")
		}
		col := input.Column(v.Index)
		col.Retain()
		return col, nil

	case *sqlcore.Cast:
		child, err := executeExpr(v.Child, input, n)
		if err != nil {
			return nil, err
		}
		k := kernel.Cast(v.TargetType.ArrowType())
		out, err := k(mem, []arrow.Array{child})
		if err != nil {
			if v.TryCast {
				return nullArray(mem, v.TargetType, n)
			}
			return nil, sqlcore.NewCastError(err.Error())
		}
		return out, nil

	case *sqlcore.Function:
		args := make([]arrow.Array, len(v.Args))
		for i, a := range v.Args {
			arr, err := executeExpr(a, input, n)
			if err != nil {
				return nil, err
			}
			args[i] = arr
		}
		k, ok := v.Function.Kernel.(kernel.ScalarKernel)
		if !ok {
			return nil, sqlcore.NewInternalError("scalar function " + v.Function.Name + " has no kernel bound")
		}
		return k(mem, args)

	case *sqlcore.Comparison:
		left, err := executeExpr(v.Left, input, n)
		if err != nil {
			return nil, err
		}
		right, err := executeExpr(v.Right, input, n)
		if err != nil {
			return nil, err
		}
		k, ok := v.Function.Kernel.(kernel.ScalarKernel)
		if !ok {
			return nil, sqlcore.NewInternalError("comparison function " + v.Function.Name + " has no kernel bound")
		}
		return k(mem, []arrow.Array{left, right})

	case *sqlcore.Conjunction:
		args := make([]arrow.Array, len(v.Args))
		for i, a := range v.Args {
			arr, err := executeExpr(a, input, n)
			if err != nil {
				return nil, err
			}
			args[i] = arr
		}
		kind := kernel.And
		if v.Kind == sqlcore.ConjunctionOr {
			kind = kernel.Or
		}
		return kernel.Conjunction(kind)(mem, args)

	case *sqlcore.ColumnRef:
		return nil, sqlcore.NewInternalError("unresolved ColumnRef reached the expression executor")

	default:
		return nil, sqlcore.NewInternalError("unsupported expression kind in expression executor")
	}
}

func nullArray(mem memory.Allocator, t sqlcore.LogicalType, n int) (arrow.Array, error) {
	return sqlcore.NewNullScalar(t).ToArray(mem, n)
}
