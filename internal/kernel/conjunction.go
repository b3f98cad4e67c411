package kernel

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ConjunctionKind distinguishes AND from OR for the kernel below, mirroring
// sqlcore.ConjunctionKind without importing the root package for an enum.
type ConjunctionKind int

const (
	And ConjunctionKind = iota
	Or
)

// ternary is Kleene three-valued logic's three outcomes.
type ternary int

const (
	unknown ternary = iota
	isTrue
	isFalse
)

func toTernary(arr *array.Boolean, i int) ternary {
	if arr.IsNull(i) {
		return unknown
	}
	if arr.Value(i) {
		return isTrue
	}
	return isFalse
}

func kleeneAnd(a, b ternary) ternary {
	if a == isFalse || b == isFalse {
		return isFalse
	}
	if a == unknown || b == unknown {
		return unknown
	}
	return isTrue
}

func kleeneOr(a, b ternary) ternary {
	if a == isTrue || b == isTrue {
		return isTrue
	}
	if a == unknown || b == unknown {
		return unknown
	}
	return isFalse
}

// Conjunction builds a ScalarKernel left-folding Kleene AND/OR across two or
// more Boolean arrays, treating NULL as the SQL "unknown" truth value per
// standard three-valued logic rather than propagating NULL unconditionally
// (NULL AND FALSE is FALSE, not NULL).
func Conjunction(kind ConjunctionKind) ScalarKernel {
	return func(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
		if len(args) < 2 {
			return nil, shapeError("conjunction kernel expects at least 2 arguments")
		}
		mem = allocatorOrDefault(mem)
		bools := make([]*array.Boolean, len(args))
		n := args[0].Len()
		for i, a := range args {
			arr, ok := a.(*array.Boolean)
			if !ok {
				return nil, shapeError("conjunction operands must be Boolean arrays")
			}
			if arr.Len() != n {
				return nil, shapeError("conjunction operands have mismatched lengths")
			}
			bools[i] = arr
		}
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		fold := kleeneAnd
		if kind == Or {
			fold = kleeneOr
		}
		for row := 0; row < n; row++ {
			acc := toTernary(bools[0], row)
			for _, arr := range bools[1:] {
				acc = fold(acc, toTernary(arr, row))
			}
			switch acc {
			case isTrue:
				b.Append(true)
			case isFalse:
				b.Append(false)
			default:
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	}
}
