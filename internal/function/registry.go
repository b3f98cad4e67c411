// Package function builds the built-in scalar function catalog and the
// FunctionBinder that resolves an overload per call site, grounded on
// original_source/src/planner_v2/function_binder.rs generalized to
// spec.md §4.3's richer per-argument cost model (0 exact / 1 implicit-cast
// / -1 reject), rather than the reference's coarse all-or-nothing match.
package function

import (
	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/kernel"
)

func overload(name string, args []sqlcore.LogicalType, ret sqlcore.LogicalType, k kernel.ScalarKernel) *sqlcore.ScalarFunction {
	return &sqlcore.ScalarFunction{Name: name, ArgTypes: args, ReturnType: ret, Kernel: k}
}

func arithmeticOverloads(name string, op kernel.ArithmeticOp) []*sqlcore.ScalarFunction {
	numeric := []sqlcore.LogicalType{
		sqlcore.Tinyint, sqlcore.UTinyint, sqlcore.Smallint, sqlcore.USmallint,
		sqlcore.Integer, sqlcore.UInteger, sqlcore.Bigint, sqlcore.UBigint,
		sqlcore.Float, sqlcore.Double,
	}
	overloads := make([]*sqlcore.ScalarFunction, 0, len(numeric))
	for _, t := range numeric {
		overloads = append(overloads, overload(name, []sqlcore.LogicalType{t, t}, t, kernel.Arithmetic(t.ArrowType(), op)))
	}
	return overloads
}

func comparisonOverloads(name string, op kernel.ComparisonOp) []*sqlcore.ScalarFunction {
	types := []sqlcore.LogicalType{
		sqlcore.Boolean,
		sqlcore.Tinyint, sqlcore.UTinyint, sqlcore.Smallint, sqlcore.USmallint,
		sqlcore.Integer, sqlcore.UInteger, sqlcore.Bigint, sqlcore.UBigint,
		sqlcore.Float, sqlcore.Double, sqlcore.Varchar,
	}
	overloads := make([]*sqlcore.ScalarFunction, 0, len(types))
	for _, t := range types {
		overloads = append(overloads, overload(name, []sqlcore.LogicalType{t, t}, sqlcore.Boolean, kernel.Comparison(t.ArrowType(), op)))
	}
	return overloads
}

func conjunctionOverload(name string, kind kernel.ConjunctionKind) *sqlcore.ScalarFunction {
	return overload(name, []sqlcore.LogicalType{sqlcore.Boolean, sqlcore.Boolean}, sqlcore.Boolean, kernel.Conjunction(kind))
}

// BuiltinCatalog returns the fixed set of built-in scalar function entries
// named by spec.md §6: add/subtract/multiply/divide, the six comparisons,
// and/or. Each entry's overload list is keyed by same-type argument pairs;
// a mixed-type call is resolved by Binder.Bind in binder.go, which picks
// the cheapest implicit-cast candidate (bindFromArguments/callCost) and
// wraps the arguments in a Cast to that overload's types.
func BuiltinCatalog() map[string]*sqlcore.ScalarFunctionCatalogEntry {
	entries := map[string]*sqlcore.ScalarFunctionCatalogEntry{
		"add":      {Name: "add", Overload: arithmeticOverloads("add", kernel.OpAdd)},
		"subtract": {Name: "subtract", Overload: arithmeticOverloads("subtract", kernel.OpSubtract)},
		"multiply": {Name: "multiply", Overload: arithmeticOverloads("multiply", kernel.OpMultiply)},
		"divide":   {Name: "divide", Overload: arithmeticOverloads("divide", kernel.OpDivide)},
		"eq":       {Name: "eq", Overload: comparisonOverloads("eq", kernel.OpEq)},
		"neq":      {Name: "neq", Overload: comparisonOverloads("neq", kernel.OpNeq)},
		"lt":       {Name: "lt", Overload: comparisonOverloads("lt", kernel.OpLt)},
		"lt_eq":    {Name: "lt_eq", Overload: comparisonOverloads("lt_eq", kernel.OpLtEq)},
		"gt":       {Name: "gt", Overload: comparisonOverloads("gt", kernel.OpGt)},
		"gt_eq":    {Name: "gt_eq", Overload: comparisonOverloads("gt_eq", kernel.OpGtEq)},
		"and":      {Name: "and", Overload: []*sqlcore.ScalarFunction{conjunctionOverload("and", kernel.And)}},
		"or":       {Name: "or", Overload: []*sqlcore.ScalarFunction{conjunctionOverload("or", kernel.Or)}},
	}
	return entries
}
