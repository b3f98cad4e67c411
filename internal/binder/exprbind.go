package binder

import (
	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/function"
	"github.com/lychee-technology/sqlcore/internal/sqlfrontend"
)

// exprBinder resolves sqlfrontend.Expr trees against a BindContext (plus
// an optional select-list alias map, for alias references in WHERE and in
// the select list itself) into sqlcore.Expression, per §4.1's
// expression-binding rules.
type exprBinder struct {
	ctx       *BindContext
	aliasMap  map[string]int        // alias -> select item index, for WHERE and projection binding
	items     []sqlfrontend.SelectItem // the select list itself, for alias lookups
	functions *Functions
}

func newExprBinder(ctx *BindContext, functions *Functions) *exprBinder {
	return &exprBinder{ctx: ctx, functions: functions}
}

func (b *exprBinder) withAliasMap(aliasMap map[string]int, items []sqlfrontend.SelectItem) *exprBinder {
	return &exprBinder{ctx: b.ctx, aliasMap: aliasMap, items: items, functions: b.functions}
}

func (b *exprBinder) bind(e sqlfrontend.Expr) (sqlcore.Expression, error) {
	switch v := e.(type) {
	case *sqlfrontend.Ident:
		return b.bindIdent(v)
	case *sqlfrontend.Literal:
		return b.bindLiteral(v)
	case *sqlfrontend.Binary:
		return b.bindBinary(v)
	default:
		return nil, sqlcore.NewBindError(sqlcore.ErrCodeUnsupported, "unsupported expression construct")
	}
}

func (b *exprBinder) bindIdent(v *sqlfrontend.Ident) (sqlcore.Expression, error) {
	ref, err := b.ctx.BindColumn(v.Qualifier, v.Name)
	if err == nil {
		return ref, nil
	}
	if v.Qualifier == "" && b.aliasMap != nil {
		if idx, ok := b.aliasMap[v.Name]; ok {
			return b.bind(b.items[idx].Expr)
		}
	}
	return nil, err
}

func (b *exprBinder) bindLiteral(v *sqlfrontend.Literal) (sqlcore.Expression, error) {
	switch v.Kind {
	case sqlfrontend.LiteralNull:
		return sqlcore.NewConstant("", sqlcore.NewNullScalar(sqlcore.Integer)), nil
	case sqlfrontend.LiteralInt:
		if int64(int32(v.Int)) == v.Int {
			return sqlcore.NewConstant("", sqlcore.NewIntegerScalar(int32(v.Int))), nil
		}
		return sqlcore.NewConstant("", sqlcore.NewBigintScalar(v.Int)), nil
	case sqlfrontend.LiteralFloat:
		return sqlcore.NewConstant("", sqlcore.NewDoubleScalar(v.Float)), nil
	case sqlfrontend.LiteralString:
		return sqlcore.NewConstant("", sqlcore.NewVarcharScalar(v.Str)), nil
	case sqlfrontend.LiteralBool:
		return sqlcore.NewConstant("", sqlcore.NewBooleanScalar(v.Bool)), nil
	default:
		return nil, sqlcore.NewBindError(sqlcore.ErrCodeUnsupported, "unsupported literal kind")
	}
}

func (b *exprBinder) bindBinary(v *sqlfrontend.Binary) (sqlcore.Expression, error) {
	left, err := b.bind(v.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.bind(v.Right)
	if err != nil {
		return nil, err
	}

	switch v.Op {
	case sqlfrontend.OpAdd, sqlfrontend.OpSub, sqlfrontend.OpMul, sqlfrontend.OpDiv:
		return b.bindArithmetic(v.Op, left, right)
	case sqlfrontend.OpEq, sqlfrontend.OpNeq, sqlfrontend.OpLt, sqlfrontend.OpLtEq, sqlfrontend.OpGt, sqlfrontend.OpGtEq:
		return b.bindComparison(v.Op, left, right)
	case sqlfrontend.OpAnd, sqlfrontend.OpOr:
		return b.bindConjunction(v.Op, left, right)
	default:
		return nil, sqlcore.NewBindError(sqlcore.ErrCodeUnsupported, "unsupported binary operator")
	}
}

var arithmeticFunctionName = map[sqlfrontend.BinaryOp]string{
	sqlfrontend.OpAdd: "add",
	sqlfrontend.OpSub: "subtract",
	sqlfrontend.OpMul: "multiply",
	sqlfrontend.OpDiv: "divide",
}

func (b *exprBinder) bindArithmetic(op sqlfrontend.BinaryOp, left, right sqlcore.Expression) (sqlcore.Expression, error) {
	name := arithmeticFunctionName[op]
	entry, err := b.functions.Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.functions.Binder.Bind(entry, []sqlcore.Expression{left, right}, "")
}

var comparisonFunctionName = map[sqlfrontend.BinaryOp]string{
	sqlfrontend.OpEq:   "eq",
	sqlfrontend.OpNeq:  "neq",
	sqlfrontend.OpLt:   "lt",
	sqlfrontend.OpLtEq: "lt_eq",
	sqlfrontend.OpGt:   "gt",
	sqlfrontend.OpGtEq: "gt_eq",
}

func (b *exprBinder) bindComparison(op sqlfrontend.BinaryOp, left, right sqlcore.Expression) (sqlcore.Expression, error) {
	inputType, err := sqlcore.MaxCommonType(left.ReturnType(), right.ReturnType())
	if err != nil {
		return nil, err
	}
	if left.ReturnType() != inputType {
		left = sqlcore.NewCast("", left, inputType, true)
	}
	if right.ReturnType() != inputType {
		right = sqlcore.NewCast("", right, inputType, true)
	}
	entry, err := b.functions.Lookup(comparisonFunctionName[op])
	if err != nil {
		return nil, err
	}
	for _, overload := range entry.Overload {
		if overload.ArgTypes[0] == inputType {
			return sqlcore.NewComparison("", left, right, overload), nil
		}
	}
	return nil, sqlcore.NewNoMatchError("no comparison kernel for type " + inputType.String())
}

func (b *exprBinder) bindConjunction(op sqlfrontend.BinaryOp, left, right sqlcore.Expression) (sqlcore.Expression, error) {
	if left.ReturnType() != sqlcore.Boolean {
		left = sqlcore.NewCast("", left, sqlcore.Boolean, true)
	}
	if right.ReturnType() != sqlcore.Boolean {
		right = sqlcore.NewCast("", right, sqlcore.Boolean, true)
	}
	kind := sqlcore.ConjunctionAnd
	if op == sqlfrontend.OpOr {
		kind = sqlcore.ConjunctionOr
	}
	return sqlcore.NewConjunction("", []sqlcore.Expression{left, right}, kind), nil
}

// Functions bundles the scalar function catalog lookup (schema-scoped,
// via the catalog) with the FunctionBinder that picks overloads.
type Functions struct {
	Lookup func(name string) (*sqlcore.ScalarFunctionCatalogEntry, error)
	Binder *function.Binder
}
