// Package resolver implements the column-binding resolver of §4.4: a
// post-order logical-plan visitor that rewrites every sqlcore.ColumnRef
// into a positional sqlcore.Reference against the concatenation of its
// node's children's output bindings. Grounded on
// original_source/src/execution/column_binding_resolver.rs and the
// generic visitor shape of original_source/src/planner_v2/
// logical_operator_visitor.rs.
package resolver

import (
	"fmt"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

// Resolve rewrites every ColumnRef in plan's expression tree (and all of
// its descendants) to a Reference positional into the concatenation of
// that node's children's output bindings, per §4.4's four-step contract.
// A ColumnRef the binder produced but that matches no input binding is a
// bug — the binder guaranteed the binding exists — so this panics rather
// than returning an error, matching the Rust reference's own assertion.
func Resolve(plan logical.Plan) logical.Plan {
	for _, child := range plan.Children() {
		Resolve(child)
	}

	var inputBindings []sqlcore.ColumnBinding
	for _, child := range plan.Children() {
		inputBindings = append(inputBindings, child.ColumnBindings()...)
	}

	rewriteExpressions(plan, inputBindings)
	return plan
}

// rewriteExpressions type-switches on the concrete node since
// logical.Plan exposes Expressions() read-only (expressions are set at
// construction); each node variant exposes a mutator for its own
// expression slot(s).
func rewriteExpressions(plan logical.Plan, inputBindings []sqlcore.ColumnBinding) {
	switch p := plan.(type) {
	case *logical.Projection:
		for i, e := range p.Expressions() {
			p.Expressions()[i] = rewriteExpr(e, inputBindings)
		}
	case *logical.Filter:
		for i, e := range p.Expressions() {
			p.Expressions()[i] = rewriteExpr(e, inputBindings)
		}
	case *logical.Limit:
		if p.LimitExpr != nil {
			p.LimitExpr = rewriteExpr(p.LimitExpr, inputBindings)
		}
		if p.OffsetExpr != nil {
			p.OffsetExpr = rewriteExpr(p.OffsetExpr, inputBindings)
		}
	case *logical.ExpressionGet:
		for _, row := range p.Rows {
			for i, e := range row {
				row[i] = rewriteExpr(e, inputBindings)
			}
		}
	case *logical.Insert:
		// Insert's source plan carries its own expressions; nothing on
		// Insert itself references a ColumnRef.
	default:
		// CreateTable, Get, DummyScan, CrossJoin, Explain: no
		// ColumnRef-bearing expressions of their own.
	}
}

func rewriteExpr(e sqlcore.Expression, bindings []sqlcore.ColumnBinding) sqlcore.Expression {
	switch v := e.(type) {
	case *sqlcore.ColumnRef:
		if v.Depth != 0 {
			panic(fmt.Sprintf("column-binding resolver: unsupported correlated reference depth %d", v.Depth))
		}
		for idx, b := range bindings {
			if b.Equal(v.Binding) {
				return sqlcore.NewReference(v.Alias(), idx, v.ReturnType())
			}
		}
		panic(fmt.Sprintf("column-binding resolver: failed to resolve column reference %s [%d.%d] against bindings %v",
			v.Alias(), v.Binding.TableIdx, v.Binding.ColumnIdx, bindings))
	case *sqlcore.Cast:
		return sqlcore.NewCast(v.Alias(), rewriteExpr(v.Child, bindings), v.TargetType, v.TryCast)
	case *sqlcore.Function:
		args := make([]sqlcore.Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = rewriteExpr(a, bindings)
		}
		return sqlcore.NewFunction(v.Alias(), v.Function, args, v.ReturnType())
	case *sqlcore.Comparison:
		return sqlcore.NewComparison(v.Alias(), rewriteExpr(v.Left, bindings), rewriteExpr(v.Right, bindings), v.Function)
	case *sqlcore.Conjunction:
		args := make([]sqlcore.Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = rewriteExpr(a, bindings)
		}
		return sqlcore.NewConjunction(v.Alias(), args, v.Kind)
	default:
		return e // Constant, Reference: no ColumnRef descendants
	}
}
