package heuristic

import (
	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

// PushProjectIntoTableScanRule implements column pruning: a Projection
// over a Get whose expressions are pure column references prunes the
// scan down to only the referenced columns.
//
// This implementation keeps the outer Projection node rather than
// dropping it outright (the Rust reference's stated behavior): ancestors
// elsewhere in the plan may hold a ColumnRef keyed on the Projection's
// own table_idx (assigned once, at bind time, and never renumbered), so
// eliminating the node would silently invalidate those references. The
// scan is still pruned to the columns actually read, which is the rule's
// real payoff; the Projection above it becomes a cheap reordering/no-op
// pass once resolved to Reference indices in §4.4.
type PushProjectIntoTableScanRule struct{}

func (PushProjectIntoTableScanRule) Name() string { return "PushProjectIntoTableScan" }

func (PushProjectIntoTableScanRule) Pattern() *Pattern {
	return &Pattern{
		Predicate: func(p logical.Plan) bool { _, ok := p.(*logical.Projection); return ok },
		ChildrenKind: ChildrenPredicate,
		Children: []Pattern{{
			Predicate:    func(p logical.Plan) bool { _, ok := p.(*logical.Get); return ok },
			ChildrenKind: ChildrenNone,
		}},
	}
}

func (PushProjectIntoTableScanRule) Apply(matched OptExpr, sub *Substitute) {
	proj, ok := matched.Root.PlanRef.(*logical.Projection)
	if !ok {
		return
	}
	get, ok := matched.Children[0].Root.PlanRef.(*logical.Get)
	if !ok {
		return
	}

	colIdx := make([]int, 0, len(proj.Expressions()))
	for _, e := range proj.Expressions() {
		ref, ok := e.(*sqlcore.ColumnRef)
		if !ok || ref.Binding.TableIdx != get.TableIdx {
			return // not a pure column-selection projection; leave untouched
		}
		colIdx = append(colIdx, ref.Binding.ColumnIdx)
	}
	if len(colIdx) == len(get.ReturnedTypes) && isIdentityOrder(colIdx) {
		return // already fully projected in order; nothing to prune
	}

	newTypes := make([]sqlcore.LogicalType, len(colIdx))
	newNames := make([]string, len(colIdx))
	for i, c := range colIdx {
		newTypes[i] = get.ReturnedTypes[c]
		newNames[i] = get.Names[c]
	}
	prunedGet := logical.NewGet(get.TableIdx, get.Function, get.BindData, newTypes, newNames)
	prunedGet.ProjectedColumns = colIdx

	// remap the projection's ColumnRefs onto the pruned scan's compacted
	// column positions.
	remapped := make([]sqlcore.Expression, len(proj.Expressions()))
	for i, e := range proj.Expressions() {
		ref := e.(*sqlcore.ColumnRef)
		remapped[i] = sqlcore.NewColumnRef(ref.Alias(), sqlcore.ColumnBinding{TableIdx: get.TableIdx, ColumnIdx: i}, ref.Depth, ref.ReturnType())
	}
	newProj := logical.NewProjection(proj.TableIdx, remapped, prunedGet)

	sub.OptExprs = []OptExpr{{
		Root:     PlanRefNode(newProj),
		Children: []OptExpr{{Root: PlanRefNode(prunedGet)}},
	}}
}

func isIdentityOrder(idx []int) bool {
	for i, v := range idx {
		if i != v {
			return false
		}
	}
	return true
}

// CollapseProjectRule merges Project[a] -> Project[b] into a single
// Project computing a with every reference to b's output columns
// substituted by b's own expressions, dropping the inner Project.
type CollapseProjectRule struct{}

func (CollapseProjectRule) Name() string { return "CollapseProject" }

func (CollapseProjectRule) Pattern() *Pattern {
	isProjection := func(p logical.Plan) bool { _, ok := p.(*logical.Projection); return ok }
	return &Pattern{
		Predicate:    isProjection,
		ChildrenKind: ChildrenPredicate,
		Children: []Pattern{{
			Predicate:    isProjection,
			ChildrenKind: ChildrenNone,
		}},
	}
}

func (CollapseProjectRule) Apply(matched OptExpr, sub *Substitute) {
	outer, ok := matched.Root.PlanRef.(*logical.Projection)
	if !ok {
		return
	}
	inner, ok := matched.Children[0].Root.PlanRef.(*logical.Projection)
	if !ok {
		return
	}

	composed := make([]sqlcore.Expression, len(outer.Expressions()))
	for i, e := range outer.Expressions() {
		composed[i] = substituteColumnRefs(e, inner.TableIdx, inner.Expressions())
	}
	newProj := logical.NewProjection(outer.TableIdx, composed, inner.Children()[0])

	sub.OptExprs = []OptExpr{{
		Root:     PlanRefNode(newProj),
		Children: []OptExpr{{Root: ExistingIDNode(innerChildID(matched))}},
	}}
}

// innerChildID recovers the graph id of inner's (already-existing) child,
// which the None children-predicate exposed as an opaque ExistingID stub
// one level further down.
func innerChildID(matched OptExpr) int {
	return matched.Children[0].Children[0].Root.ExistingID
}

// substituteColumnRefs rewrites every ColumnRef{TableIdx: targetTableIdx,
// ColumnIdx: i} leaf in expr with replacements[i], recursively.
func substituteColumnRefs(expr sqlcore.Expression, targetTableIdx int, replacements []sqlcore.Expression) sqlcore.Expression {
	switch e := expr.(type) {
	case *sqlcore.ColumnRef:
		if e.Binding.TableIdx == targetTableIdx && e.Binding.ColumnIdx < len(replacements) {
			return replacements[e.Binding.ColumnIdx]
		}
		return e
	case *sqlcore.Cast:
		return sqlcore.NewCast(e.Alias(), substituteColumnRefs(e.Child, targetTableIdx, replacements), e.TargetType, e.TryCast)
	case *sqlcore.Function:
		args := make([]sqlcore.Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = substituteColumnRefs(a, targetTableIdx, replacements)
		}
		return sqlcore.NewFunction(e.Alias(), e.Function, args, e.ReturnType())
	case *sqlcore.Comparison:
		return sqlcore.NewComparison(e.Alias(),
			substituteColumnRefs(e.Left, targetTableIdx, replacements),
			substituteColumnRefs(e.Right, targetTableIdx, replacements), e.Function)
	case *sqlcore.Conjunction:
		args := make([]sqlcore.Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = substituteColumnRefs(a, targetTableIdx, replacements)
		}
		return sqlcore.NewConjunction(e.Alias(), args, e.Kind)
	default:
		return expr // Constant, Reference: no children to substitute
	}
}

// LimitProjectTransposeRule pushes a Limit below a Project, since
// limiting first reduces the row volume the projection has to evaluate.
type LimitProjectTransposeRule struct{}

func (LimitProjectTransposeRule) Name() string { return "LimitProjectTranspose" }

func (LimitProjectTransposeRule) Pattern() *Pattern {
	return &Pattern{
		Predicate:    func(p logical.Plan) bool { _, ok := p.(*logical.Limit); return ok },
		ChildrenKind: ChildrenPredicate,
		Children: []Pattern{{
			Predicate:    func(p logical.Plan) bool { _, ok := p.(*logical.Projection); return ok },
			ChildrenKind: ChildrenNone,
		}},
	}
}

func (LimitProjectTransposeRule) Apply(matched OptExpr, sub *Substitute) {
	limit, ok := matched.Root.PlanRef.(*logical.Limit)
	if !ok {
		return
	}
	proj, ok := matched.Children[0].Root.PlanRef.(*logical.Projection)
	if !ok {
		return
	}

	projChild := proj.Children()[0]
	newLimit := logical.NewLimit(limit.LimitVal, limit.OffsetVal, limit.LimitExpr, limit.OffsetExpr, projChild)
	newProj := logical.NewProjection(proj.TableIdx, proj.Expressions(), newLimit)

	sub.OptExprs = []OptExpr{{
		Root: PlanRefNode(newProj),
		Children: []OptExpr{{
			Root:     PlanRefNode(newLimit),
			Children: []OptExpr{{Root: ExistingIDNode(matched.Children[0].Children[0].Root.ExistingID)}},
		}},
	}}
}

// PushPredicateThroughJoinRule would split a Filter's predicate across a
// Join's inputs. logical.CrossJoin exists (comma-separated FROM lists
// bind to it, per §6's cross-product allowance), but it carries no join
// condition and no Inner/Left/Right distinction — deep join planning is
// explicitly out of scope (spec.md's Non-goals) — so there is nothing
// for this rule to split predicates against yet; it exists so the
// representative rule list of §4.2 has a concrete (if inert)
// counterpart, and so a future conditioned join planner has a slot to
// fill in without restructuring the rule registry.
type PushPredicateThroughJoinRule struct{}

func (PushPredicateThroughJoinRule) Name() string { return "PushPredicateThroughJoin" }

func (PushPredicateThroughJoinRule) Pattern() *Pattern {
	return &Pattern{
		Predicate:    func(logical.Plan) bool { return false },
		ChildrenKind: ChildrenNone,
	}
}

func (PushPredicateThroughJoinRule) Apply(OptExpr, *Substitute) {}

// DefaultRules is the rule set this engine's query pipeline runs, in the
// order a HepProgram should try them: structural simplifications before
// the (currently inert) join rule.
func DefaultRules() []Rule {
	return []Rule{
		CollapseProjectRule{},
		PushProjectIntoTableScanRule{},
		LimitProjectTransposeRule{},
		PushPredicateThroughJoinRule{},
	}
}
