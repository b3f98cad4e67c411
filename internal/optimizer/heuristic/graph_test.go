package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

func buildScanProjectLimit() logical.Plan {
	get := logical.NewGet(0, nil, nil,
		[]sqlcore.LogicalType{sqlcore.Integer, sqlcore.Varchar},
		[]string{"c1", "c2"})
	col := func(i int, t sqlcore.LogicalType) sqlcore.Expression {
		return sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: i}, 0, t)
	}
	proj := logical.NewProjection(1, []sqlcore.Expression{col(0, sqlcore.Integer)}, get)
	limit := logical.NewLimit(10, 0, nil, nil, proj)
	return limit
}

func TestGraphChildrenAtAndNodesIter(t *testing.T) {
	plan := buildScanProjectLimit()
	g := NewHepGraph(plan)

	// root(Limit=0) -> Project(1) -> Get(2)
	require.Equal(t, []int{1}, g.ChildrenAt(g.Root()))
	require.Equal(t, []int{2}, g.ChildrenAt(1))

	topDown := g.NodesIter(TopDown)
	assert.Equal(t, []int{0, 1, 2}, topDown)

	bottomUp := g.NodesIter(BottomUp)
	assert.Equal(t, []int{2, 1, 0}, bottomUp)
}

func TestGraphToPlanRoundTrips(t *testing.T) {
	plan := buildScanProjectLimit()
	g := NewHepGraph(plan)

	rebuilt := g.ToPlan()
	limit, ok := rebuilt.(*logical.Limit)
	require.True(t, ok)
	require.Len(t, limit.Children(), 1)
	proj, ok := limit.Children()[0].(*logical.Projection)
	require.True(t, ok)
	_, ok = proj.Children()[0].(*logical.Get)
	require.True(t, ok)
}

func TestGraphReplaceNodePrunesUnreachable(t *testing.T) {
	plan := buildScanProjectLimit()
	g := NewHepGraph(plan)

	originalIDs := g.NodesIter(TopDown)
	require.Len(t, originalIDs, 3)

	get := g.NodePlan(2).(*logical.Get)
	newOptExpr := OptExpr{Root: PlanRefNode(get)} // replace Project(1) directly with the Get
	g.ReplaceNode(1, newOptExpr)

	remaining := g.NodesIter(TopDown)
	assert.Len(t, remaining, 2) // old Limit root + the reused Get; the old Project(1) id is gone
	for _, id := range remaining {
		assert.NotEqual(t, 1, id)
	}
}

func TestLimitProjectTransposeRule(t *testing.T) {
	plan := buildScanProjectLimit()
	program := NewHepProgram([]HepInstruction{InstructionRule(LimitProjectTransposeRule{})})
	opt := NewHepOptimizer(program, plan)

	result := opt.FindBest()
	proj, ok := result.(*logical.Projection)
	require.True(t, ok, "expected Limit->Project to transpose into Project->Limit")
	limit, ok := proj.Children()[0].(*logical.Limit)
	require.True(t, ok)
	_, ok = limit.Children()[0].(*logical.Get)
	require.True(t, ok)
}

func TestCollapseProjectRule(t *testing.T) {
	get := logical.NewGet(0, nil, nil,
		[]sqlcore.LogicalType{sqlcore.Integer},
		[]string{"c1"})
	colRef := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: 0}, 0, sqlcore.Integer)
	inner := logical.NewProjection(1, []sqlcore.Expression{colRef}, get)
	innerRef := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 1, ColumnIdx: 0}, 0, sqlcore.Integer)
	outer := logical.NewProjection(2, []sqlcore.Expression{innerRef}, inner)

	program := NewHepProgram([]HepInstruction{InstructionRule(CollapseProjectRule{})})
	opt := NewHepOptimizer(program, outer)
	result := opt.FindBest()

	proj, ok := result.(*logical.Projection)
	require.True(t, ok)
	require.Len(t, proj.Expressions(), 1)
	ref, ok := proj.Expressions()[0].(*sqlcore.ColumnRef)
	require.True(t, ok)
	assert.Equal(t, 0, ref.Binding.TableIdx, "outer's reference to inner's column 0 should resolve straight to the scan")
	_, ok = proj.Children()[0].(*logical.Get)
	require.True(t, ok, "the inner Projection should have been dropped")
}
