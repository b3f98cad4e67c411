package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

// TestApplyRuleDeclinedSubstituteReportsNotMatched covers §4.2's "if zero,
// the driver treats the call as not-matched" rule: PushProjectIntoTableScanRule
// legitimately writes nothing to Substitute when the Projection is already a
// full, identity-order column selection over the Get, and applyRule must
// surface that as a miss rather than a successful rewrite.
func TestApplyRuleDeclinedSubstituteReportsNotMatched(t *testing.T) {
	get := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	col := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: 0}, 0, sqlcore.Integer)
	proj := logical.NewProjection(0, []sqlcore.Expression{col}, get)

	opt := &HepOptimizer{program: NewHepProgram(nil), graph: NewHepGraph(proj)}

	matched := opt.applyRule(PushProjectIntoTableScanRule{}, opt.graph.Root())
	assert.False(t, matched, "an already-fully-projected identity selection must report not-matched")
}

// TestFindBestTerminatesOnIdentityProjectionOverGet is the end-to-end
// regression for the same bug: before the fix, a declined Apply was reported
// as matched, applyRules restarted from node 0 every time, and the same node
// matched the same way forever since the graph never actually changed. A
// plain "SELECT * FROM t"-shaped plan (a full identity projection over a Get,
// the exact shape bindSelect/expandItems produce) must come back unchanged,
// not loop until the match limit.
func TestFindBestTerminatesOnIdentityProjectionOverGet(t *testing.T) {
	get := logical.NewGet(0, nil, nil,
		[]sqlcore.LogicalType{sqlcore.Integer, sqlcore.Varchar},
		[]string{"a", "b"})
	col := func(i int, ty sqlcore.LogicalType) sqlcore.Expression {
		return sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: i}, 0, ty)
	}
	proj := logical.NewProjection(0, []sqlcore.Expression{col(0, sqlcore.Integer), col(1, sqlcore.Varchar)}, get)

	program := NewHepProgram([]HepInstruction{
		InstructionMatchLimit(10),
		InstructionRules(DefaultRules()),
	})
	opt := NewHepOptimizer(program, proj)

	result := opt.FindBest()
	rebuilt, ok := result.(*logical.Projection)
	require.True(t, ok, "plan shape is preserved when no rule can legally rewrite it")
	_, ok = rebuilt.Children()[0].(*logical.Get)
	assert.True(t, ok)
}

// TestMatchLimitInstructionAppliesBeforeRulesInstruction guards the ordering
// fix in session.go: InstructionMatchLimit must run before InstructionRules
// in program order, otherwise applyRules sees the program's NewHepProgram-time
// default (effectively unbounded) instead of the configured limit.
func TestMatchLimitInstructionAppliesBeforeRulesInstruction(t *testing.T) {
	get := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Varchar}, []string{"a", "b"})
	col := func(i int) sqlcore.Expression {
		return sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: i}, 0, sqlcore.Varchar)
	}
	// Project[a] -> Project[a,b] -> Get: CollapseProjectRule can fire once.
	inner := logical.NewProjection(1, []sqlcore.Expression{col(0), col(1)}, get)
	outer := logical.NewProjection(0, []sqlcore.Expression{
		sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 1, ColumnIdx: 0}, 0, sqlcore.Varchar),
	}, inner)

	program := NewHepProgram([]HepInstruction{
		InstructionMatchLimit(1),
		InstructionRule(CollapseProjectRule{}),
	})
	assert.EqualValues(t, ^uint32(0), program.matchLimit, "matchLimit field itself only changes once an instruction runs")

	opt := NewHepOptimizer(program, outer)
	opt.FindBest()
	assert.EqualValues(t, 1, program.matchLimit, "InstructionMatchLimit must have executed and set the configured limit")
}
