package physical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

func TestGenerateScanFilterProjection(t *testing.T) {
	get := logical.NewGet(0, nil, nil,
		[]sqlcore.LogicalType{sqlcore.Integer, sqlcore.Integer},
		[]string{"a", "b"})
	predicate := sqlcore.NewComparison("", sqlcore.NewReference("", 1, sqlcore.Integer), sqlcore.NewConstant("", sqlcore.ScalarValue{Type: sqlcore.Integer, Value: int32(15)}), nil)
	filter := logical.NewFilter(predicate, get)
	proj := logical.NewProjection(1, []sqlcore.Expression{sqlcore.NewReference("", 0, sqlcore.Integer)}, filter)

	op := Generate(proj)

	p, ok := op.(*Projection)
	require.True(t, ok)
	require.Len(t, p.Children(), 1)
	f, ok := p.Children()[0].(*Filter)
	require.True(t, ok)
	require.Len(t, f.Expressions(), 1, "Filter's expression list always collapses to one conjunction")
	_, isComparison := f.Expressions()[0].(*sqlcore.Comparison)
	assert.True(t, isComparison, "a single predicate collapses to itself, not a wrapped Conjunction")
	scan, ok := f.Children()[0].(*TableScan)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, scan.Names)
}

func TestAndConjunctionIsIdentityOnSingleton(t *testing.T) {
	ref := sqlcore.NewReference("", 0, sqlcore.Boolean)
	got := andConjunction([]sqlcore.Expression{ref})
	assert.Same(t, ref, got)
}

func TestAndConjunctionWrapsMultiple(t *testing.T) {
	a := sqlcore.NewReference("", 0, sqlcore.Boolean)
	b := sqlcore.NewReference("", 1, sqlcore.Boolean)
	got := andConjunction([]sqlcore.Expression{a, b})
	conj, ok := got.(*sqlcore.Conjunction)
	require.True(t, ok)
	assert.Equal(t, sqlcore.ConjunctionAnd, conj.Kind)
	assert.Len(t, conj.Args, 2)
}

func TestGenerateExplainBuildsColumnDataScan(t *testing.T) {
	get := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	proj := logical.NewProjection(1, []sqlcore.Expression{sqlcore.NewReference("", 0, sqlcore.Integer)}, get)
	explain := logical.NewExplain(logical.ExplainPlan, "Projection\n  Get\n", proj)

	op := Generate(explain)
	scan, ok := op.(*ColumnDataScan)
	require.True(t, ok)
	require.Len(t, scan.Collection, 1)
	record := scan.Collection[0]
	assert.Equal(t, int64(3), record.NumRows())
	assert.Equal(t, int64(2), record.NumCols())
}

func TestGenerateDummyScan(t *testing.T) {
	dummy := logical.NewDummyScan(0, []sqlcore.LogicalType{sqlcore.Integer})
	op := Generate(dummy)
	_, ok := op.(*DummyScan)
	require.True(t, ok)
	assert.Equal(t, []sqlcore.LogicalType{sqlcore.Integer}, op.Types())
}
