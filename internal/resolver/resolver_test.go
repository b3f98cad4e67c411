package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

func TestResolveProjectionOverGet(t *testing.T) {
	get := logical.NewGet(0, nil, nil,
		[]sqlcore.LogicalType{sqlcore.Integer, sqlcore.Varchar},
		[]string{"c1", "c2"})
	ref := sqlcore.NewColumnRef("c2", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: 1}, 0, sqlcore.Varchar)
	proj := logical.NewProjection(1, []sqlcore.Expression{ref}, get)

	Resolve(proj)

	resolved, ok := proj.Expressions()[0].(*sqlcore.Reference)
	require.True(t, ok, "ColumnRef should have been rewritten to a Reference")
	assert.Equal(t, 1, resolved.Index)
	assert.Equal(t, sqlcore.Varchar, resolved.ReturnType())
}

func TestResolveFilterAndProjectionChain(t *testing.T) {
	get := logical.NewGet(0, nil, nil,
		[]sqlcore.LogicalType{sqlcore.Integer},
		[]string{"c1"})
	predicate := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: 0}, 0, sqlcore.Boolean)
	filter := logical.NewFilter(predicate, get)
	projRef := sqlcore.NewColumnRef("c1", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: 0}, 0, sqlcore.Integer)
	proj := logical.NewProjection(1, []sqlcore.Expression{projRef}, filter)

	Resolve(proj)

	_, ok := filter.Expressions()[0].(*sqlcore.Reference)
	require.True(t, ok)
	_, ok = proj.Expressions()[0].(*sqlcore.Reference)
	require.True(t, ok, "Projection reads Filter's (pass-through) output bindings, which are the Get's")
}

func TestResolveProjectionOverCrossJoin(t *testing.T) {
	left := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	right := logical.NewGet(1, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	join := logical.NewCrossJoin(left, right)
	require.NoError(t, join.ResolveTypes())

	leftRef := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 0, ColumnIdx: 0}, 0, sqlcore.Integer)
	rightRef := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 1, ColumnIdx: 0}, 0, sqlcore.Integer)
	proj := logical.NewProjection(2, []sqlcore.Expression{leftRef, rightRef}, join)

	Resolve(proj)

	resolvedLeft, ok := proj.Expressions()[0].(*sqlcore.Reference)
	require.True(t, ok)
	assert.Equal(t, 0, resolvedLeft.Index, "left side occupies the first position of CrossJoin's concatenated bindings")

	resolvedRight, ok := proj.Expressions()[1].(*sqlcore.Reference)
	require.True(t, ok)
	assert.Equal(t, 1, resolvedRight.Index, "right side follows left in CrossJoin's concatenated bindings")
}

func TestResolvePanicsOnUnknownBinding(t *testing.T) {
	get := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"c1"})
	badRef := sqlcore.NewColumnRef("", sqlcore.ColumnBinding{TableIdx: 99, ColumnIdx: 0}, 0, sqlcore.Integer)
	proj := logical.NewProjection(1, []sqlcore.Expression{badRef}, get)

	assert.Panics(t, func() { Resolve(proj) })
}
