package logical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
)

func TestCrossJoinConcatenatesChildBindingsAndTypes(t *testing.T) {
	left := NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer, sqlcore.Varchar}, []string{"a", "b"})
	right := NewGet(1, nil, nil, []sqlcore.LogicalType{sqlcore.Boolean}, []string{"c"})

	join := NewCrossJoin(left, right)
	require.NoError(t, join.ResolveTypes())

	assert.Equal(t, []sqlcore.LogicalType{sqlcore.Integer, sqlcore.Varchar, sqlcore.Boolean}, join.Types())

	bindings := join.ColumnBindings()
	require.Len(t, bindings, 3)
	assert.Equal(t, 0, bindings[0].TableIdx)
	assert.Equal(t, 0, bindings[1].TableIdx)
	assert.Equal(t, 1, bindings[2].TableIdx)
}

func TestCrossJoinWithChildrenReplacesChildrenWithoutMutatingOriginal(t *testing.T) {
	left := NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	right := NewGet(1, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"b"})
	join := NewCrossJoin(left, right)

	replacement := NewGet(2, nil, nil, []sqlcore.LogicalType{sqlcore.Varchar}, []string{"c"})
	next := join.WithChildren([]Plan{left, replacement})

	newJoin, ok := next.(*CrossJoin)
	require.True(t, ok)
	assert.Same(t, replacement, newJoin.Children()[1])
	assert.Same(t, right, join.Children()[1], "original node's children must be left untouched")
}

func TestCrossJoinResolveTypesRejectsWrongChildCount(t *testing.T) {
	left := NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	join := &CrossJoin{base: base{children: []Plan{left}}}
	assert.Error(t, join.ResolveTypes())
}
