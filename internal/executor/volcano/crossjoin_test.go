package volcano

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
	"github.com/lychee-technology/sqlcore/internal/physical"
)

// crossJoinPlan builds a resolved, generated physical.CrossJoin over two
// single-column Integer Gets, the same route a real query would take
// (logical.NewCrossJoin -> ResolveTypes -> physical.Generate).
func crossJoinPlan(t *testing.T) *physical.CrossJoin {
	t.Helper()
	left := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	require.NoError(t, left.ResolveTypes())
	right := logical.NewGet(1, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"b"})
	require.NoError(t, right.ResolveTypes())
	join := logical.NewCrossJoin(left, right)
	require.NoError(t, join.ResolveTypes())
	plan, ok := physical.Generate(join).(*physical.CrossJoin)
	require.True(t, ok)
	return plan
}

func intCol(t *testing.T, b *sqlcore.RecordBatch, idx int) []int32 {
	t.Helper()
	col, ok := b.Column(idx).(*array.Int32)
	require.True(t, ok)
	out := make([]int32, col.Len())
	for i := range out {
		out[i] = col.Value(i)
	}
	return out
}

func TestCrossJoinExecutorProducesCartesianProduct(t *testing.T) {
	left := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(0, 2)}}     // a: 0,1
	right := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(10, 13)}} // b: 10,11,12

	exec := &crossJoinExec{plan: crossJoinPlan(t), left: left, right: right}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.EqualValues(t, 2, out[0].NumCols())
	assert.EqualValues(t, 6, out[0].NumRows())
	assert.Equal(t, []int32{0, 0, 0, 1, 1, 1}, intCol(t, out[0], 0))
	assert.Equal(t, []int32{10, 11, 12, 10, 11, 12}, intCol(t, out[0], 1))
}

func TestCrossJoinExecutorMaterializesRightOncePerMultipleLeftBatches(t *testing.T) {
	left := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(0, 1), rangeBatch(1, 2)}}
	right := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(10, 12)}}

	exec := &crossJoinExec{plan: crossJoinPlan(t), left: left, right: right}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)

	var leftCol, rightCol []int32
	for _, b := range out {
		leftCol = append(leftCol, intCol(t, b, 0)...)
		rightCol = append(rightCol, intCol(t, b, 1)...)
	}
	assert.Equal(t, []int32{0, 0, 1, 1}, leftCol)
	assert.Equal(t, []int32{10, 11, 10, 11}, rightCol)
	assert.Equal(t, 1, right.cursor, "right side should be drained exactly once regardless of left batch count")
}

func TestCrossJoinExecutorSkipsEmptyFactor(t *testing.T) {
	left := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(0, 0), rangeBatch(0, 2)}}
	right := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(10, 11)}}

	exec := &crossJoinExec{plan: crossJoinPlan(t), left: left, right: right}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)

	var total int64
	for _, b := range out {
		total += b.NumRows()
	}
	assert.EqualValues(t, 2, total)
}
