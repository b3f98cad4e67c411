package volcano

import (
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/kernel"
	"github.com/lychee-technology/sqlcore/internal/logical"
	"github.com/lychee-technology/sqlcore/internal/physical"
)

func gtIntKernel(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
	left, ok1 := args[0].(*array.Int32)
	right, ok2 := args[1].(*array.Int32)
	if !ok1 || !ok2 {
		return nil, sqlcore.NewInternalError("gtIntKernel expects two Int32 arrays")
	}
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	for i := 0; i < left.Len(); i++ {
		b.Append(left.Value(i) > right.Value(i))
	}
	return b.NewArray(), nil
}

func gtIntFunction() *sqlcore.ScalarFunction {
	return &sqlcore.ScalarFunction{
		Name:       "greater_than",
		ArgTypes:   []sqlcore.LogicalType{sqlcore.Integer, sqlcore.Integer},
		ReturnType: sqlcore.Boolean,
		Kernel:     kernel.ScalarKernel(gtIntKernel),
	}
}

func TestFilterKeepsRowsMatchingPredicate(t *testing.T) {
	get := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	predicate := sqlcore.NewComparison("", sqlcore.NewReference("", 0, sqlcore.Integer),
		sqlcore.NewConstant("", sqlcore.NewIntegerScalar(2)), gtIntFunction())
	require.NoError(t, get.ResolveTypes())
	logicalFilter := logical.NewFilter(predicate, get)
	require.NoError(t, logicalFilter.ResolveTypes())
	plan, ok := physical.Generate(logicalFilter).(*physical.Filter)
	require.True(t, ok)

	child := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(0, 6)}}
	exec := &filterExec{plan: plan, child: child}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 4, 5}, drainInt32Col(t, out))
}

func TestProjectionEvaluatesExpressionsPerBatch(t *testing.T) {
	get := logical.NewGet(0, nil, nil, []sqlcore.LogicalType{sqlcore.Integer}, []string{"a"})
	ref := sqlcore.NewReference("doubled_alias", 0, sqlcore.Integer)
	require.NoError(t, get.ResolveTypes())
	logicalProj := logical.NewProjection(0, []sqlcore.Expression{ref}, get)
	require.NoError(t, logicalProj.ResolveTypes())
	plan, ok := physical.Generate(logicalProj).(*physical.Projection)
	require.True(t, ok)

	child := &sliceExecutor{batches: []*sqlcore.RecordBatch{rangeBatch(0, 3)}}
	exec := &projectionExec{plan: plan, child: child}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "doubled_alias", out[0].Schema().Field(0).Name)
	assert.Equal(t, []int32{0, 1, 2}, drainInt32Col(t, out))
}

func TestDummyScanYieldsExactlyOneRowThenEOF(t *testing.T) {
	logicalDummy := logical.NewDummyScan(0, []sqlcore.LogicalType{sqlcore.Integer})
	plan, ok := physical.Generate(logicalDummy).(*physical.DummyScan)
	require.True(t, ok)
	exec := &dummyScanExec{plan: plan}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.EqualValues(t, 1, out[0].NumRows())

	_, err = exec.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestColumnDataScanReplaysCollectionThenEOF(t *testing.T) {
	b1 := rangeBatch(0, 2)
	b2 := rangeBatch(2, 4)
	exec := &columnDataScanExec{plan: &physical.ColumnDataScan{Collection: []arrow.Record{b1.Record, b2.Record}}}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 3}, drainInt32Col(t, out))
}
