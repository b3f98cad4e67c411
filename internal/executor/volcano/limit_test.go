package volcano

import (
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/physical"
)

// sliceExecutor replays a fixed list of batches, then io.EOF forever.
type sliceExecutor struct {
	batches []*sqlcore.RecordBatch
	cursor  int
}

func (s *sliceExecutor) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if s.cursor >= len(s.batches) {
		return nil, io.EOF
	}
	b := s.batches[s.cursor]
	s.cursor++
	return b, nil
}

func rangeBatch(start, end int32) *sqlcore.RecordBatch {
	mem := sqlcore.DefaultAllocator
	b := array.NewInt32Builder(mem)
	defer b.Release()
	for v := start; v < end; v++ {
		b.Append(v)
	}
	schema := sqlcore.NewSchema([]string{"a"}, []sqlcore.LogicalType{sqlcore.Integer}, []bool{false})
	return sqlcore.NewRecordBatch(schema, []arrow.Array{b.NewArray()})
}

func drainInt32Col(t *testing.T, batches []*sqlcore.RecordBatch) []int32 {
	t.Helper()
	var out []int32
	for _, b := range batches {
		col, ok := b.Column(0).(*array.Int32)
		require.True(t, ok)
		for i := 0; i < col.Len(); i++ {
			out = append(out, col.Value(i))
		}
	}
	return out
}

func u64(v uint64) *uint64 { return &v }

func TestLimitScenarios(t *testing.T) {
	cases := []struct {
		name    string
		inputs  []struct{ start, end int32 }
		offset  uint64
		limit   uint64
		want    []int32
	}{
		{"single batch mid-slice", []struct{ start, end int32 }{{0, 6}}, 1, 4, []int32{1, 2, 3, 4}},
		{"single batch no-op window", []struct{ start, end int32 }{{0, 6}}, 0, 10, []int32{0, 1, 2, 3, 4, 5}},
		{"offset beyond cardinality, zero limit", []struct{ start, end int32 }{{0, 6}}, 10, 0, nil},
		{"multi-batch spanning slices", []struct{ start, end int32 }{{0, 2}, {2, 4}, {4, 6}}, 1, 4, []int32{1, 2, 3, 4}},
		{"multi-batch early stop", []struct{ start, end int32 }{{0, 2}, {2, 4}, {4, 6}}, 1, 2, []int32{1, 2}},
		{"offset past all input, zero limit", []struct{ start, end int32 }{{0, 2}, {2, 4}, {4, 6}}, 3, 0, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			batches := make([]*sqlcore.RecordBatch, len(tc.inputs))
			for i, r := range tc.inputs {
				batches[i] = rangeBatch(r.start, r.end)
			}
			child := &sliceExecutor{batches: batches}
			limit := u64(tc.limit)
			offset := u64(tc.offset)
			exec := &limitExec{plan: &physical.Limit{LimitVal: limit, OffsetVal: offset}, child: child}

			out, err := drainAll(context.Background(), exec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, drainInt32Col(t, out))
		})
	}
}

// TestLimitWithOffsetOnlyIsUnbounded covers a LIMIT-less OFFSET: §6's
// grammar allows OFFSET without LIMIT, and the limit side must not be
// clamped to whatever the current batch's row count happens to be.
func TestLimitWithOffsetOnlyIsUnbounded(t *testing.T) {
	child := &sliceExecutor{batches: []*sqlcore.RecordBatch{
		rangeBatch(0, 2), rangeBatch(2, 4), rangeBatch(4, 6),
	}}
	exec := &limitExec{plan: &physical.Limit{LimitVal: nil, OffsetVal: u64(1)}, child: child}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, drainInt32Col(t, out))
}

func TestLimitStopsPullingChildOnceSatisfied(t *testing.T) {
	child := &sliceExecutor{batches: []*sqlcore.RecordBatch{
		rangeBatch(0, 2), rangeBatch(2, 4), rangeBatch(4, 6),
	}}
	exec := &limitExec{plan: &physical.Limit{LimitVal: u64(2), OffsetVal: u64(0)}, child: child}

	out, err := drainAll(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1}, drainInt32Col(t, out))
	assert.Equal(t, 1, child.cursor, "limit should stop pulling once the limit is satisfied")
}
