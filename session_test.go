package sqlcore

import (
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore/internal/tablefunc"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultConfig(), tablefunc.SeqTableScan)
	require.NoError(t, err)
	return s
}

func drainQuery(t *testing.T, s *Session, sql string) []*RecordBatch {
	t.Helper()
	res, err := s.Query(context.Background(), sql)
	require.NoError(t, err)
	var out []*RecordBatch
	for {
		batch, err := res.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, batch)
	}
	return out
}

func int32Col(t *testing.T, batches []*RecordBatch, idx int) []int32 {
	t.Helper()
	var out []int32
	for _, b := range batches {
		col, ok := b.Column(idx).(*array.Int32)
		require.True(t, ok)
		for i := 0; i < col.Len(); i++ {
			out = append(out, col.Value(i))
		}
	}
	return out
}

// TestArithmeticBroadcast covers S1: a constant-folded arithmetic
// expression with no FROM clause runs over DummyScan's single synthetic
// row, producing one batch, one row, value 3.
func TestArithmeticBroadcast(t *testing.T) {
	s := newTestSession(t)
	out := drainQuery(t, s, "SELECT 1 + 2")
	require.Len(t, out, 1)
	assert.EqualValues(t, 1, out[0].NumRows())
	assert.Equal(t, []int32{3}, int32Col(t, out, 0))
}

// TestProjectionAndFilter covers S2: a projection over a filtered table
// scan, Projection(ref 0) -> Filter(ref 1 > 15) -> TableScan(t).
func TestProjectionAndFilter(t *testing.T) {
	s := newTestSession(t)

	drainQuery(t, s, "CREATE TABLE t(a Integer, b Integer)")
	drainQuery(t, s, "INSERT INTO t VALUES (1, 10), (2, 20), (3, 30)")

	out := drainQuery(t, s, "SELECT a FROM t WHERE b > 15")
	assert.Equal(t, []int32{2, 3}, int32Col(t, out, 0))
}

// TestLimitOffsetAcrossBatches covers S3: a table holding 6 rows is
// scanned, sliced by LIMIT/OFFSET across the storage layer's own batch
// boundaries.
func TestLimitOffsetAcrossBatches(t *testing.T) {
	s := newTestSession(t)

	drainQuery(t, s, "CREATE TABLE t(a Integer)")
	drainQuery(t, s, "INSERT INTO t VALUES (0), (1), (2), (3), (4), (5)")

	out := drainQuery(t, s, "SELECT * FROM t LIMIT 4 OFFSET 1")
	assert.Equal(t, []int32{1, 2, 3, 4}, int32Col(t, out, 0))
}

// TestInsertFromValuesRoundTrip covers S4: INSERT INTO t(b,a) VALUES
// ('x', 1) builds column_index_list = [1, 0]; a subsequent SELECT * FROM
// t returns the row with columns back in table-declaration order.
func TestInsertFromValuesRoundTrip(t *testing.T) {
	s := newTestSession(t)

	drainQuery(t, s, "CREATE TABLE t(a Integer, b Varchar)")
	drainQuery(t, s, "INSERT INTO t(b, a) VALUES ('x', 1)")

	out := drainQuery(t, s, "SELECT * FROM t")
	require.Len(t, out, 1)
	assert.Equal(t, []int32{1}, int32Col(t, out, 0))
	bCol, ok := out[0].Column(1).(*array.String)
	require.True(t, ok)
	assert.Equal(t, "x", bCol.Value(0))
}

// TestAmbiguousColumnAcrossCrossJoin covers S6: two tables t1(a), t2(a) in
// scope via a comma-separated FROM list; an unqualified SELECT a fails at
// bind with Ambiguous, a qualified t1.a succeeds.
func TestAmbiguousColumnAcrossCrossJoin(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	drainQuery(t, s, "CREATE TABLE t1(a Integer)")
	drainQuery(t, s, "CREATE TABLE t2(a Integer)")
	drainQuery(t, s, "INSERT INTO t1 VALUES (1)")
	drainQuery(t, s, "INSERT INTO t2 VALUES (10)")

	_, err := s.Query(ctx, "SELECT a FROM t1, t2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguous)

	out := drainQuery(t, s, "SELECT t1.a FROM t1, t2")
	require.Len(t, out, 1)
	assert.Equal(t, []int32{1}, int32Col(t, out, 0))
}
