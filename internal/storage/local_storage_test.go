package storage

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
)

func sampleBatch(n int) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true}}, nil)
	b := array.NewInt32Builder(sqlcore.DefaultAllocator)
	defer b.Release()
	for i := 0; i < n; i++ {
		b.Append(int32(i))
	}
	return array.NewRecord(schema, []arrow.Array{b.NewArray()}, int64(n))
}

func TestLocalTableStorageAppendAndReader(t *testing.T) {
	ts := NewTableStorage()
	require.NoError(t, ts.Append(sampleBatch(2)))
	require.NoError(t, ts.Append(sampleBatch(3)))
	assert.Equal(t, 2, ts.NumBatches())

	reader := NewReader(ts)
	b1, ok, err := reader.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), b1.NumRows())

	b2, ok, err := reader.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), b2.NumRows())

	_, ok, err = reader.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReaderSeesBatchesAppendedAfterOpen(t *testing.T) {
	ts := NewTableStorage()
	reader := NewReader(ts)
	_, ok, _ := reader.Next()
	assert.False(t, ok)

	require.NoError(t, ts.Append(sampleBatch(1)))
	b, ok, err := reader.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), b.NumRows())
}
