package sqlcore

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// RecordBatch is the contiguous columnar block of §3.8: (schema, columns),
// all columns of equal length. It is a thin wrapper over arrow.Record —
// the columnar kernel library's own record type already satisfies the
// spec's shape, so there is no value in reinventing a parallel structure.
type RecordBatch struct {
	arrow.Record
}

// NewRecordBatch builds a RecordBatch from a schema and column arrays. All
// columns must have equal length; that length becomes NumRows.
func NewRecordBatch(schema *arrow.Schema, columns []arrow.Array) *RecordBatch {
	numRows := int64(0)
	if len(columns) > 0 {
		numRows = int64(columns[0].Len())
	}
	return &RecordBatch{Record: array.NewRecord(schema, columns, numRows)}
}

// Slice returns a zero-copy slice [start, end) of the batch, per §4.6's
// limit-slicing algorithm.
func (b *RecordBatch) Slice(start, end int) *RecordBatch {
	return &RecordBatch{Record: b.Record.NewSlice(int64(start), int64(end))}
}

// NewSchema builds an arrow.Schema from parallel names/types slices,
// matching §3.1's "mapping to columnar-array physical types" bijection.
// Columns are nullable unless the caller's ColumnDefinition says otherwise;
// callers that only have (names, types) treat every column as nullable.
func NewSchema(names []string, types []LogicalType, nullable []bool) *arrow.Schema {
	fields := make([]arrow.Field, len(names))
	for i := range names {
		n := true
		if nullable != nil {
			n = nullable[i]
		}
		fields[i] = arrow.Field{Name: names[i], Type: types[i].ArrowType(), Nullable: n}
	}
	return arrow.NewSchema(fields, nil)
}

// DefaultAllocator is the memory.Allocator used across the engine when no
// session-scoped allocator is available (e.g. in constant-folding at bind
// time, before a query's arena exists).
var DefaultAllocator = memory.NewGoAllocator()
