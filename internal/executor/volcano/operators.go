package volcano

import (
	"context"
	"io"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"go.uber.org/multierr"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/kernel"
	"github.com/lychee-technology/sqlcore/internal/logical"
	"github.com/lychee-technology/sqlcore/internal/physical"
	"github.com/lychee-technology/sqlcore/internal/storage"
)

// --- CreateTable ---------------------------------------------------------

type createTableExec struct {
	plan *physical.CreateTable
	ec   *Context
	done bool
}

func (c *createTableExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if c.done {
		return nil, io.EOF
	}
	c.done = true
	if err := c.ec.checkInterrupted(); err != nil {
		return nil, err
	}
	if _, err := createCatalogTable(c.ec, c.plan.Info); err != nil {
		return nil, err
	}
	return successBatch("CREATE TABLE " + c.plan.Info.TableName), nil
}

// createCatalogTable registers a new table and backs it with fresh
// in-memory storage, per §4.6's CreateTable contract. Shared by both
// PhysicalCreateTable and PhysicalInsert's create-table-as path.
func createCatalogTable(ec *Context, info *logical.CreateTableInfo) (*catalog.TableEntry, error) {
	schema := info.SchemaName
	if schema == "" {
		schema = ec.DefaultSchema
	}
	table := &catalog.DataTable{Name: info.TableName, Columns: info.Columns, Handle: storage.NewTableStorage()}
	return ec.Catalog.CreateTable(schema, table)
}

func successBatch(message string) *sqlcore.RecordBatch {
	mem := sqlcore.DefaultAllocator
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Append(message)
	schema := sqlcore.NewSchema([]string{"success"}, []sqlcore.LogicalType{sqlcore.Varchar}, []bool{false})
	return sqlcore.NewRecordBatch(schema, []arrow.Array{b.NewArray()})
}

// --- Insert ----------------------------------------------------------------

type insertExec struct {
	plan *physical.Insert
	ec   *Context
	child Executor
	done bool
}

// Insert produces no output batches of its own (per §4.6's table: only
// CreateTable and ColumnDataScan-backed operators yield rows); it drains
// its child eagerly on the first Next call, appending every row into the
// target table's storage, then reports end-of-stream forever after.
//
// A failed Append (e.g. the table is write-locked by a concurrent insert)
// does not abort the statement: the row is skipped and its error
// aggregated with multierr, so one contended batch doesn't sacrifice the
// rest of a multi-row VALUES list. The aggregated error, if any, is
// reported once the child is fully drained.
func (ins *insertExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if ins.done {
		return nil, io.EOF
	}
	ins.done = true

	table, exprs, err := insertBoundInfo(ins.ec, ins.plan)
	if err != nil {
		return nil, err
	}
	storageHandle, ok := table.Table.Handle.(*storage.LocalTableStorage)
	if !ok {
		return nil, sqlcore.NewInternalError("insert: target table has no local storage handle")
	}

	names := make([]string, len(table.Table.Columns))
	types := make([]sqlcore.LogicalType, len(table.Table.Columns))
	for i, c := range table.Table.Columns {
		names[i] = c.Name
		types[i] = c.Type
	}
	schema := sqlcore.NewSchema(names, types, nil)

	var appendErrs error
	for {
		if err := ins.ec.checkInterrupted(); err != nil {
			return nil, multierr.Append(appendErrs, err)
		}
		batch, err := ins.child.Next(ctx)
		if err == io.EOF {
			if appendErrs != nil {
				return nil, appendErrs
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, multierr.Append(appendErrs, err)
		}
		columns, err := ExecuteExpressions(exprs, batch)
		if err != nil {
			return nil, multierr.Append(appendErrs, err)
		}
		row := sqlcore.NewRecordBatch(schema, columns)
		if err := storageHandle.Append(row.Record); err != nil {
			appendErrs = multierr.Append(appendErrs, err)
			continue
		}
	}
}

// insertBoundInfo resolves the target table and the per-column
// expression list, handling both "INSERT INTO" (column_index_list into
// the source row) and "CREATE TABLE AS" (identity projection over the
// freshly created table's columns). Grounded on Insert::
// insert_into_bound_info / create_table_bound_info in insert.rs.
func insertBoundInfo(ec *Context, plan *physical.Insert) (*catalog.TableEntry, []sqlcore.Expression, error) {
	if plan.CreateTableInfo != nil {
		table, err := createCatalogTable(ec, plan.CreateTableInfo)
		if err != nil {
			return nil, nil, err
		}
		exprs := make([]sqlcore.Expression, len(table.Table.Columns))
		for i, c := range table.Table.Columns {
			exprs[i] = sqlcore.NewReference("", i, c.Type)
		}
		return table, exprs, nil
	}

	table := plan.Table
	exprs := make([]sqlcore.Expression, len(table.Table.Columns))
	for tableColIdx := range table.Table.Columns {
		colType := table.Table.Columns[tableColIdx].Type
		srcIdx := logical.InvalidIndex
		if tableColIdx < len(plan.ColumnIndexList) {
			srcIdx = plan.ColumnIndexList[tableColIdx]
		}
		if srcIdx == logical.InvalidIndex {
			exprs[tableColIdx] = sqlcore.NewConstant("", sqlcore.NewNullScalar(colType))
		} else {
			exprs[tableColIdx] = sqlcore.NewReference("", srcIdx, colType)
		}
	}
	return table, exprs, nil
}

// --- TableScan ---------------------------------------------------------

type tableScanExec struct {
	plan   *physical.TableScan
	ec     *Context
	source BatchSource
}

func (t *tableScanExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if err := t.ec.checkInterrupted(); err != nil {
		return nil, err
	}
	if t.source == nil {
		open, ok := tableFunctionExecutors[t.plan.Function.Name]
		if !ok {
			return nil, sqlcore.NewInternalError("no executor registered for table function " + t.plan.Function.Name)
		}
		source, err := open(t.plan.BindData)
		if err != nil {
			return nil, err
		}
		t.source = source
	}

	raw, err := t.source.Next()
	if err != nil {
		return nil, err
	}
	columns := raw.Columns()
	if t.plan.ProjectedColumns != nil {
		projected := make([]arrow.Array, len(t.plan.ProjectedColumns))
		for i, c := range t.plan.ProjectedColumns {
			projected[i] = columns[c]
		}
		columns = projected
	}
	schema := sqlcore.NewSchema(t.plan.Names, t.plan.ReturnedTypes, nil)
	return sqlcore.NewRecordBatch(schema, columns), nil
}

// --- ExpressionScan ------------------------------------------------------

type expressionScanExec struct {
	plan *physical.ExpressionScan
	cursor int
}

func (e *expressionScanExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if e.cursor >= len(e.plan.Rows) {
		return nil, io.EOF
	}
	row := e.plan.Rows[e.cursor]
	e.cursor++
	columns, err := ExecuteExpressionsN(row, nil, 1)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(e.plan.ExprTypes))
	for i := range names {
		names[i] = colName(i)
	}
	schema := sqlcore.NewSchema(names, e.plan.ExprTypes, nil)
	return sqlcore.NewRecordBatch(schema, columns), nil
}

func colName(idx int) string {
	return "col" + itoa(idx)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// --- Projection ------------------------------------------------------------

type projectionExec struct {
	plan  *physical.Projection
	child Executor
}

func (p *projectionExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	batch, err := p.child.Next(ctx)
	if err != nil {
		return nil, err
	}
	columns, err := ExecuteExpressions(p.plan.Expressions(), batch)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(p.plan.Expressions()))
	types := p.plan.Types()
	for i, e := range p.plan.Expressions() {
		names[i] = e.Alias()
		if names[i] == "" {
			names[i] = colName(i)
		}
	}
	schema := sqlcore.NewSchema(names, types, nil)
	return sqlcore.NewRecordBatch(schema, columns), nil
}

// --- Filter ------------------------------------------------------------

type filterExec struct {
	plan  *physical.Filter
	child Executor
}

func (f *filterExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	for {
		batch, err := f.child.Next(ctx)
		if err != nil {
			return nil, err
		}
		masks, err := ExecuteExpressions(f.plan.Expressions(), batch)
		if err != nil {
			return nil, err
		}
		mask, ok := masks[0].(*array.Boolean)
		if !ok {
			return nil, sqlcore.NewExecutorError(sqlcore.ErrCodeShapeViolation, "filter predicate did not evaluate to a Boolean array")
		}
		filtered, err := filterRecord(batch, mask)
		if err != nil {
			return nil, err
		}
		return filtered, nil
	}
}

func filterRecord(batch *sqlcore.RecordBatch, mask *array.Boolean) (*sqlcore.RecordBatch, error) {
	mem := sqlcore.DefaultAllocator
	n := int(batch.NumCols())
	columns := make([]arrow.Array, n)
	for i := 0; i < n; i++ {
		col, err := kernel.Filter(mem, batch.Column(i), mask)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return sqlcore.NewRecordBatch(batch.Schema(), columns), nil
}

// --- Limit ---------------------------------------------------------------

type limitExec struct {
	plan          *physical.Limit
	child         Executor
	returnedCount uint64
	exhausted     bool
}

// Next implements §4.6's limit-slicing algorithm one batch at a time,
// ported directly from limit.rs.
func (l *limitExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if l.exhausted {
		return nil, io.EOF
	}
	if l.plan.LimitVal != nil && *l.plan.LimitVal == 0 {
		l.exhausted = true
		return nil, io.EOF
	}
	offsetVal := uint64(0)
	if l.plan.OffsetVal != nil {
		offsetVal = *l.plan.OffsetVal
	}

	for {
		batch, err := l.child.Next(ctx)
		if err == io.EOF {
			l.exhausted = true
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		cardinality := uint64(batch.NumRows())
		totalEnd := uint64(math.MaxUint64)
		if l.plan.LimitVal != nil {
			totalEnd = offsetVal + *l.plan.LimitVal
		}

		start := max64(l.returnedCount, offsetVal) - l.returnedCount
		currentBatchEnd := l.returnedCount + cardinality
		realEnd := min64(totalEnd, currentBatchEnd)
		end := realEnd - l.returnedCount

		l.returnedCount += cardinality

		if l.returnedCount >= totalEnd {
			l.exhausted = true
		}

		if start >= end {
			if l.exhausted {
				return nil, io.EOF
			}
			continue
		}

		if start == 0 && end == cardinality {
			return batch, nil
		}
		return batch.Slice(int(start), int(end)), nil
	}
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// --- DummyScan ---------------------------------------------------------

type dummyScanExec struct {
	plan *physical.DummyScan
	done bool
}

func (d *dummyScanExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if d.done {
		return nil, io.EOF
	}
	d.done = true
	names := make([]string, len(d.plan.Types()))
	for i := range names {
		names[i] = colName(i)
	}
	schema := sqlcore.NewSchema(names, d.plan.Types(), nil)
	columns := make([]arrow.Array, len(d.plan.Types()))
	for i, t := range d.plan.Types() {
		arr, err := sqlcore.NewNullScalar(t).ToArray(sqlcore.DefaultAllocator, 1)
		if err != nil {
			return nil, err
		}
		columns[i] = arr
	}
	return sqlcore.NewRecordBatch(schema, columns), nil
}

// --- CrossJoin -------------------------------------------------------------

// crossJoinExec is a nested-loop cartesian product: the right child is
// materialized once (build side), then for every left batch the executor
// pairs it against every buffered right batch, gathering row indices with
// kernel.Take. No condition, no join type — spec.md's
// Non-goals leave deeper join planning unimplemented.
type crossJoinExec struct {
	plan  *physical.CrossJoin
	left  Executor
	right Executor

	rightBatches []*sqlcore.RecordBatch
	rightLoaded  bool

	leftBatch *sqlcore.RecordBatch
	rightIdx  int
}

func (j *crossJoinExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if !j.rightLoaded {
		for {
			batch, err := j.right.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			j.rightBatches = append(j.rightBatches, batch)
		}
		j.rightLoaded = true
	}

	for {
		if j.leftBatch == nil {
			batch, err := j.left.Next(ctx)
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}
			j.leftBatch = batch
			j.rightIdx = 0
		}

		if j.rightIdx >= len(j.rightBatches) {
			j.leftBatch = nil
			continue
		}

		right := j.rightBatches[j.rightIdx]
		j.rightIdx++

		combined, err := crossProductBatch(j.leftBatch, right, j.plan.Types())
		if err != nil {
			return nil, err
		}
		if combined == nil {
			continue
		}
		return combined, nil
	}
}

// crossProductBatch pairs every row of left with every row of right,
// gathering each side's columns via kernel.Take over a repeated/tiled
// index list. Returns (nil, nil) when either side is empty — an empty
// cartesian factor yields no rows.
func crossProductBatch(left, right *sqlcore.RecordBatch, types []sqlcore.LogicalType) (*sqlcore.RecordBatch, error) {
	ln := int(left.NumRows())
	rn := int(right.NumRows())
	if ln == 0 || rn == 0 {
		return nil, nil
	}

	leftIdx := make([]int, 0, ln*rn)
	rightIdx := make([]int, 0, ln*rn)
	for i := 0; i < ln; i++ {
		for k := 0; k < rn; k++ {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, k)
		}
	}

	mem := sqlcore.DefaultAllocator
	leftCols := int(left.NumCols())
	rightCols := int(right.NumCols())
	columns := make([]arrow.Array, leftCols+rightCols)
	for c := 0; c < leftCols; c++ {
		col, err := kernel.Take(mem, left.Column(c), leftIdx)
		if err != nil {
			return nil, err
		}
		columns[c] = col
	}
	for c := 0; c < rightCols; c++ {
		col, err := kernel.Take(mem, right.Column(c), rightIdx)
		if err != nil {
			return nil, err
		}
		columns[leftCols+c] = col
	}

	names := make([]string, leftCols+rightCols)
	for i := range names {
		names[i] = colName(i)
	}
	schema := sqlcore.NewSchema(names, types, nil)
	return sqlcore.NewRecordBatch(schema, columns), nil
}

// --- ColumnDataScan ------------------------------------------------------

type columnDataScanExec struct {
	plan   *physical.ColumnDataScan
	cursor int
}

func (c *columnDataScanExec) Next(ctx context.Context) (*sqlcore.RecordBatch, error) {
	if c.cursor >= len(c.plan.Collection) {
		return nil, io.EOF
	}
	rec := c.plan.Collection[c.cursor]
	c.cursor++
	return &sqlcore.RecordBatch{Record: rec}, nil
}
