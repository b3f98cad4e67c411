package volcano

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/storage"
)

// BatchSource is the execute-phase counterpart of a table function's bind
// phase (sqlcore.TableFunctionBindFunc): given the bind_data the binder
// captured, it yields raw batches until io.EOF. "Raw" because a source
// may return more columns than a query actually projected (column
// pruning narrows TableScan.ReturnedTypes/Names without changing what
// the function itself produces); tableScanExec applies ProjectedColumns.
type BatchSource interface {
	Next() (arrow.Record, error)
}

// TableFunctionExecutorFunc opens a BatchSource for one scan, given the
// bind_data the function's Bind produced at bind time. Table functions
// register their executor here by name, keeping volcano the single place
// that dispatches function Name -> runtime behavior (function.go's
// TableFunctionCatalogEntry doc comment calls this out explicitly), while
// letting internal/tablefunc (read_csv, sqlrs_tables, ...) and any future
// table functions own their own execution logic without volcano needing
// to import them.
type TableFunctionExecutorFunc func(bindData any) (BatchSource, error)

var tableFunctionExecutors = map[string]TableFunctionExecutorFunc{}

// RegisterTableFunctionExecutor binds name's runtime behavior. Called
// from each table function's own package init (seq_table_scan registers
// itself below; internal/tablefunc registers the rest).
func RegisterTableFunctionExecutor(name string, fn TableFunctionExecutorFunc) {
	tableFunctionExecutors[name] = fn
}

func init() {
	RegisterTableFunctionExecutor("seq_table_scan", seqTableScanExecutor)
}

// seqTableScanExecutor reads a catalog table's own in-memory storage
// straight through, with no projection or filtering — the "internal"
// table function bindBaseTable binds every base-table FROM clause to, per
// §4.1. Grounded on function/table/seq_table_scan.rs's
// LocalStorage::create_reader(&data.bind_table.storage) call.
func seqTableScanExecutor(bindData any) (BatchSource, error) {
	entry, ok := bindData.(*catalog.TableEntry)
	if !ok {
		return nil, sqlcore.NewInternalError("seq_table_scan: bind_data is not a *catalog.TableEntry")
	}
	ts, ok := entry.Table.Handle.(*storage.LocalTableStorage)
	if !ok {
		return nil, sqlcore.NewInternalError("seq_table_scan: table has no local storage handle")
	}
	return &storageBatchSource{reader: storage.NewReader(ts)}, nil
}

type storageBatchSource struct {
	reader *storage.Reader
}

func (s *storageBatchSource) Next() (arrow.Record, error) {
	batch, ok, err := s.reader.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}
	return batch, nil
}
