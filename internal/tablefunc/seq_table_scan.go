// Package tablefunc implements the bind phase of every built-in table
// function the binder references by name (internal/binder's
// bindBaseTable/bindCopyFrom/bindShowTables all assume these are
// pre-registered in the catalog by session bootstrap). Grounded on
// original_source/src/function/table/*.rs. Each function that needs a
// runtime execute phase registers it into
// internal/executor/volcano.RegisterTableFunctionExecutor from its own
// init(), keeping the dependency strictly tablefunc -> volcano.
package tablefunc

import (
	"strings"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
)

// SeqTableScan is the bind phase of the "internal" table function every
// base-table FROM clause binds to (§4.1): given a single "schema.table"
// argument, it resolves the catalog entry and hands it back as bind_data
// for volcano's seqTableScanExecutor, which reads it straight off the
// table's own storage. Grounded on
// original_source/src/function/table/seq_table_scan.rs's bind().
func SeqTableScan(cat *catalog.RootCatalog) *sqlcore.TableFunctionCatalogEntry {
	return &sqlcore.TableFunctionCatalogEntry{
		Name: "seq_table_scan",
		Bind: func(args []sqlcore.ScalarValue) ([]string, []sqlcore.LogicalType, any, error) {
			if len(args) != 1 || args[0].Null || args[0].Type != sqlcore.Varchar {
				return nil, nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "seq_table_scan expects one non-null varchar argument")
			}
			qualified := args[0].Value.(string)
			schema, table, ok := strings.Cut(qualified, ".")
			if !ok {
				return nil, nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "seq_table_scan argument must be schema.table")
			}
			entry, err := cat.GetTable(schema, table)
			if err != nil {
				return nil, nil, nil, err
			}
			names := make([]string, len(entry.Table.Columns))
			types := make([]sqlcore.LogicalType, len(entry.Table.Columns))
			for i, c := range entry.Table.Columns {
				names[i] = c.Name
				types[i] = c.Type
			}
			return names, types, entry, nil
		},
	}
}
