package tablefunc

import (
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/executor/volcano"
)

// SqlrsColumns backs DESCRIBE <table>'s column listing, rewritten by
// internal/binder into SELECT * FROM sqlrs_columns(). Per §6 it reports
// one row per table — table_name plus its column names and logical
// types each flattened into a single comma-joined Varchar, in the
// table's declared column order, rather than one row per column.
func SqlrsColumns(cat *catalog.RootCatalog) *sqlcore.TableFunctionCatalogEntry {
	return &sqlcore.TableFunctionCatalogEntry{
		Name: "sqlrs_columns",
		Bind: func(args []sqlcore.ScalarValue) ([]string, []sqlcore.LogicalType, any, error) {
			if len(args) != 0 {
				return nil, nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "sqlrs_columns takes no arguments")
			}
			names := []string{"table_name", "column_names", "column_types"}
			types := []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Varchar, sqlcore.Varchar}
			return names, types, cat, nil
		},
	}
}

type columnsRow struct {
	table       string
	columnNames string
	columnTypes string
}

func init() {
	volcano.RegisterTableFunctionExecutor("sqlrs_columns", sqlrsColumnsExecutor)
}

func sqlrsColumnsExecutor(bindData any) (volcano.BatchSource, error) {
	cat, ok := bindData.(*catalog.RootCatalog)
	if !ok {
		return nil, sqlcore.NewInternalError("sqlrs_columns: bind_data is not *catalog.RootCatalog")
	}
	var rows []columnsRow
	for _, schema := range cat.Schemas() {
		for _, entry := range schema.Tables.Scan(nil) {
			names := make([]string, len(entry.Table.Columns))
			types := make([]string, len(entry.Table.Columns))
			for i, col := range entry.Table.Columns {
				names[i] = col.Name
				types[i] = col.Type.String()
			}
			rows = append(rows, columnsRow{
				table:       entry.Name,
				columnNames: strings.Join(names, ","),
				columnTypes: strings.Join(types, ","),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].table < rows[j].table })
	return &onceBatchSource{build: func() (arrow.Record, error) {
		mem := sqlcore.DefaultAllocator
		tableB := array.NewStringBuilder(mem)
		namesB := array.NewStringBuilder(mem)
		typesB := array.NewStringBuilder(mem)
		for _, r := range rows {
			tableB.Append(r.table)
			namesB.Append(r.columnNames)
			typesB.Append(r.columnTypes)
		}
		schema := sqlcore.NewSchema([]string{"table_name", "column_names", "column_types"},
			[]sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Varchar, sqlcore.Varchar}, nil)
		columns := []arrow.Array{tableB.NewArray(), namesB.NewArray(), typesB.NewArray()}
		return array.NewRecord(schema, columns, int64(len(rows))), nil
	}}, nil
}
