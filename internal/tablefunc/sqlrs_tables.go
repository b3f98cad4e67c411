package tablefunc

import (
	"io"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/executor/volcano"
)

// SqlrsTables backs SHOW TABLES, which internal/binder rewrites into
// SELECT * FROM sqlrs_tables(). Its bind phase takes no arguments and
// reports the fixed four-column shape §6's external-interfaces section
// names; the execute phase reads every table out of RootCatalog.Schemas()
// and each schema's Tables.Scan in a single batch, sorted by (schema,
// table) for deterministic output since the catalog's underlying map has
// no iteration order guarantee.
func SqlrsTables(cat *catalog.RootCatalog) *sqlcore.TableFunctionCatalogEntry {
	return &sqlcore.TableFunctionCatalogEntry{
		Name: "sqlrs_tables",
		Bind: func(args []sqlcore.ScalarValue) ([]string, []sqlcore.LogicalType, any, error) {
			if len(args) != 0 {
				return nil, nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "sqlrs_tables takes no arguments")
			}
			names := []string{"schema_name", "schema_oid", "table_name", "table_oid"}
			types := []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Integer, sqlcore.Varchar, sqlcore.Integer}
			return names, types, cat, nil
		},
	}
}

type tableRow struct {
	schema    string
	schemaOid int64
	table     string
	tableOid  int64
}

func init() {
	volcano.RegisterTableFunctionExecutor("sqlrs_tables", sqlrsTablesExecutor)
}

func sqlrsTablesExecutor(bindData any) (volcano.BatchSource, error) {
	cat, ok := bindData.(*catalog.RootCatalog)
	if !ok {
		return nil, sqlcore.NewInternalError("sqlrs_tables: bind_data is not *catalog.RootCatalog")
	}
	var rows []tableRow
	for _, schema := range cat.Schemas() {
		for _, entry := range schema.Tables.Scan(nil) {
			rows = append(rows, tableRow{schema: schema.Name, schemaOid: schema.Oid, table: entry.Name, tableOid: entry.Oid})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].schema != rows[j].schema {
			return rows[i].schema < rows[j].schema
		}
		return rows[i].table < rows[j].table
	})
	return &onceBatchSource{build: func() (arrow.Record, error) {
		mem := sqlcore.DefaultAllocator
		schemaNameB := array.NewStringBuilder(mem)
		schemaOidB := array.NewInt32Builder(mem)
		tableNameB := array.NewStringBuilder(mem)
		tableOidB := array.NewInt32Builder(mem)
		for _, r := range rows {
			schemaNameB.Append(r.schema)
			schemaOidB.Append(int32(r.schemaOid))
			tableNameB.Append(r.table)
			tableOidB.Append(int32(r.tableOid))
		}
		schema := sqlcore.NewSchema([]string{"schema_name", "schema_oid", "table_name", "table_oid"},
			[]sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Integer, sqlcore.Varchar, sqlcore.Integer}, nil)
		columns := []arrow.Array{schemaNameB.NewArray(), schemaOidB.NewArray(), tableNameB.NewArray(), tableOidB.NewArray()}
		return array.NewRecord(schema, columns, int64(len(rows))), nil
	}}, nil
}

// onceBatchSource yields the record build produces exactly once, then
// io.EOF — the shape every catalog-introspection function needs, since
// their whole result is one small in-memory batch rather than a stream.
type onceBatchSource struct {
	build func() (arrow.Record, error)
	done  bool
}

func (s *onceBatchSource) Next() (arrow.Record, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.build()
}
