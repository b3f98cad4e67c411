package tablefunc

import (
	"context"
	"database/sql"
	"io"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/executor/volcano"
)

// csvBindData is what ReadCSV's bind phase hands to its execute phase:
// the path as the binder saw it (local file or s3:// URL, resolved by
// DuckDB's own read_csv_auto) plus the column shape bind already
// determined by DESCRIBE-ing the scan once.
type csvBindData struct {
	path  string
	names []string
	types []sqlcore.LogicalType
}

// ReadCSV is the bind phase of the read_csv table function §4.1's .csv
// replacement scan and COPY ... FROM rewrite both produce a call to,
// grounded on original_source/src/function/table/read_csv.rs: it opens a
// short-lived DuckDB connection, asks it to sniff the file's schema via
// DESCRIBE, and folds duckdb_types.go's type map over the result. Takes
// a *catalog.RootCatalog only to match the BuiltinTableFunction shape
// every built-in table function constructor shares; read_csv itself
// needs no catalog access.
func ReadCSV(*catalog.RootCatalog) *sqlcore.TableFunctionCatalogEntry {
	return &sqlcore.TableFunctionCatalogEntry{
		Name: "read_csv",
		Bind: func(args []sqlcore.ScalarValue) ([]string, []sqlcore.LogicalType, any, error) {
			if len(args) != 1 || args[0].Null || args[0].Type != sqlcore.Varchar {
				return nil, nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv expects one non-null varchar path argument")
			}
			path := args[0].Value.(string)
			names, types, err := describeCSV(path)
			if err != nil {
				return nil, nil, nil, err
			}
			return names, types, &csvBindData{path: path, names: names, types: types}, nil
		},
	}
}

func describeCSV(path string) ([]string, []sqlcore.LogicalType, error) {
	db, err := openDuckDB()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "DESCRIBE SELECT * FROM read_csv_auto(?)", path)
	if err != nil {
		return nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv: describe failed: "+err.Error())
	}
	defer rows.Close()

	var names []string
	var types []sqlcore.LogicalType
	for rows.Next() {
		var columnName, columnType, null, key, def, extra sql.NullString
		if err := rows.Scan(&columnName, &columnType, &null, &key, &def, &extra); err != nil {
			return nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv: describe scan failed: "+err.Error())
		}
		names = append(names, columnName.String)
		types = append(types, duckDBTypeToLogical(columnType.String))
	}
	return names, types, rows.Err()
}

func openDuckDB() (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv: open duckdb: "+err.Error())
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func init() {
	volcano.RegisterTableFunctionExecutor("read_csv", readCSVExecutor)
}

func readCSVExecutor(bindData any) (volcano.BatchSource, error) {
	data, ok := bindData.(*csvBindData)
	if !ok {
		return nil, sqlcore.NewInternalError("read_csv: bind_data is not *csvBindData")
	}
	db, err := openDuckDB()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	rows, err := db.QueryContext(ctx, "SELECT * FROM read_csv_auto(?)", data.path)
	if err != nil {
		db.Close()
		return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv: query failed: "+err.Error())
	}
	return &sqlRowsBatchSource{db: db, rows: rows, names: data.names, types: data.types, chunkSize: 1024}, nil
}

// sqlRowsBatchSource adapts a database/sql row cursor into volcano's
// BatchSource, chunking rows into record batches of at most chunkSize —
// the generic bridge any database/sql-backed table function can reuse
// (read_csv and, indirectly, read_csv over an httpfs-backed s3:// path).
type sqlRowsBatchSource struct {
	db        *sql.DB
	rows      *sql.Rows
	names     []string
	types     []sqlcore.LogicalType
	chunkSize int
}

func (s *sqlRowsBatchSource) Next() (arrow.Record, error) {
	builders := make([]array.Builder, len(s.types))
	for i, t := range s.types {
		builders[i] = newDuckDBColumnBuilder(sqlcore.DefaultAllocator, t)
	}
	dest := make([]any, len(s.types))
	for i := range dest {
		dest[i] = new(any)
	}

	n := 0
	for n < s.chunkSize && s.rows.Next() {
		if err := s.rows.Scan(dest...); err != nil {
			s.closeAll()
			return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv: row scan failed: "+err.Error())
		}
		for i, b := range builders {
			appendDuckDBValue(b, s.types[i], *(dest[i].(*any)))
		}
		n++
	}
	if n == 0 {
		if err := s.rows.Err(); err != nil {
			s.closeAll()
			return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "read_csv: row iteration failed: "+err.Error())
		}
		s.closeAll()
		return nil, io.EOF
	}

	columns := make([]arrow.Array, len(builders))
	for i, b := range builders {
		columns[i] = b.NewArray()
	}
	schema := sqlcore.NewSchema(s.names, s.types, nil)
	return array.NewRecord(schema, columns, int64(n)), nil
}

func (s *sqlRowsBatchSource) closeAll() {
	s.rows.Close()
	s.db.Close()
}
