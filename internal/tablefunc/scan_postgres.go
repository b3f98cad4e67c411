package tablefunc

import (
	"context"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/executor/volcano"
)

type postgresBindData struct {
	dsn   string
	query string
	names []string
	types []sqlcore.LogicalType
}

// pgConn is the subset of *pgx.Conn this function drives, matching the
// teacher's queryPool pattern in factory/factory.go so tests can swap in
// pgxmock without touching the production connect path.
type pgConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

var connectPostgres = func(ctx context.Context, dsn string) (pgConn, error) {
	return pgx.Connect(ctx, dsn)
}

// ScanPostgres backs scan_postgres(dsn, query), §6's remote-scan table
// function. Bind connects once to describe the query's result shape (a
// LIMIT 0 wrapper, so describing an expensive query costs nothing beyond
// planning) and closes the connection; execute reconnects and streams
// the real query's rows. Grounded on the teacher's pgx/v5 usage
// throughout factory/factory.go and internal/postgres_repository.go —
// jackc/pgx/v5 is this codebase's only Postgres driver. Takes a
// *catalog.RootCatalog only to match the BuiltinTableFunction shape
// every built-in table function constructor shares.
func ScanPostgres(*catalog.RootCatalog) *sqlcore.TableFunctionCatalogEntry {
	return &sqlcore.TableFunctionCatalogEntry{
		Name: "scan_postgres",
		Bind: func(args []sqlcore.ScalarValue) ([]string, []sqlcore.LogicalType, any, error) {
			if len(args) != 2 || args[0].Null || args[1].Null || args[0].Type != sqlcore.Varchar || args[1].Type != sqlcore.Varchar {
				return nil, nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres expects two non-null varchar arguments: dsn, query")
			}
			dsn := args[0].Value.(string)
			query := args[1].Value.(string)
			names, types, err := describePostgresQuery(dsn, query)
			if err != nil {
				return nil, nil, nil, err
			}
			return names, types, &postgresBindData{dsn: dsn, query: query, names: names, types: types}, nil
		},
	}
}

func describePostgresQuery(dsn, query string) ([]string, []sqlcore.LogicalType, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := connectPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres: connect failed: "+err.Error())
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, "SELECT * FROM ("+query+") AS scan_postgres_describe LIMIT 0")
	if err != nil {
		return nil, nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres: describe failed: "+err.Error())
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	types := make([]sqlcore.LogicalType, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
		types[i] = pgOIDToLogical(fd)
	}
	return names, types, rows.Err()
}

func pgOIDToLogical(fd pgconn.FieldDescription) sqlcore.LogicalType {
	switch fd.DataTypeOID {
	case pgtype.BoolOID:
		return sqlcore.Boolean
	case pgtype.Int2OID:
		return sqlcore.Smallint
	case pgtype.Int4OID:
		return sqlcore.Integer
	case pgtype.Int8OID:
		return sqlcore.Bigint
	case pgtype.Float4OID:
		return sqlcore.Float
	case pgtype.Float8OID, pgtype.NumericOID:
		return sqlcore.Double
	default:
		return sqlcore.Varchar
	}
}

func init() {
	volcano.RegisterTableFunctionExecutor("scan_postgres", scanPostgresExecutor)
}

func scanPostgresExecutor(bindData any) (volcano.BatchSource, error) {
	data, ok := bindData.(*postgresBindData)
	if !ok {
		return nil, sqlcore.NewInternalError("scan_postgres: bind_data is not *postgresBindData")
	}
	ctx := context.Background()
	conn, err := connectPostgres(ctx, data.dsn)
	if err != nil {
		return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres: connect failed: "+err.Error())
	}
	rows, err := conn.Query(ctx, data.query)
	if err != nil {
		conn.Close(ctx)
		return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres: query failed: "+err.Error())
	}
	return &pgRowsBatchSource{conn: conn, rows: rows, names: data.names, types: data.types, chunkSize: 1024}, nil
}

// pgRowsBatchSource adapts pgx.Rows to volcano.BatchSource the same way
// sqlRowsBatchSource adapts database/sql.Rows for read_csv — chunked into
// fixed-size Arrow batches rather than one row at a time.
type pgRowsBatchSource struct {
	conn      pgConn
	rows      pgx.Rows
	names     []string
	types     []sqlcore.LogicalType
	chunkSize int
}

func (s *pgRowsBatchSource) Next() (arrow.Record, error) {
	builders := make([]array.Builder, len(s.types))
	for i, t := range s.types {
		builders[i] = newDuckDBColumnBuilder(sqlcore.DefaultAllocator, t)
	}

	n := 0
	for n < s.chunkSize && s.rows.Next() {
		values, err := s.rows.Values()
		if err != nil {
			s.closeAll()
			return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres: row values failed: "+err.Error())
		}
		for i, b := range builders {
			appendDuckDBValue(b, s.types[i], values[i])
		}
		n++
	}
	if n == 0 {
		if err := s.rows.Err(); err != nil {
			s.closeAll()
			return nil, sqlcore.NewFunctionError(sqlcore.ErrCodeUnsupported, "scan_postgres: row iteration failed: "+err.Error())
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

func (s *pgRowsBatchSource) closeAll() {
	s.rows.Close()
	s.conn.Close(context.Background())
}
