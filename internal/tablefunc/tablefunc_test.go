package tablefunc

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
)

func seedCatalog(t *testing.T) *catalog.RootCatalog {
	t.Helper()
	cat := catalog.NewRootCatalog()
	_, err := cat.CreateTable("main", &catalog.DataTable{
		Name: "widgets",
		Columns: []catalog.ColumnDefinition{
			{Name: "id", Type: sqlcore.Integer, Nullable: false},
			{Name: "name", Type: sqlcore.Varchar, Nullable: true},
		},
	})
	require.NoError(t, err)
	return cat
}

func TestSeqTableScanBindResolvesExistingTable(t *testing.T) {
	cat := seedCatalog(t)
	fn := SeqTableScan(cat)

	names, types, bindData, err := fn.Bind([]sqlcore.ScalarValue{sqlcore.NewVarcharScalar("main.widgets")})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, names)
	assert.Equal(t, []sqlcore.LogicalType{sqlcore.Integer, sqlcore.Varchar}, types)

	entry, ok := bindData.(*catalog.TableEntry)
	require.True(t, ok)
	assert.Equal(t, "widgets", entry.Name)
}

func TestSeqTableScanBindRejectsMissingTable(t *testing.T) {
	cat := seedCatalog(t)
	fn := SeqTableScan(cat)

	_, _, _, err := fn.Bind([]sqlcore.ScalarValue{sqlcore.NewVarcharScalar("main.nonexistent")})
	assert.Error(t, err)
}

func TestSeqTableScanBindRejectsMalformedArgument(t *testing.T) {
	cat := seedCatalog(t)
	fn := SeqTableScan(cat)

	_, _, _, err := fn.Bind([]sqlcore.ScalarValue{sqlcore.NewVarcharScalar("widgets")})
	assert.Error(t, err)

	_, _, _, err = fn.Bind([]sqlcore.ScalarValue{sqlcore.NewIntegerScalar(1)})
	assert.Error(t, err)

	_, _, _, err = fn.Bind(nil)
	assert.Error(t, err)
}

func TestSqlrsTablesListsEveryTableAcrossSchemas(t *testing.T) {
	cat := seedCatalog(t)
	_, err := cat.CreateTable("aux", &catalog.DataTable{
		Name:    "logs",
		Columns: []catalog.ColumnDefinition{{Name: "msg", Type: sqlcore.Varchar, Nullable: true}},
	})
	require.NoError(t, err)

	fn := SqlrsTables(cat)
	names, types, bindData, err := fn.Bind(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"schema_name", "schema_oid", "table_name", "table_oid"}, names)
	assert.Equal(t, []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Integer, sqlcore.Varchar, sqlcore.Integer}, types)

	source, err := sqlrsTablesExecutor(bindData)
	require.NoError(t, err)
	rec, err := source.Next()
	require.NoError(t, err)
	require.EqualValues(t, 2, rec.NumRows())

	schemaCol := rec.Column(0).(*array.String)
	tableCol := rec.Column(2).(*array.String)
	assert.Equal(t, "aux", schemaCol.Value(0))
	assert.Equal(t, "logs", tableCol.Value(0))
	assert.Equal(t, "main", schemaCol.Value(1))
	assert.Equal(t, "widgets", tableCol.Value(1))
}

func TestSqlrsColumnsFlattensTableColumnsInDeclaredOrder(t *testing.T) {
	cat := seedCatalog(t)
	fn := SqlrsColumns(cat)
	names, types, bindData, err := fn.Bind(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"table_name", "column_names", "column_types"}, names)
	assert.Equal(t, []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Varchar, sqlcore.Varchar}, types)

	source, err := sqlrsColumnsExecutor(bindData)
	require.NoError(t, err)
	rec, err := source.Next()
	require.NoError(t, err)
	require.EqualValues(t, 1, rec.NumRows())

	tableCol := rec.Column(0).(*array.String)
	namesCol := rec.Column(1).(*array.String)
	typesCol := rec.Column(2).(*array.String)
	assert.Equal(t, "widgets", tableCol.Value(0))
	assert.Equal(t, "id,name", namesCol.Value(0))
	assert.Equal(t, "INTEGER,VARCHAR", typesCol.Value(0))
}

func TestDuckDBTypeToLogicalMapsScalarAndExoticTypes(t *testing.T) {
	cases := map[string]sqlcore.LogicalType{
		"BIGINT":        sqlcore.Bigint,
		"VARCHAR":       sqlcore.Varchar,
		"DOUBLE":        sqlcore.Double,
		"BOOLEAN":       sqlcore.Boolean,
		"DECIMAL(18,3)": sqlcore.Varchar,
		"VARCHAR(255)":  sqlcore.Varchar,
		"DATE":          sqlcore.Varchar,
		"TIMESTAMP":     sqlcore.Varchar,
		"nonsense_type": sqlcore.Varchar,
	}
	for in, want := range cases {
		assert.Equal(t, want, duckDBTypeToLogical(in), "input %q", in)
	}
}
