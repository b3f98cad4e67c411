package catalog

import "github.com/lychee-technology/sqlcore"

// ColumnDefinition is (name, logical type, nullable), per §3.3.
type ColumnDefinition struct {
	Name     string
	Type     sqlcore.LogicalType
	Nullable bool
}

// DataTable is the schema + column definitions + physical storage handle
// a TableEntry owns. The physical handle is opaque here (concretely a
// *storage.LocalTableStorage) to avoid a dependency from catalog on
// storage; storage does not import catalog either, and the volcano
// executor, which imports both, type-asserts the handle.
type DataTable struct {
	Name    string
	Columns []ColumnDefinition
	Handle  any
}

// ColumnIndex returns the position of name within the table's columns, or
// -1 if absent.
func (d *DataTable) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// TableEntry carries: oid, schema-scoped name, a DataTable, a column
// name->index map (folded into DataTable.ColumnIndex above).
type TableEntry struct {
	Oid   int64
	Name  string
	Table *DataTable
}

// SchemaEntry owns a CatalogSet each of tables, table functions, and
// scalar functions, per §3.3. Oid is assigned by RootCatalog from its own
// monotonic schema-oid counter, giving sqlrs_tables a stable schema_oid
// alongside each table_oid.
type SchemaEntry struct {
	Name            string
	Oid             int64
	Tables          *Set[*TableEntry]
	TableFunctions  *Set[*sqlcore.TableFunctionCatalogEntry]
	ScalarFunctions *Set[*sqlcore.ScalarFunctionCatalogEntry]
}

func NewSchemaEntry(name string) *SchemaEntry {
	return &SchemaEntry{
		Name:            name,
		Tables:          NewSet[*TableEntry](),
		TableFunctions:  NewSet[*sqlcore.TableFunctionCatalogEntry](),
		ScalarFunctions: NewSet[*sqlcore.ScalarFunctionCatalogEntry](),
	}
}
