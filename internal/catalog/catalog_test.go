package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/sqlcore"
)

func TestSetCreateGetReplaceScan(t *testing.T) {
	s := NewSet[string]()

	oid, err := s.Create("a", "first")
	require.NoError(t, err)
	assert.Equal(t, int64(0), oid)

	_, err = s.Create("a", "dup")
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlcore.ErrEntryExists)

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	_, err = s.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlcore.ErrNotFound)

	require.NoError(t, s.Replace("a", "updated"))
	got, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "updated", got)

	err = s.Replace("missing", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlcore.ErrNotFound)

	_, _ = s.Create("b", "second")
	all := s.Scan(nil)
	assert.Equal(t, []string{"updated", "second"}, all)
}

func TestSetOidsAreMonotonicAndStable(t *testing.T) {
	s := NewSet[string]()
	oidA, _ := s.Create("a", "1")
	oidB, _ := s.Create("b", "2")
	assert.Less(t, oidA, oidB)
	assert.Equal(t, oidA, s.OidOf("a"))
}

func TestRootCatalogCreateTableBumpsVersion(t *testing.T) {
	c := NewRootCatalog()
	before := c.Version()

	table := &DataTable{
		Name: "t",
		Columns: []ColumnDefinition{
			{Name: "a", Type: sqlcore.Integer, Nullable: false},
			{Name: "b", Type: sqlcore.Varchar, Nullable: true},
		},
	}
	entry, err := c.CreateTable("main", table)
	require.NoError(t, err)
	assert.Equal(t, "t", entry.Name)
	assert.Greater(t, c.Version(), before)

	got, err := c.GetTable("main", "t")
	require.NoError(t, err)
	assert.Same(t, table, got.Table)

	_, err = c.GetTable("main", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlcore.ErrNotFound)

	_, err = c.GetTable("nonexistent-schema", "t")
	require.Error(t, err)
}

func TestDataTableColumnIndex(t *testing.T) {
	table := &DataTable{Columns: []ColumnDefinition{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, 0, table.ColumnIndex("a"))
	assert.Equal(t, 1, table.ColumnIndex("b"))
	assert.Equal(t, -1, table.ColumnIndex("c"))
}

func TestDescribeJSONSchema(t *testing.T) {
	table := &DataTable{
		Columns: []ColumnDefinition{
			{Name: "a", Type: sqlcore.Integer, Nullable: false},
			{Name: "b", Type: sqlcore.Varchar, Nullable: true},
		},
	}
	schema := DescribeJSONSchema(table)
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Required, "a")
	assert.NotContains(t, schema.Required, "b")
	require.Contains(t, schema.Properties, "a")
	assert.Equal(t, "integer", schema.Properties["a"].Type)
	assert.Equal(t, "string", schema.Properties["b"].Type)
}

func TestRootCatalogAssignsStableSchemaOids(t *testing.T) {
	c := NewRootCatalog()
	_, err := c.CreateTable("main", &DataTable{Name: "t1", Columns: []ColumnDefinition{{Name: "a", Type: sqlcore.Integer}}})
	require.NoError(t, err)
	_, err = c.CreateTable("aux", &DataTable{Name: "t2", Columns: []ColumnDefinition{{Name: "b", Type: sqlcore.Varchar}}})
	require.NoError(t, err)

	schemas := c.Schemas()
	require.Len(t, schemas, 2)
	byName := make(map[string]*SchemaEntry, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s
	}
	require.Contains(t, byName, "main")
	require.Contains(t, byName, "aux")
	assert.NotEqual(t, byName["main"].Oid, byName["aux"].Oid)

	again, err := c.GetSchema("main")
	require.NoError(t, err)
	assert.Equal(t, byName["main"].Oid, again.Oid)
}
