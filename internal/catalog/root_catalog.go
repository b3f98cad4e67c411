package catalog

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lychee-technology/sqlcore"
)

// RootCatalog owns a mapping schema_name -> SchemaEntry, versioned by a
// monotonically increasing catalog_version bumped on any mutation, per
// §3.3. All mutations take the exclusive lock; reads take the shared
// lock. For mutations and the Get* lookups, lock contention is modeled by
// TryLock/TryRLock, surfacing CatalogLocked rather than blocking;
// Version, ScanTables and Schemas wait on a blocking RLock. This matches §5's "writers/readers take
// a lock for the duration of a single call; contention surfaces as
// CatalogLocked; callers may retry" resource model.
type RootCatalog struct {
	mu             sync.RWMutex
	schemas        map[string]*SchemaEntry
	catalogVersion uint64
	nextSchemaOid  int64
}

func NewRootCatalog() *RootCatalog {
	return &RootCatalog{schemas: make(map[string]*SchemaEntry)}
}

// newSchemaLocked creates and registers a schema under the caller's
// already-held write lock, assigning it the next schema oid.
func (c *RootCatalog) newSchemaLocked(name string) *SchemaEntry {
	entry := NewSchemaEntry(name)
	entry.Oid = c.nextSchemaOid
	c.nextSchemaOid++
	c.schemas[name] = entry
	return entry
}

// Version returns the current catalog_version.
func (c *RootCatalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalogVersion
}

// CreateSchema registers a new schema, bumping catalog_version.
func (c *RootCatalog) CreateSchema(name string) (*SchemaEntry, error) {
	if !c.mu.TryLock() {
		return nil, sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.Unlock()
	if _, exists := c.schemas[name]; exists {
		return nil, sqlcore.NewEntryExistsError("schema already exists: " + name)
	}
	entry := c.newSchemaLocked(name)
	c.catalogVersion++
	zap.S().Infow("created schema", "schema", name, "catalog_version", c.catalogVersion)
	return entry, nil
}

// GetSchema retrieves a schema entry by name under the shared lock.
func (c *RootCatalog) GetSchema(name string) (*SchemaEntry, error) {
	if !c.mu.TryRLock() {
		return nil, sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.RUnlock()
	entry, ok := c.schemas[name]
	if !ok {
		return nil, sqlcore.NewNotFoundError("schema not found: " + name)
	}
	return entry, nil
}

// EnsureSchema returns the named schema, creating it if absent. Used at
// session bootstrap to guarantee the configured default schema exists.
func (c *RootCatalog) EnsureSchema(name string) (*SchemaEntry, error) {
	entry, err := c.GetSchema(name)
	if err == nil {
		return entry, nil
	}
	if !sqlcore.IsKind(err, sqlcore.ErrorKindCatalog) {
		return nil, err
	}
	return c.CreateSchema(name)
}

// CreateTable registers a table in the named schema, bumping
// catalog_version. Fails CatalogLocked if the catalog is write-locked,
// EntryExists if the table name is already taken in that schema.
func (c *RootCatalog) CreateTable(schemaName string, table *DataTable) (*TableEntry, error) {
	if !c.mu.TryLock() {
		return nil, sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.Unlock()
	schema, ok := c.schemas[schemaName]
	if !ok {
		schema = c.newSchemaLocked(schemaName)
	}
	oid, err := schema.Tables.Create(table.Name, &TableEntry{Name: table.Name, Table: table})
	if err != nil {
		return nil, err
	}
	entry, _ := schema.Tables.Get(table.Name)
	entry.Oid = oid
	c.catalogVersion++
	zap.S().Infow("created table", "schema", schemaName, "table", table.Name, "catalog_version", c.catalogVersion)
	return entry, nil
}

// GetTable resolves a table by (schema, name) under the shared lock.
func (c *RootCatalog) GetTable(schemaName, tableName string) (*TableEntry, error) {
	if !c.mu.TryRLock() {
		return nil, sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.RUnlock()
	schema, ok := c.schemas[schemaName]
	if !ok {
		return nil, sqlcore.NewNotFoundError("schema not found: " + schemaName)
	}
	return schema.Tables.Get(tableName)
}

// RegisterScalarFunction adds a named overload set to the given schema's
// scalar-function catalog set (used at session bootstrap for built-ins).
func (c *RootCatalog) RegisterScalarFunction(schemaName string, entry *sqlcore.ScalarFunctionCatalogEntry) error {
	if !c.mu.TryLock() {
		return sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.Unlock()
	schema, ok := c.schemas[schemaName]
	if !ok {
		schema = c.newSchemaLocked(schemaName)
	}
	_, err := schema.ScalarFunctions.Create(entry.Name, entry)
	return err
}

// GetScalarFunction resolves a named scalar-function overload set.
func (c *RootCatalog) GetScalarFunction(schemaName, name string) (*sqlcore.ScalarFunctionCatalogEntry, error) {
	if !c.mu.TryRLock() {
		return nil, sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.RUnlock()
	schema, ok := c.schemas[schemaName]
	if !ok {
		return nil, sqlcore.NewNotFoundError("schema not found: " + schemaName)
	}
	return schema.ScalarFunctions.Get(name)
}

// RegisterTableFunction adds a table function to the given schema.
func (c *RootCatalog) RegisterTableFunction(schemaName string, entry *sqlcore.TableFunctionCatalogEntry) error {
	if !c.mu.TryLock() {
		return sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.Unlock()
	schema, ok := c.schemas[schemaName]
	if !ok {
		schema = c.newSchemaLocked(schemaName)
	}
	_, err := schema.TableFunctions.Create(entry.Name, entry)
	return err
}

// GetTableFunction resolves a named table function.
func (c *RootCatalog) GetTableFunction(schemaName, name string) (*sqlcore.TableFunctionCatalogEntry, error) {
	if !c.mu.TryRLock() {
		return nil, sqlcore.NewCatalogLockedError("catalog is write-locked")
	}
	defer c.mu.RUnlock()
	schema, ok := c.schemas[schemaName]
	if !ok {
		return nil, sqlcore.NewNotFoundError("schema not found: " + schemaName)
	}
	return schema.TableFunctions.Get(name)
}

// ScanTables yields every table entry across every schema, keyed by
// schema name.
func (c *RootCatalog) ScanTables() map[string][]*TableEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]*TableEntry, len(c.schemas))
	for name, schema := range c.schemas {
		out[name] = schema.Tables.Scan(nil)
	}
	return out
}

// Schemas returns every registered schema entry, used by sqlrs_tables to
// report schema_oid alongside table_oid.
func (c *RootCatalog) Schemas() []*SchemaEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*SchemaEntry, 0, len(c.schemas))
	for _, schema := range c.schemas {
		out = append(out, schema)
	}
	return out
}
