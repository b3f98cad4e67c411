package binder

import (
	"strings"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/function"
	"github.com/lychee-technology/sqlcore/internal/logical"
	"github.com/lychee-technology/sqlcore/internal/sqlfrontend"
)

// Binder owns a BindContext and the fresh-table_idx counter of §4.1.
type Binder struct {
	ctx          *BindContext
	boundTables  int
	catalog      *catalog.RootCatalog
	defaultSchema string
	functionBinder *function.Binder
}

func NewBinder(cat *catalog.RootCatalog, defaultSchema string) *Binder {
	return &Binder{
		ctx:            NewBindContext(),
		catalog:        cat,
		defaultSchema:  defaultSchema,
		functionBinder: function.NewBinder(),
	}
}

func (b *Binder) generateTableIndex() int {
	b.boundTables++
	return b.boundTables
}

func (b *Binder) functions() *Functions {
	return &Functions{
		Lookup: func(name string) (*sqlcore.ScalarFunctionCatalogEntry, error) {
			return b.catalog.GetScalarFunction(b.defaultSchema, name)
		},
		Binder: b.functionBinder,
	}
}

// Bind dispatches a parsed statement to its plan builder, per §4.1's table.
func (b *Binder) Bind(stmt sqlfrontend.Statement) (logical.Plan, error) {
	switch s := stmt.(type) {
	case *sqlfrontend.Select:
		return b.bindSelect(s)
	case *sqlfrontend.CreateTable:
		return b.bindCreateTable(s)
	case *sqlfrontend.Insert:
		return b.bindInsert(s)
	case *sqlfrontend.CopyFrom:
		return b.bindCopyFrom(s)
	case *sqlfrontend.ShowTables:
		return b.bindShowTables()
	case *sqlfrontend.DescribeTable:
		return b.bindDescribeTable(s)
	case *sqlfrontend.Explain:
		return b.bindExplain(s)
	default:
		return nil, sqlcore.NewBindError(sqlcore.ErrCodeUnsupported, "unsupported statement")
	}
}

func (b *Binder) bindCreateTable(s *sqlfrontend.CreateTable) (logical.Plan, error) {
	schema := s.Schema
	if schema == "" {
		schema = b.defaultSchema
	}
	cols := make([]catalog.ColumnDefinition, 0, len(s.Columns))
	for _, c := range s.Columns {
		t, err := sqlcore.LogicalTypeFromSQLName(c.TypeName)
		if err != nil {
			return nil, err
		}
		cols = append(cols, catalog.ColumnDefinition{Name: strings.ToLower(c.Name), Type: t, Nullable: c.Nullable})
	}
	info := &logical.CreateTableInfo{SchemaName: schema, TableName: s.Table, Columns: cols}
	return logical.NewCreateTable(info), nil
}

func (b *Binder) bindInsert(s *sqlfrontend.Insert) (logical.Plan, error) {
	schema := s.Schema
	if schema == "" {
		schema = b.defaultSchema
	}
	entry, err := b.catalog.GetTable(schema, s.Table)
	if err != nil {
		return nil, err
	}

	columnIndexList := make([]int, len(entry.Table.Columns))
	for i := range columnIndexList {
		columnIndexList[i] = logical.InvalidIndex
	}
	if len(s.Columns) == 0 {
		for i := range entry.Table.Columns {
			columnIndexList[i] = i
		}
	} else {
		for insertPos, name := range s.Columns {
			idx := entry.Table.ColumnIndex(strings.ToLower(name))
			if idx < 0 {
				return nil, sqlcore.NewColumnNotFoundError("unknown column in INSERT column list: " + name)
			}
			columnIndexList[idx] = insertPos
		}
	}

	expectedTypes := make([]sqlcore.LogicalType, len(entry.Table.Columns))
	for i, c := range entry.Table.Columns {
		expectedTypes[i] = c.Type
	}

	sourcePlan, err := b.Bind(s.Source)
	if err != nil {
		return nil, err
	}
	insert := logical.NewInsert(entry, columnIndexList, expectedTypes, sourcePlan)
	return insert, nil
}

// bindCopyFrom rewrites COPY into an Insert over read_csv, per §4.1.
func (b *Binder) bindCopyFrom(s *sqlfrontend.CopyFrom) (logical.Plan, error) {
	insertStmt := &sqlfrontend.Insert{
		Schema:  s.Schema,
		Table:   s.Table,
		Columns: s.Columns,
		Source: &sqlfrontend.Select{
			Items: []sqlfrontend.SelectItem{{Wildcard: true}},
			From: &sqlfrontend.TableRef{
				Kind:     sqlfrontend.TableRefFunction,
				FuncName: "read_csv",
				FuncArgs: []sqlfrontend.Expr{&sqlfrontend.Literal{Kind: sqlfrontend.LiteralString, Str: s.Path}},
				FuncKwArgs: map[string]sqlfrontend.Expr{
					"delim":  &sqlfrontend.Literal{Kind: sqlfrontend.LiteralString, Str: s.Delimiter},
					"header": &sqlfrontend.Literal{Kind: sqlfrontend.LiteralBool, Bool: s.HasHeader},
				},
			},
		},
	}
	return b.bindInsert(insertStmt)
}

// bindShowTables rewrites SHOW TABLES into SELECT * FROM sqlrs_tables().
func (b *Binder) bindShowTables() (logical.Plan, error) {
	sel := &sqlfrontend.Select{
		Items: []sqlfrontend.SelectItem{{Wildcard: true}},
		From:  &sqlfrontend.TableRef{Kind: sqlfrontend.TableRefFunction, FuncName: "sqlrs_tables"},
	}
	return b.bindSelect(sel)
}

// bindDescribeTable rewrites DESCRIBE t into a filtered SELECT over
// sqlrs_columns(), per §4.1.
func (b *Binder) bindDescribeTable(s *sqlfrontend.DescribeTable) (logical.Plan, error) {
	sel := &sqlfrontend.Select{
		Items: []sqlfrontend.SelectItem{{Wildcard: true}},
		From:  &sqlfrontend.TableRef{Kind: sqlfrontend.TableRefFunction, FuncName: "sqlrs_columns"},
		Where: &sqlfrontend.Binary{
			Op:    sqlfrontend.OpEq,
			Left:  &sqlfrontend.Ident{Name: "table_name"},
			Right: &sqlfrontend.Literal{Kind: sqlfrontend.LiteralString, Str: s.Table},
		},
	}
	return b.bindSelect(sel)
}

func (b *Binder) bindExplain(s *sqlfrontend.Explain) (logical.Plan, error) {
	inner, err := b.Bind(s.Inner)
	if err != nil {
		return nil, err
	}
	explainType := logical.ExplainPlan
	if s.Kind == sqlfrontend.ExplainAnalyze {
		explainType = logical.ExplainAnalyze
	}
	return logical.NewExplain(explainType, renderPlan(inner), inner), nil
}
