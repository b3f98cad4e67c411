// Package logical defines the logical plan operator tree of §3.6: a tagged
// union of operators sharing a common base (children, bound expressions,
// resolved types), built by internal/binder, rewritten by
// internal/optimizer/heuristic, and lowered by internal/physical.
// Grounded on original_source/src/planner_v2/logical_plan/*.rs, generalized
// from that tree's enum-of-structs shape into one Go interface per node
// plus concrete structs, matching the pattern already used for
// sqlcore.Expression.
package logical

import (
	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
)

// Plan is the common interface every logical operator implements.
type Plan interface {
	Children() []Plan
	Expressions() []sqlcore.Expression
	Types() []sqlcore.LogicalType
	SetTypes([]sqlcore.LogicalType)
	// ColumnBindings returns this node's output bindings per §3.6's
	// per-node contract.
	ColumnBindings() []sqlcore.ColumnBinding
	// WithChildren returns a shallow copy of this node with its children
	// replaced, leaving expressions/table_idx/etc untouched. Used by the
	// rule optimizer's graph-to-plan reconstruction, which rebuilds a
	// plan tree bottom-up from a rewritten node set.
	WithChildren(children []Plan) Plan
	// ResolveTypes recomputes this node's output types from its
	// expressions and/or children, per §3.6's per-node contract; called
	// after a rule rewrite changes a node's expressions or child shape.
	ResolveTypes() error
}

type base struct {
	children    []Plan
	expressions []sqlcore.Expression
	types       []sqlcore.LogicalType
}

func (b *base) Children() []Plan                   { return b.children }
func (b *base) Expressions() []sqlcore.Expression   { return b.expressions }
func (b *base) Types() []sqlcore.LogicalType        { return b.types }
func (b *base) SetTypes(t []sqlcore.LogicalType)    { b.types = t }

// CreateTableInfo carries the resolved schema/table name and column
// definitions for a CREATE TABLE statement.
type CreateTableInfo struct {
	SchemaName string
	TableName  string
	Columns    []catalog.ColumnDefinition
}

// CreateTable is the root node of a CREATE TABLE statement plan.
type CreateTable struct {
	base
	Info *CreateTableInfo
}

func NewCreateTable(info *CreateTableInfo) *CreateTable {
	return &CreateTable{Info: info}
}
func (c *CreateTable) ColumnBindings() []sqlcore.ColumnBinding { return nil }

// Insert carries the insert-column mapping of §4.1: insertColumnList[i]
// gives, for table column i, the index into the source row's projected
// columns to read from, or InvalidIndex for an implicit NULL default.
const InvalidIndex = -1

type Insert struct {
	base
	Table            *catalog.TableEntry
	ColumnIndexList  []int
	ExpectedTypes    []sqlcore.LogicalType
	CreateTableInfo  *CreateTableInfo
}

func NewInsert(table *catalog.TableEntry, columnIndexList []int, expectedTypes []sqlcore.LogicalType, source Plan) *Insert {
	return &Insert{base: base{children: []Plan{source}}, Table: table, ColumnIndexList: columnIndexList, ExpectedTypes: expectedTypes}
}
func (i *Insert) ColumnBindings() []sqlcore.ColumnBinding { return nil }

// Get is a base-table scan node, parameterized by the table function used
// to read it (seq_table_scan for catalog tables, read_csv for CSV
// replacement scans, etc).
type Get struct {
	base
	TableIdx      int
	Function      *sqlcore.TableFunctionCatalogEntry
	BindData      any
	ReturnedTypes []sqlcore.LogicalType
	Names         []string
	// ProjectedColumns, when non-nil, restricts the scan to these
	// original-schema column indices (in this order) — column pruning
	// applied by the heuristic optimizer's PushProjectIntoTableScan rule.
	// nil means "scan every bound column".
	ProjectedColumns []int
}

func NewGet(tableIdx int, fn *sqlcore.TableFunctionCatalogEntry, bindData any, returnedTypes []sqlcore.LogicalType, names []string) *Get {
	g := &Get{TableIdx: tableIdx, Function: fn, BindData: bindData, ReturnedTypes: returnedTypes, Names: names}
	g.types = returnedTypes
	return g
}
func (g *Get) ColumnBindings() []sqlcore.ColumnBinding {
	bindings := make([]sqlcore.ColumnBinding, len(g.ReturnedTypes))
	for i := range bindings {
		bindings[i] = sqlcore.ColumnBinding{TableIdx: g.TableIdx, ColumnIdx: i}
	}
	return bindings
}

// ExpressionGet binds a literal VALUES list: each row is a list of bound
// expressions evaluated independently at execution time.
type ExpressionGet struct {
	base
	TableIdx  int
	ExprTypes []sqlcore.LogicalType
	Rows      [][]sqlcore.Expression
}

func NewExpressionGet(tableIdx int, exprTypes []sqlcore.LogicalType, rows [][]sqlcore.Expression) *ExpressionGet {
	e := &ExpressionGet{TableIdx: tableIdx, ExprTypes: exprTypes, Rows: rows}
	e.types = exprTypes
	return e
}
func (e *ExpressionGet) ColumnBindings() []sqlcore.ColumnBinding {
	bindings := make([]sqlcore.ColumnBinding, len(e.ExprTypes))
	for i := range bindings {
		bindings[i] = sqlcore.ColumnBinding{TableIdx: e.TableIdx, ColumnIdx: i}
	}
	return bindings
}

// Projection evaluates base.expressions against its sole child, producing
// a new binding scope identified by TableIdx.
type Projection struct {
	base
	TableIdx int
}

func NewProjection(tableIdx int, exprs []sqlcore.Expression, child Plan) *Projection {
	return &Projection{base: base{children: []Plan{child}, expressions: exprs}, TableIdx: tableIdx}
}
func (p *Projection) ColumnBindings() []sqlcore.ColumnBinding {
	bindings := make([]sqlcore.ColumnBinding, len(p.expressions))
	for i := range bindings {
		bindings[i] = sqlcore.ColumnBinding{TableIdx: p.TableIdx, ColumnIdx: i}
	}
	return bindings
}

// Filter applies a single Boolean expression to its sole child, passing
// through matching rows unchanged; its output bindings are inherited.
type Filter struct {
	base
}

func NewFilter(predicate sqlcore.Expression, child Plan) *Filter {
	return &Filter{base: base{children: []Plan{child}, expressions: []sqlcore.Expression{predicate}}}
}
func (f *Filter) ColumnBindings() []sqlcore.ColumnBinding { return f.children[0].ColumnBindings() }

// Limit caps the row count of its sole child's output.
type Limit struct {
	base
	LimitVal   uint64
	OffsetVal  uint64
	LimitExpr  sqlcore.Expression
	OffsetExpr sqlcore.Expression
}

func NewLimit(limitVal, offsetVal uint64, limitExpr, offsetExpr sqlcore.Expression, child Plan) *Limit {
	return &Limit{base: base{children: []Plan{child}}, LimitVal: limitVal, OffsetVal: offsetVal, LimitExpr: limitExpr, OffsetExpr: offsetExpr}
}
func (l *Limit) ColumnBindings() []sqlcore.ColumnBinding { return l.children[0].ColumnBindings() }

// DummyScan yields a single empty row for FROM-less SELECTs.
type DummyScan struct {
	base
	TableIdx int
}

func NewDummyScan(tableIdx int, types []sqlcore.LogicalType) *DummyScan {
	d := &DummyScan{TableIdx: tableIdx}
	d.types = types
	return d
}
func (d *DummyScan) ColumnBindings() []sqlcore.ColumnBinding {
	return []sqlcore.ColumnBinding{{TableIdx: d.TableIdx, ColumnIdx: 0}}
}

// CrossJoin combines two relations' rows by cartesian product: no join
// condition, no join type (Inner/Left/Right planning stays out of scope
// per spec.md's Non-goals). Its column bindings are its left child's
// bindings followed by its right child's, so a column reference into
// either side resolves positionally the same way any other multi-child
// scope extension would.
type CrossJoin struct {
	base
}

func NewCrossJoin(left, right Plan) *CrossJoin {
	return &CrossJoin{base: base{children: []Plan{left, right}}}
}
func (j *CrossJoin) ColumnBindings() []sqlcore.ColumnBinding {
	var out []sqlcore.ColumnBinding
	for _, c := range j.children {
		out = append(out, c.ColumnBindings()...)
	}
	return out
}
func (j *CrossJoin) WithChildren(children []Plan) Plan {
	n := *j
	n.children = children
	return &n
}
func (j *CrossJoin) ResolveTypes() error {
	if len(j.children) != 2 {
		return sqlcore.NewInternalError("CrossJoin must have exactly two children")
	}
	var types []sqlcore.LogicalType
	for _, c := range j.children {
		types = append(types, c.Types()...)
	}
	j.types = types
	return nil
}

// ExplainType distinguishes a plain EXPLAIN from EXPLAIN ANALYZE; both are
// captured identically per §6 (the analyze flag is recorded but does not
// change plan shape or trigger real timing instrumentation).
type ExplainType int

const (
	ExplainPlan ExplainType = iota
	ExplainAnalyze
)

// Explain wraps an inner statement's plan, capturing its textual logical
// plan for later rendering; output schema is fixed at (type, plan).
type Explain struct {
	base
	ExplainType     ExplainType
	LogicalPlanText string
	Inner           Plan
}

func NewExplain(explainType ExplainType, logicalPlanText string, inner Plan) *Explain {
	e := &Explain{base: base{children: []Plan{inner}}, ExplainType: explainType, LogicalPlanText: logicalPlanText, Inner: inner}
	e.types = []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Varchar}
	return e
}
func (e *Explain) ColumnBindings() []sqlcore.ColumnBinding {
	return []sqlcore.ColumnBinding{{TableIdx: -1, ColumnIdx: 0}, {TableIdx: -1, ColumnIdx: 1}}
}

// WithChildren / ResolveTypes implementations, per node. The rule
// optimizer only ever rewrites single-child (or childless) nodes in this
// engine's rule set, but every node implements the interface uniformly so
// the graph package never needs a type switch to reconstruct plans.

func (c *CreateTable) WithChildren(children []Plan) Plan { return c }
func (c *CreateTable) ResolveTypes() error                { return nil }

func (i *Insert) WithChildren(children []Plan) Plan {
	n := *i
	n.children = children
	return &n
}
func (i *Insert) ResolveTypes() error { return nil }

func (g *Get) WithChildren(children []Plan) Plan { return g }
func (g *Get) ResolveTypes() error {
	g.types = g.ReturnedTypes
	return nil
}

func (e *ExpressionGet) WithChildren(children []Plan) Plan { return e }
func (e *ExpressionGet) ResolveTypes() error {
	e.types = e.ExprTypes
	return nil
}

func (p *Projection) WithChildren(children []Plan) Plan {
	n := *p
	n.children = children
	return &n
}
func (p *Projection) ResolveTypes() error {
	types := make([]sqlcore.LogicalType, len(p.expressions))
	for i, expr := range p.expressions {
		types[i] = expr.ReturnType()
	}
	p.types = types
	return nil
}

func (f *Filter) WithChildren(children []Plan) Plan {
	n := *f
	n.children = children
	return &n
}
func (f *Filter) ResolveTypes() error {
	if len(f.children) != 1 {
		return sqlcore.NewInternalError("Filter must have exactly one child")
	}
	f.types = f.children[0].Types()
	return nil
}

func (l *Limit) WithChildren(children []Plan) Plan {
	n := *l
	n.children = children
	return &n
}
func (l *Limit) ResolveTypes() error {
	if len(l.children) != 1 {
		return sqlcore.NewInternalError("Limit must have exactly one child")
	}
	l.types = l.children[0].Types()
	return nil
}

func (d *DummyScan) WithChildren(children []Plan) Plan { return d }
func (d *DummyScan) ResolveTypes() error                { return nil }

func (e *Explain) WithChildren(children []Plan) Plan {
	n := *e
	n.children = children
	if len(children) == 1 {
		n.Inner = children[0]
	}
	return &n
}
func (e *Explain) ResolveTypes() error { return nil }
