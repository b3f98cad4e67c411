// Package physical defines the physical operator tree of §4.5: a
// structural lowering of internal/logical's Plan tree into the node
// shapes internal/executor/volcano actually drives. Grounded on
// original_source/src/execution/physical_plan/*.rs and the generator in
// original_source/src/execution/physical_plan_generator.rs.
package physical

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

// Operator is the common interface every physical node implements. Unlike
// logical.Plan, a physical node's expressions and types are fixed at
// construction by the generator below — there is no further rewriting
// once a plan reaches this tree.
type Operator interface {
	Children() []Operator
	Expressions() []sqlcore.Expression
	Types() []sqlcore.LogicalType
}

type base struct {
	children    []Operator
	expressions []sqlcore.Expression
	types       []sqlcore.LogicalType
}

func (b *base) Children() []Operator                { return b.children }
func (b *base) Expressions() []sqlcore.Expression    { return b.expressions }
func (b *base) Types() []sqlcore.LogicalType         { return b.types }

// CreateTable registers a new table in the catalog; it has no children.
type CreateTable struct {
	base
	Info *logical.CreateTableInfo
}

// Insert appends its child's rows into Table (or, for CREATE TABLE AS,
// into the table CreateTableInfo describes).
type Insert struct {
	base
	ColumnIndexList []int
	ExpectedTypes   []sqlcore.LogicalType
	Table           *catalog.TableEntry
	CreateTableInfo *logical.CreateTableInfo
}

// TableScan reads a bound table function to completion.
type TableScan struct {
	base
	Function      *sqlcore.TableFunctionCatalogEntry
	BindData      any
	ReturnedTypes []sqlcore.LogicalType
	Names         []string
	// ProjectedColumns, when non-nil, restricts the raw batches the
	// table function produces to these column indices (in this order);
	// carried over from logical.Get.ProjectedColumns by the generator
	// below. nil means every column the function returns is kept.
	ProjectedColumns []int
}

// ExpressionScan evaluates each row of Rows against an empty input and
// yields one record batch per row.
type ExpressionScan struct {
	base
	ExprTypes []sqlcore.LogicalType
	Rows      [][]sqlcore.Expression
}

// Projection evaluates Expressions() against each input batch.
type Projection struct {
	base
}

// Filter evaluates its single Boolean expression (several predicates are
// wrapped in one AND Conjunction; a single one is kept as is, per §4.5)
// against each input batch.
type Filter struct {
	base
}

// Limit caps the row count of its child's output per §4.6's slicing
// algorithm. LimitVal/OffsetVal are nil when the clause was absent.
type Limit struct {
	base
	LimitVal  *uint64
	OffsetVal *uint64
}

// DummyScan yields a single empty row for FROM-less SELECTs.
type DummyScan struct {
	base
}

// CrossJoin lowers logical.CrossJoin unchanged: two children, no
// condition, output schema is the concatenation of both sides'.
type CrossJoin struct {
	base
}

// ColumnDataScan replays a prebuilt list of record batches unchanged; it
// backs EXPLAIN output and (in principle) any other operator that needs
// to hand the executor a fixed in-memory result set.
type ColumnDataScan struct {
	base
	Collection []arrow.Record
}
