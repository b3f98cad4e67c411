package physical

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
)

// Generate lowers a resolved, optimized logical plan into a physical
// operator tree per §4.5's structural rules. The caller is expected to
// have already run the rule optimizer and the column-binding resolver
// (internal/resolver) over plan; Generate does no further rewriting of
// expressions, only restructuring of node shapes.
func Generate(plan logical.Plan) Operator {
	switch p := plan.(type) {
	case *logical.CreateTable:
		return &CreateTable{Info: p.Info}

	case *logical.Insert:
		children := loweredChildren(p)
		return &Insert{
			base:            base{children: children, expressions: p.Expressions(), types: p.Types()},
			ColumnIndexList: p.ColumnIndexList,
			ExpectedTypes:   p.ExpectedTypes,
			Table:           p.Table,
			CreateTableInfo: p.CreateTableInfo,
		}

	case *logical.Get:
		children := loweredChildren(p)
		return &TableScan{
			base:             base{children: children, expressions: p.Expressions(), types: p.Types()},
			Function:         p.Function,
			BindData:         p.BindData,
			ReturnedTypes:    p.ReturnedTypes,
			Names:            p.Names,
			ProjectedColumns: p.ProjectedColumns,
		}

	case *logical.ExpressionGet:
		children := loweredChildren(p)
		return &ExpressionScan{
			base:      base{children: children, expressions: p.Expressions(), types: p.Types()},
			ExprTypes: p.ExprTypes,
			Rows:      p.Rows,
		}

	case *logical.Projection:
		children := loweredChildren(p)
		return &Projection{base: base{children: children, expressions: p.Expressions(), types: p.Types()}}

	case *logical.Filter:
		children := loweredChildren(p)
		return &Filter{base: base{children: children, expressions: []sqlcore.Expression{andConjunction(p.Expressions())}, types: p.Types()}}

	case *logical.Limit:
		children := loweredChildren(p)
		var limitVal, offsetVal *uint64
		if p.LimitExpr != nil {
			v := p.LimitVal
			limitVal = &v
		}
		if p.OffsetExpr != nil {
			v := p.OffsetVal
			offsetVal = &v
		}
		return &Limit{base: base{children: children, types: p.Types()}, LimitVal: limitVal, OffsetVal: offsetVal}

	case *logical.DummyScan:
		return &DummyScan{base: base{types: p.Types()}}

	case *logical.CrossJoin:
		children := loweredChildren(p)
		return &CrossJoin{base: base{children: children, types: p.Types()}}

	case *logical.Explain:
		return generateExplain(p)

	default:
		panic("physical: unhandled logical plan node")
	}
}

func loweredChildren(p logical.Plan) []Operator {
	src := p.Children()
	out := make([]Operator, len(src))
	for i, c := range src {
		out[i] = Generate(c)
	}
	return out
}

// andConjunction collapses a node's expression list into a single AND
// conjunction, an identity on a singleton list — per §4.5's Filter rule.
func andConjunction(exprs []sqlcore.Expression) sqlcore.Expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return sqlcore.NewConjunction("", exprs, sqlcore.ConjunctionAnd)
}

// generateExplain builds the synthetic ColumnDataScan of §4.5: a single
// record batch with columns (type, plan) and three rows — the captured
// unoptimized logical plan text, the freshly rendered optimized logical
// plan text, and the freshly rendered physical plan text of the lowered
// inner operator.
func generateExplain(e *logical.Explain) Operator {
	inner := e.Children()[0]
	optimizedLogicalText := RenderLogicalPlan(inner)
	physicalInner := Generate(inner)
	physicalText := RenderPhysicalPlan(physicalInner)

	schema := sqlcore.NewSchema([]string{"type", "plan"}, []sqlcore.LogicalType{sqlcore.Varchar, sqlcore.Varchar}, nil)

	mem := sqlcore.DefaultAllocator
	typeBuilder := array.NewStringBuilder(mem)
	defer typeBuilder.Release()
	for _, v := range []string{"logical_plan", "logical_plan_opt", "physical_plan"} {
		typeBuilder.Append(v)
	}
	typeArr := typeBuilder.NewStringArray()

	planBuilder := array.NewStringBuilder(mem)
	defer planBuilder.Release()
	for _, v := range []string{e.LogicalPlanText, optimizedLogicalText, physicalText} {
		planBuilder.Append(v)
	}
	planArr := planBuilder.NewStringArray()

	record := array.NewRecord(schema, []arrow.Array{typeArr, planArr}, int64(3))

	return &ColumnDataScan{
		base:       base{types: e.Types()},
		Collection: []arrow.Record{record},
	}
}
