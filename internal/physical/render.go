package physical

import (
	"strings"

	"github.com/lychee-technology/sqlcore/internal/logical"
)

// RenderLogicalPlan renders a logical plan's shape as indented node names,
// mirroring internal/binder's own (unexported) plan renderer — needed
// again here because §4.5's Explain lowering renders the *optimized*
// logical plan, which only exists after the rule optimizer has run, well
// after the binder produced its own "unoptimized" rendering.
func RenderLogicalPlan(p logical.Plan) string {
	var sb strings.Builder
	renderLogicalNode(&sb, p, 0)
	return sb.String()
}

func renderLogicalNode(sb *strings.Builder, p logical.Plan, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(logicalNodeName(p))
	sb.WriteByte('\n')
	for _, c := range p.Children() {
		renderLogicalNode(sb, c, depth+1)
	}
}

func logicalNodeName(p logical.Plan) string {
	switch p.(type) {
	case *logical.CreateTable:
		return "CreateTable"
	case *logical.Insert:
		return "Insert"
	case *logical.Get:
		return "Get"
	case *logical.ExpressionGet:
		return "ExpressionGet"
	case *logical.Projection:
		return "Projection"
	case *logical.Filter:
		return "Filter"
	case *logical.Limit:
		return "Limit"
	case *logical.DummyScan:
		return "DummyScan"
	case *logical.CrossJoin:
		return "CrossJoin"
	case *logical.Explain:
		return "Explain"
	default:
		return "Unknown"
	}
}

// RenderPhysicalPlan renders a physical operator tree the same way, for
// the third row of an EXPLAIN result.
func RenderPhysicalPlan(op Operator) string {
	var sb strings.Builder
	renderPhysicalNode(&sb, op, 0)
	return sb.String()
}

func renderPhysicalNode(sb *strings.Builder, op Operator, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(physicalNodeName(op))
	sb.WriteByte('\n')
	for _, c := range op.Children() {
		renderPhysicalNode(sb, c, depth+1)
	}
}

func physicalNodeName(op Operator) string {
	switch op.(type) {
	case *CreateTable:
		return "CreateTable"
	case *Insert:
		return "Insert"
	case *TableScan:
		return "TableScan"
	case *ExpressionScan:
		return "ExpressionScan"
	case *Projection:
		return "Projection"
	case *Filter:
		return "Filter"
	case *Limit:
		return "Limit"
	case *DummyScan:
		return "DummyScan"
	case *CrossJoin:
		return "CrossJoin"
	case *ColumnDataScan:
		return "ColumnDataScan"
	default:
		return "Unknown"
	}
}
