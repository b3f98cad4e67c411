package volcano

import (
	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/physical"
)

// Build constructs the Executor tree for op, recursively building each
// child first. Grounded on VolcanoExecutor::build in
// original_source/src/execution/volcano_executor/mod.rs.
func Build(op physical.Operator, ec *Context) (Executor, error) {
	switch p := op.(type) {
	case *physical.CreateTable:
		return &createTableExec{plan: p, ec: ec}, nil

	case *physical.Insert:
		child, err := buildChild(p, ec)
		if err != nil {
			return nil, err
		}
		return &insertExec{plan: p, child: child, ec: ec}, nil

	case *physical.TableScan:
		return &tableScanExec{plan: p, ec: ec}, nil

	case *physical.ExpressionScan:
		return &expressionScanExec{plan: p}, nil

	case *physical.Projection:
		child, err := buildChild(p, ec)
		if err != nil {
			return nil, err
		}
		return &projectionExec{plan: p, child: child}, nil

	case *physical.Filter:
		child, err := buildChild(p, ec)
		if err != nil {
			return nil, err
		}
		return &filterExec{plan: p, child: child}, nil

	case *physical.Limit:
		child, err := buildChild(p, ec)
		if err != nil {
			return nil, err
		}
		return &limitExec{plan: p, child: child}, nil

	case *physical.DummyScan:
		return &dummyScanExec{plan: p}, nil

	case *physical.CrossJoin:
		children := p.Children()
		if len(children) != 2 {
			return nil, sqlcore.NewInternalError("volcano: CrossJoin must have exactly two children")
		}
		left, err := Build(children[0], ec)
		if err != nil {
			return nil, err
		}
		right, err := Build(children[1], ec)
		if err != nil {
			return nil, err
		}
		return &crossJoinExec{plan: p, left: left, right: right}, nil

	case *physical.ColumnDataScan:
		return &columnDataScanExec{plan: p}, nil

	default:
		return nil, sqlcore.NewInternalError("volcano: unhandled physical operator")
	}
}

// buildChild builds op's sole child, the shape every single-child
// operator in this tree shares.
func buildChild(op physical.Operator, ec *Context) (Executor, error) {
	children := op.Children()
	if len(children) != 1 {
		return nil, sqlcore.NewInternalError("volcano: expected exactly one child")
	}
	return Build(children[0], ec)
}
