// Package heuristic implements the rule-based (Heuristic / "Hep") plan
// optimizer of §4.2: a mutable directed graph of logical plan nodes,
// rewritten in place by a sequence of pattern-matched rules, then
// materialized back into a plan tree. Grounded on
// original_source/src/optimizer/heuristic/{graph.rs,matcher.rs,
// optimizer.rs,program.rs}, restructured around this engine's
// internal/logical.Plan interface in place of the Rust reference's
// Arc<dyn PlanNode> enum.
package heuristic

import "github.com/lychee-technology/sqlcore/internal/logical"

// OptExprNode is either a fresh plan ref awaiting insertion into the
// graph, or a reference to an already-existing graph node (by id) that a
// rule chose not to touch.
type OptExprNode struct {
	PlanRef    logical.Plan
	ExistingID int
	isExisting bool
}

func PlanRefNode(p logical.Plan) OptExprNode { return OptExprNode{PlanRef: p} }
func ExistingIDNode(id int) OptExprNode       { return OptExprNode{ExistingID: id, isExisting: true} }

func (n OptExprNode) IsExisting() bool { return n.isExisting }

// OptExpr is the tree a Pattern match produces and a Rule's Substitute
// consumes: a root node plus its (possibly partially-opaque) children.
type OptExpr struct {
	Root     OptExprNode
	Children []OptExpr
}

// Substitute is the output side-channel a Rule writes its replacement
// into; zero entries means "did not match."
type Substitute struct {
	OptExprs []OptExpr
}
