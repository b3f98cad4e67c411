package heuristic

import "github.com/lychee-technology/sqlcore/internal/logical"

// PatternChildrenKind distinguishes the three ways a Pattern can describe
// what it needs from a node's children, per §4.2.
type PatternChildrenKind int

const (
	// ChildrenNone means the rule doesn't care about subtree structure
	// below this node; descendants are exposed as opaque ExistingID refs.
	ChildrenNone PatternChildrenKind = iota
	// ChildrenPredicate requires child i to match sub-pattern i, in
	// graph order.
	ChildrenPredicate
	// ChildrenMatchedRecursive requires the predicate to hold on every
	// descendant, recursively.
	ChildrenMatchedRecursive
)

// Pattern is (predicate, children-requirement): the unit a Rule matches
// against a graph node.
type Pattern struct {
	Predicate    func(logical.Plan) bool
	ChildrenKind PatternChildrenKind
	Children     []Pattern // meaningful only when ChildrenKind == ChildrenPredicate
}

// hepMatcher matches a Pattern against a graph node, per §4.2.
type hepMatcher struct {
	pattern *Pattern
	startID int
	graph   *HepGraph
}

func newHepMatcher(pattern *Pattern, startID int, graph *HepGraph) *hepMatcher {
	return &hepMatcher{pattern: pattern, startID: startID, graph: graph}
}

// match returns the matched OptExpr, or ok=false if the pattern didn't
// match starting at startID.
func (m *hepMatcher) match() (OptExpr, bool) {
	startNode := m.graph.NodePlan(m.startID)
	if !m.pattern.Predicate(startNode) {
		return OptExpr{}, false
	}

	switch m.pattern.ChildrenKind {
	case ChildrenMatchedRecursive:
		if !m.matchedRecursive(m.startID) {
			return OptExpr{}, false
		}
		return m.graph.ToOptExpr(m.startID), true

	case ChildrenPredicate:
		childIDs := m.graph.ChildrenAt(m.startID)
		if len(childIDs) != len(m.pattern.Children) {
			return OptExpr{}, false
		}
		children := make([]OptExpr, len(childIDs))
		for i, childPattern := range m.pattern.Children {
			cm := newHepMatcher(&childPattern, childIDs[i], m.graph)
			matched, ok := cm.match()
			if !ok {
				return OptExpr{}, false
			}
			children[i] = matched
		}
		// root needs regenerating since a rule may have changed its children.
		return OptExpr{Root: PlanRefNode(m.graph.ToPlanStartFrom(m.startID)), Children: children}, true

	default: // ChildrenNone
		childIDs := m.graph.ChildrenAt(m.startID)
		children := make([]OptExpr, len(childIDs))
		for i, id := range childIDs {
			children[i] = OptExpr{Root: ExistingIDNode(id)}
		}
		return OptExpr{Root: PlanRefNode(m.graph.ToPlanStartFrom(m.startID)), Children: children}, true
	}
}

func (m *hepMatcher) matchedRecursive(id int) bool {
	if !m.pattern.Predicate(m.graph.NodePlan(id)) {
		return false
	}
	for _, childID := range m.graph.ChildrenAt(id) {
		if !m.matchedRecursive(childID) {
			return false
		}
	}
	return true
}
