package heuristic

import (
	"sort"

	"github.com/lychee-technology/sqlcore/internal/logical"
)

// hepEdge is one outgoing edge, weighted by child order so join-style
// multi-child nodes keep a stable left/right ordering even after a rule
// replaces one child's subgraph with another (§4.2's "plan graph").
type hepEdge struct {
	to     int
	weight int
}

type hepNode struct {
	id   int
	plan logical.Plan
}

// HepGraph holds the mutable node/edge arena a HepOptimizer rewrites.
// There is no third-party graph library anywhere in the retrieved
// example pack (the Rust reference uses petgraph, which has no Go
// analogue present in this corpus), so the arena is a small hand-rolled
// adjacency structure — justified stdlib-only in DESIGN.md.
type HepGraph struct {
	nodes   map[int]*hepNode
	edges   map[int][]hepEdge // node id -> outgoing edges (children)
	parents map[int][]hepEdge // node id -> incoming edges, weight preserved
	root    int
	nextID  int
}

func NewHepGraph(root logical.Plan) *HepGraph {
	g := &HepGraph{
		nodes:   make(map[int]*hepNode),
		edges:   make(map[int][]hepEdge),
		parents: make(map[int][]hepEdge),
	}
	g.root = g.AddOptExpr(OptExpr{Root: PlanRefNode(root), Children: planChildrenAsOptExprs(root)})
	return g
}

func planChildrenAsOptExprs(p logical.Plan) []OptExpr {
	children := p.Children()
	out := make([]OptExpr, len(children))
	for i, c := range children {
		out[i] = OptExpr{Root: PlanRefNode(c), Children: planChildrenAsOptExprs(c)}
	}
	return out
}

// AddOptExpr depth-first inserts a fresh OptExpr into the graph (existing
// references just return their id unchanged), per §4.2.
func (g *HepGraph) AddOptExpr(expr OptExpr) int {
	if expr.Root.IsExisting() {
		return expr.Root.ExistingID
	}
	id := g.nextID
	g.nextID++
	g.nodes[id] = &hepNode{id: id, plan: expr.Root.PlanRef}

	childIDs := make([]int, len(expr.Children))
	for i, c := range expr.Children {
		childIDs[i] = g.AddOptExpr(c)
	}
	for order, childID := range childIDs {
		edge := hepEdge{to: childID, weight: order}
		g.edges[id] = append(g.edges[id], edge)
		g.parents[childID] = append(g.parents[childID], hepEdge{to: id, weight: order})
	}
	return id
}

// ChildrenAt returns id's children sorted by edge weight, preserving
// left/right order across rewrites.
func (g *HepGraph) ChildrenAt(id int) []int {
	edges := append([]hepEdge(nil), g.edges[id]...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].weight < edges[j].weight })
	out := make([]int, len(edges))
	for i, e := range edges {
		out[i] = e.to
	}
	return out
}

func (g *HepGraph) NodePlan(id int) logical.Plan { return g.nodes[id].plan }

func (g *HepGraph) Root() int { return g.root }

// ToPlan materializes the current graph back into a logical.Plan tree.
func (g *HepGraph) ToPlan() logical.Plan { return g.ToPlanStartFrom(g.root) }

func (g *HepGraph) ToPlanStartFrom(start int) logical.Plan {
	childIDs := g.ChildrenAt(start)
	children := make([]logical.Plan, len(childIDs))
	for i, id := range childIDs {
		children[i] = g.ToPlanStartFrom(id)
	}
	plan := g.nodes[start].plan.WithChildren(children)
	if len(children) > 0 {
		_ = plan.ResolveTypes()
	}
	return plan
}

// ToOptExpr captures id's subtree as a fully-materialized OptExpr (all
// PlanRef, no ExistingID stubs), used by the matcher's None-children case
// to regenerate a rewritten root while leaving descendants opaque.
func (g *HepGraph) ToOptExpr(id int) OptExpr {
	childIDs := g.ChildrenAt(id)
	children := make([]OptExpr, len(childIDs))
	for i, cid := range childIDs {
		children[i] = g.ToOptExpr(cid)
	}
	return OptExpr{Root: PlanRefNode(g.nodes[id].plan), Children: children}
}

// bfs runs a stable breadth-first traversal from start, used for match
// ordering (§4.2).
func (g *HepGraph) bfs(start int) []int {
	visited := map[int]bool{start: true}
	queue := []int{start}
	var out []int
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)
		for _, childID := range g.ChildrenAt(id) {
			if !visited[childID] {
				visited[childID] = true
				queue = append(queue, childID)
			}
		}
	}
	return out
}

// NodesIter returns node ids in the requested match order: BFS from root
// for top-down, reversed for bottom-up.
func (g *HepGraph) NodesIter(order HepMatchOrder) []int {
	ids := g.bfs(g.root)
	if order == BottomUp {
		reversed := make([]int, len(ids))
		for i, id := range ids {
			reversed[len(ids)-1-i] = id
		}
		return reversed
	}
	return ids
}

// ReplaceNode rewires oldID's parents onto a freshly-added newOptExpr,
// removes oldID, updates root if needed, and prunes anything no longer
// reachable from root, per §4.2.
func (g *HepGraph) ReplaceNode(oldID int, newOptExpr OptExpr) {
	// Filter to parent edges that still actually point at oldID: a stale
	// entry can linger in g.parents[oldID] from an earlier replace_node
	// that reused oldID as a shared (ExistingID) child without rewriting
	// this index.
	var parentEdges []hepEdge
	for _, pe := range g.parents[oldID] {
		for _, e := range g.edges[pe.to] {
			if e.to == oldID && e.weight == pe.weight {
				parentEdges = append(parentEdges, pe)
				break
			}
		}
	}

	newID := g.AddOptExpr(newOptExpr)

	for _, pe := range parentEdges {
		parentID := pe.to
		weight := pe.weight
		out := g.edges[parentID]
		for i := range out {
			if out[i].to == oldID && out[i].weight == weight {
				out[i].to = newID
			}
		}
		g.edges[parentID] = out
		g.parents[newID] = append(g.parents[newID], hepEdge{to: parentID, weight: weight})
	}

	delete(g.nodes, oldID)
	delete(g.edges, oldID)
	delete(g.parents, oldID)

	if g.root == oldID {
		g.root = newID
	}

	reachable := map[int]bool{}
	for _, id := range g.bfs(g.root) {
		reachable[id] = true
	}
	if len(reachable) != len(g.nodes) {
		for id := range g.nodes {
			if !reachable[id] {
				delete(g.nodes, id)
				delete(g.edges, id)
				delete(g.parents, id)
			}
		}
	}
}
