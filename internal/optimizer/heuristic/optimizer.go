package heuristic

import "github.com/lychee-technology/sqlcore/internal/logical"

// HepOptimizer drives a HepProgram against a HepGraph until every
// instruction has run, then materializes the rewritten plan.
type HepOptimizer struct {
	program *HepProgram
	graph   *HepGraph
}

func NewHepOptimizer(program *HepProgram, root logical.Plan) *HepOptimizer {
	return &HepOptimizer{program: program, graph: NewHepGraph(root)}
}

// FindBest runs every instruction in order and returns the rewritten plan.
func (o *HepOptimizer) FindBest() logical.Plan {
	for _, ins := range o.program.instructions {
		switch {
		case ins.rule != nil:
			o.applyRules([]Rule{ins.rule})
		case ins.rules != nil:
			o.applyRules(ins.rules)
		case ins.matchOrder != nil:
			o.program.matchOrder = *ins.matchOrder
		case ins.matchLimit != nil:
			o.program.matchLimit = *ins.matchLimit
		}
	}
	return o.graph.ToPlan()
}

func (o *HepOptimizer) applyRules(rules []Rule) {
	matchCount := uint32(0)
	iter := o.graph.NodesIter(o.program.matchOrder)
	i := 0
	for i < len(iter) {
		nodeID := iter[i]
		restarted := false
		for _, rule := range rules {
			if !o.applyRule(rule, nodeID) {
				continue
			}
			matchCount++
			if matchCount >= o.program.matchLimit {
				return
			}
			// a successful rewrite invalidates downstream node ids; restart.
			iter = o.graph.NodesIter(o.program.matchOrder)
			i = 0
			restarted = true
			break
		}
		if !restarted {
			i++
		}
	}
}

func (o *HepOptimizer) applyRule(rule Rule, nodeID int) bool {
	matcher := newHepMatcher(rule.Pattern(), nodeID, o.graph)
	matched, ok := matcher.match()
	if !ok {
		return false
	}
	var sub Substitute
	rule.Apply(matched, &sub)
	if len(sub.OptExprs) == 0 {
		return false
	}
	o.graph.ReplaceNode(nodeID, sub.OptExprs[0])
	return true
}
