package structural

import (
	"sort"

	"github.com/vflowhq/workflow-engine/pkg/graph"
)

// terminals returns every output node plus every step node whose block
// declares zero outputs (side-effecting steps).
func terminals(g *graph.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		switch {
		case n.Kind == graph.NodeOutput:
			out = append(out, n.ID)
		case n.Kind == graph.NodeStep && len(n.Outputs) == 0:
			out = append(out, n.ID)
		}
	}
	return out
}

// checkTerminalReachability implements I4: every node must reach at least
// one terminal. It computes the reachable set in the reversed graph via DFS
// rooted at each terminal — a node visited this way can, in the forward
// graph, reach that terminal.
func checkTerminalReachability(g *graph.Graph, ts []string) error {
	reachable := make(map[string]bool, len(g.NodeIDs()))

	var visit func(id string)
	visit = func(id string) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, pred := range g.Predecessors(id, true) {
			visit(pred)
		}
	}
	for _, t := range ts {
		visit(t)
	}

	var dangling []string
	for _, id := range g.NodeIDs() {
		if !reachable[id] {
			dangling = append(dangling, id)
		}
	}
	if len(dangling) == 0 {
		return nil
	}

	sort.Strings(dangling)
	return &DanglingBranchError{Nodes: dangling}
}
