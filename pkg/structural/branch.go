package structural

import (
	"sort"

	"github.com/vflowhq/workflow-engine/pkg/graph"
)

// checkBranchIsolation verifies that every step's parents come from a
// single branch. A flow-control step partitions its downstream into
// mutually exclusive branches; this check rejects a step whose multiple
// step-level parents come from different branches of the same
// flow-control step (hazard 1), or from branches of two distinct
// flow-control steps (hazard 2).
//
// A step's incoming flow-control edges do not count toward the "≥2 step
// parents" trigger below — only incoming data edges from other steps do
// (see DESIGN.md for the reasoning). The step-only subgraph used for
// path-walking still includes flow-control edges, since a flow-control
// predecessor must appear on the walked path to be recorded as a branch
// point.
func checkBranchIsolation(g *graph.Graph) error {
	stepIDs := stepNodeIDs(g)
	dataParents, allParents := stepParentSets(g, stepIDs)

	multiParent := make([]string, 0)
	for _, id := range stepIDs {
		if len(dataParents[id]) >= 2 {
			multiParent = append(multiParent, id)
		}
	}
	if len(multiParent) == 0 {
		return nil
	}
	sort.Strings(multiParent)

	tau := stepReverseTopoOrder(stepIDs, allParents)
	tauIndex := make(map[string]int, len(tau))
	for i, id := range tau {
		tauIndex[id] = i
	}

	for _, m := range multiParent {
		successorsOfFC := make(map[string]map[string]struct{})
		maxFCOnAnyPath := 0

		parents := make([]string, 0, len(dataParents[m]))
		for p := range dataParents[m] {
			parents = append(parents, p)
		}
		sort.Strings(parents)

		for _, p := range parents {
			pathSet := ancestorsInclusive(p, allParents)
			pathSet[m] = struct{}{}

			ordered := make([]string, 0, len(pathSet))
			for _, id := range tau {
				if _, ok := pathSet[id]; ok {
					ordered = append(ordered, id)
				}
			}

			fcCount := 0
			for i := 1; i < len(ordered); i++ {
				prev, curr := ordered[i-1], ordered[i]
				if !isFlowControl(g, curr) {
					continue
				}
				fcCount++
				if successorsOfFC[curr] == nil {
					successorsOfFC[curr] = make(map[string]struct{})
				}
				successorsOfFC[curr][prev] = struct{}{}
			}
			if fcCount > maxFCOnAnyPath {
				maxFCOnAnyPath = fcCount
			}
		}

		if len(successorsOfFC) > maxFCOnAnyPath {
			return &BranchesClashError{Node: m, FlowControlSteps: sortedKeys(successorsOfFC), Hazard: 2}
		}
		for _, fc := range sortedKeys(successorsOfFC) {
			if len(successorsOfFC[fc]) > 1 {
				return &BranchesClashError{Node: m, FlowControlSteps: []string{fc}, Hazard: 1}
			}
		}
	}

	return nil
}

func stepNodeIDs(g *graph.Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		if n.Kind == graph.NodeStep {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func isFlowControl(g *graph.Graph, id string) bool {
	n := g.Node(id)
	return n != nil && n.Kind == graph.NodeStep && n.IsFlowControl
}

// stepParentSets returns two maps over step ids: dataParents (predecessors
// reachable via a non-flow-control edge from another step) and allParents
// (predecessors via any edge from another step, data or flow-control).
func stepParentSets(g *graph.Graph, stepIDs []string) (map[string]map[string]struct{}, map[string][]string) {
	dataParents := make(map[string]map[string]struct{}, len(stepIDs))
	allParents := make(map[string][]string, len(stepIDs))

	isStep := make(map[string]struct{}, len(stepIDs))
	for _, id := range stepIDs {
		isStep[id] = struct{}{}
	}

	for _, id := range stepIDs {
		dataParents[id] = make(map[string]struct{})
		for _, e := range g.Incoming(id) {
			if _, ok := isStep[e.From]; !ok {
				continue
			}
			allParents[id] = append(allParents[id], e.From)
			if !e.FlowControl {
				dataParents[id][e.From] = struct{}{}
			}
		}
	}

	return dataParents, allParents
}

// ancestorsInclusive returns p and every step transitively reachable from p
// by walking predecessor edges in the step-only graph — equivalently, the
// nodes reachable from p in the reversed step-only graph G_steps^R.
func ancestorsInclusive(p string, allParents map[string][]string) map[string]struct{} {
	visited := map[string]struct{}{p: {}}
	queue := []string{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, parent := range allParents[cur] {
			if _, ok := visited[parent]; ok {
				continue
			}
			visited[parent] = struct{}{}
			queue = append(queue, parent)
		}
	}
	return visited
}

// stepReverseTopoOrder computes a topological order of the step-only graph
// (parents before children, via Kahn's algorithm over allParents) and
// reverses it, yielding a valid topological order of G_steps^R (children
// before parents) — any such order works for the path-walk above, the
// algorithm does not require a specific one.
func stepReverseTopoOrder(stepIDs []string, allParents map[string][]string) []string {
	children := make(map[string][]string, len(stepIDs))
	inDegree := make(map[string]int, len(stepIDs))
	for _, id := range stepIDs {
		inDegree[id] = len(allParents[id])
	}
	for _, id := range stepIDs {
		for _, parent := range allParents[id] {
			children[parent] = append(children[parent], id)
		}
	}

	var queue []string
	for _, id := range stepIDs {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		sort.Strings(queue)
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, child := range children[id] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func sortedKeys(m map[string]map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
