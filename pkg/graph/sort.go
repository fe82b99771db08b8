package graph

import "fmt"

// TopologicalOrder returns every node id in a valid topological order
// (every edge, data or flow-control, points from an earlier id to a later
// one), via Kahn's algorithm. It does not decide how or whether an
// evaluator runs independent nodes concurrently; it only exposes the
// graph's dependency order as data for whatever evaluator consumes the
// plan.
func (g *Graph) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		inDegree[id] = len(g.incoming[id])
	}

	var queue []string
	for _, id := range g.nodeOrder {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, e := range g.outgoing[id] {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if len(order) != len(g.nodeOrder) {
		return nil, fmt.Errorf("graph: cannot compute a topological order (processed %d/%d nodes, graph is cyclic)", len(order), len(g.nodeOrder))
	}
	return order, nil
}
