package structural

import "github.com/vflowhq/workflow-engine/pkg/graph"

// checkAcyclic is the standard DFS cycle test (I1), run over every edge —
// data and flow-control both — since a cycle through a flow-control edge
// is just as fatal as one through a data edge.
func checkAcyclic(g *graph.Graph) error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(g.NodeIDs()))
	for _, id := range g.NodeIDs() {
		color[id] = white
	}

	var stack []string
	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range g.Successors(id, true) {
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				cycleStart := 0
				for i, n := range stack {
					if n == next {
						cycleStart = i
						break
					}
				}
				return &CycleError{Nodes: append(append([]string{}, stack[cycleStart:]...), next)}
			}
		}

		color[id] = black
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
