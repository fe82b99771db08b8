// Package plan defines the compiler's output artifact: the validated,
// annotated graph together with the per-step resolved inputs and
// flow-control successors the evaluator consumes verbatim.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/vflowhq/workflow-engine/pkg/graph"
)

// NodeKind mirrors graph.NodeKind for the serialized plan shape, so a
// consumer of Compiled never needs to import pkg/graph's internal Node
// type directly.
type NodeKind = graph.NodeKind

// Node is the serializable projection of one graph.Node.
type Node struct {
	ID            string   `json:"id"`
	Kind          NodeKind `json:"kind"`
	InputKind     string   `json:"input_kind,omitempty"`
	StepType      string   `json:"step_type,omitempty"`
	IsFlowControl bool     `json:"is_flow_control,omitempty"`
}

// Edge is the serializable projection of one graph.Edge.
type Edge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	FlowControl bool   `json:"flow_control,omitempty"`
}

// StepInput is one resolved selector feeding a step, in evaluation order.
type StepInput struct {
	Property string `json:"property"`
	Selector string `json:"selector"`
	Producer string `json:"producer"`
}

// Compiled is the evaluator-facing artifact produced by pkg/compiler: the
// validated graph plus per-step resolved inputs and flow-control
// successors, tagged with an identity and a tamper-evident digest.
type Compiled struct {
	PlanID   string `json:"plan_id"`
	Checksum string `json:"checksum"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Order is a topological ordering of every node id, computed once at
	// compile time so an evaluator never has to re-derive it. Exposing an
	// order is not a scheduling policy: it carries the graph's dependency
	// structure, not a decision about concurrency or batching.
	Order []string `json:"order"`

	PerStepInputs         map[string][]StepInput `json:"per_step_inputs"`
	PerStepFlowSuccessors map[string][]string     `json:"per_step_flow_successors"`
}

// FromGraph assembles a Compiled plan from a validated graph.Graph,
// generating a fresh PlanID and computing its Checksum. Callers must have
// already run structural.Validate (and all prior compiler stages)
// successfully on g.
func FromGraph(g *graph.Graph) (*Compiled, error) {
	c := &Compiled{
		PerStepInputs:         make(map[string][]StepInput, len(g.PerStepInputs)),
		PerStepFlowSuccessors: make(map[string][]string, len(g.PerStepFlowSuccessors)),
	}

	for _, n := range g.Nodes() {
		c.Nodes = append(c.Nodes, Node{
			ID:            n.ID,
			Kind:          n.Kind,
			InputKind:     string(n.InputKind),
			StepType:      n.StepType,
			IsFlowControl: n.IsFlowControl,
		})
	}
	for _, e := range g.Edges {
		c.Edges = append(c.Edges, Edge{From: e.From, To: e.To, FlowControl: e.FlowControl})
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	c.Order = order
	for step, inputs := range g.PerStepInputs {
		converted := make([]StepInput, 0, len(inputs))
		for _, in := range inputs {
			converted = append(converted, StepInput{Property: in.Property, Selector: in.Selector, Producer: in.Producer})
		}
		c.PerStepInputs[step] = converted
	}
	for step, successors := range g.PerStepFlowSuccessors {
		c.PerStepFlowSuccessors[step] = append([]string(nil), successors...)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	c.PlanID = id.String()

	checksum, err := c.computeChecksum()
	if err != nil {
		return nil, err
	}
	c.Checksum = checksum

	return c, nil
}

// computeChecksum hashes a canonical JSON encoding of nodes, edges, and
// per-step inputs, sorted by node id so the digest is stable across
// repeated compilations of the same definition.
func (c *Compiled) computeChecksum() (string, error) {
	nodes := append([]Node(nil), c.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := append([]Edge(nil), c.Edges...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	stepIDs := make([]string, 0, len(c.PerStepInputs))
	for id := range c.PerStepInputs {
		stepIDs = append(stepIDs, id)
	}
	sort.Strings(stepIDs)

	type canonicalInputs struct {
		Step   string      `json:"step"`
		Inputs []StepInput `json:"inputs"`
	}
	inputs := make([]canonicalInputs, 0, len(stepIDs))
	for _, id := range stepIDs {
		inputs = append(inputs, canonicalInputs{Step: id, Inputs: c.PerStepInputs[id]})
	}

	payload := struct {
		Nodes  []Node            `json:"nodes"`
		Edges  []Edge            `json:"edges"`
		Inputs []canonicalInputs `json:"inputs"`
	}{nodes, edges, inputs}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
