// Package graph builds and represents the execution graph: input, step,
// and output nodes joined by data and flow-control edges, constructed in
// three passes (inputs, then steps, then outputs, then edge induction).
package graph

import (
	"sort"

	"github.com/vflowhq/workflow-engine/pkg/block"
)

// NodeKind tags which of the three node shapes a Node is.
type NodeKind int

const (
	NodeInput NodeKind = iota
	NodeStep
	NodeOutput
)

// Node is a tagged union over InputNode/StepNode/OutputNode from the data
// model. Only the fields relevant to Kind are populated.
type Node struct {
	ID   string
	Kind NodeKind

	// NodeInput
	InputKind block.Kind

	// NodeStep
	StepType      string
	Manifest      block.Manifest
	IsFlowControl bool
	Outputs       []block.OutputDeclaration

	// NodeOutput
	OutputSelector string
}

// Edge is a directed edge between two node ids. FlowControl edges are
// never type-checked; they encode branch selection rather than a value
// dependency.
type Edge struct {
	From        string
	To          string
	FlowControl bool
}

// ResolvedInput is one selector-typed manifest field resolved to its
// producing node, in the order the evaluator should read it.
type ResolvedInput struct {
	Property string
	Selector string
	Producer string
}

// Graph is the immutable, compiled execution graph: nodes and edges keyed
// by stable string ids, with adjacency maps for traversal. There are no
// pointer back-references between nodes, per the "ids + index maps" design
// note — only string ids cross node boundaries.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	outgoing  map[string][]*Edge
	incoming  map[string][]*Edge

	Edges []*Edge

	// PerStepInputs and PerStepFlowSuccessors are the evaluator-facing
	// annotations assembled during edge induction.
	PerStepInputs         map[string][]ResolvedInput
	PerStepFlowSuccessors map[string][]string
}

func newGraph() *Graph {
	return &Graph{
		nodes:                 make(map[string]*Node),
		outgoing:              make(map[string][]*Edge),
		incoming:              make(map[string][]*Edge),
		PerStepInputs:         make(map[string][]ResolvedInput),
		PerStepFlowSuccessors: make(map[string][]string),
	}
}

func (g *Graph) addNode(n *Node) {
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

func (g *Graph) addEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e)
	g.incoming[e.To] = append(g.incoming[e.To], e)
}

// Node returns the node with the given id, or nil if it does not exist.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// NodeIDs returns every node id in deterministic insertion order (inputs,
// then steps, then outputs).
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Nodes returns every node, in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Outgoing returns the edges leaving id, in insertion order.
func (g *Graph) Outgoing(id string) []*Edge { return g.outgoing[id] }

// Incoming returns the edges entering id, in insertion order.
func (g *Graph) Incoming(id string) []*Edge { return g.incoming[id] }

// Predecessors returns the distinct node ids with an edge into id,
// optionally restricted by includeFlowControl.
func (g *Graph) Predecessors(id string, includeFlowControl bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range g.incoming[id] {
		if e.FlowControl && !includeFlowControl {
			continue
		}
		if _, ok := seen[e.From]; ok {
			continue
		}
		seen[e.From] = struct{}{}
		out = append(out, e.From)
	}
	sort.Strings(out)
	return out
}

// Successors returns the distinct node ids with an edge from id,
// optionally restricted by includeFlowControl.
func (g *Graph) Successors(id string, includeFlowControl bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range g.outgoing[id] {
		if e.FlowControl && !includeFlowControl {
			continue
		}
		if _, ok := seen[e.To]; ok {
			continue
		}
		seen[e.To] = struct{}{}
		out = append(out, e.To)
	}
	sort.Strings(out)
	return out
}
