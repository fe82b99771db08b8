package structural_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/definition"
	"github.com/vflowhq/workflow-engine/pkg/graph"
	"github.com/vflowhq/workflow-engine/pkg/structural"
)

// testDescriptor is a generic, configurable block.Descriptor used only to
// exercise the structural checks against hand-built workflow graphs.
type testDescriptor struct {
	id      string
	fields  []block.FieldSpec
	outputs []block.OutputDeclaration
}

func (d testDescriptor) ManifestTypeID() string { return d.id }
func (d testDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{ManifestTypeID: d.id, Fields: d.fields}
}
func (d testDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return d.outputs, nil
}

func dataField(name string) block.FieldSpec {
	return block.FieldSpec{
		Name: name,
		Kind: block.FieldKindSelector,
		AllowedReferences: []block.AllowedReference{
			{SelectedElement: block.SelectedElementInput, Kinds: block.KindSet{block.Wildcard}},
			{SelectedElement: block.SelectedElementStepOutput, Kinds: block.KindSet{block.Wildcard}},
		},
	}
}

func flowField(name string) block.FieldSpec {
	return block.FieldSpec{
		Name: name,
		Kind: block.FieldKindSelector,
		AllowedReferences: []block.AllowedReference{
			{SelectedElement: block.SelectedElementStep, Kinds: block.KindSet{block.Wildcard}},
		},
	}
}

func buildGraph(t *testing.T, registry *block.Registry, doc string) *graph.Graph {
	t.Helper()
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)
	g, err := graph.NewBuilder(def, registry).Build(context.Background())
	require.NoError(t, err)
	return g
}

func TestCycleDetected(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(testDescriptor{
		id:      "cyclic_step",
		fields:  []block.FieldSpec{dataField("x")},
		outputs: []block.OutputDeclaration{{Name: "y", Kinds: block.KindSet{block.Wildcard}}},
	})

	doc := `{
	  "inputs":[{"name":"unused","kind":"integer"}],
	  "steps":[
	    {"name":"a","type":"cyclic_step","x":"$steps.b.y"},
	    {"name":"b","type":"cyclic_step","x":"$steps.a.y"}
	  ],
	  "outputs":[]
	}`
	g := buildGraph(t, registry, doc)

	err := structural.Validate(g)
	require.Error(t, err)
	var cycleErr *structural.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestDanglingBranch(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(testDescriptor{
		id:      "passthrough",
		fields:  []block.FieldSpec{dataField("image")},
		outputs: []block.OutputDeclaration{{Name: "out", Kinds: block.KindSet{block.Wildcard}}},
	})

	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[
	    {"name":"aux","type":"passthrough","image":"$inputs.img"},
	    {"name":"main","type":"passthrough","image":"$inputs.img"}
	  ],
	  "outputs":[{"name":"result","selector":"$steps.main.out"}]
	}`
	g := buildGraph(t, registry, doc)

	err := structural.Validate(g)
	require.Error(t, err)
	var danglingErr *structural.DanglingBranchError
	require.ErrorAs(t, err, &danglingErr)
	assert.Contains(t, danglingErr.Nodes, "$steps.aux")
}

func TestZeroOutputStepIsTerminal(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(testDescriptor{
		id:      "passthrough",
		fields:  []block.FieldSpec{dataField("image")},
		outputs: []block.OutputDeclaration{{Name: "out", Kinds: block.KindSet{block.Wildcard}}},
	})
	registry.Register(testDescriptor{
		id:      "sink_step",
		fields:  []block.FieldSpec{dataField("image")},
		outputs: nil,
	})

	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[
	    {"name":"aux","type":"sink_step","image":"$inputs.img"},
	    {"name":"main","type":"passthrough","image":"$inputs.img"}
	  ],
	  "outputs":[{"name":"result","selector":"$steps.main.out"}]
	}`
	g := buildGraph(t, registry, doc)

	require.NoError(t, structural.Validate(g))
}

func TestBranchClashHazardOne(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(testDescriptor{
		id:      "if_step",
		fields:  []block.FieldSpec{flowField("true_branch"), flowField("false_branch")},
		outputs: nil,
	})
	registry.Register(testDescriptor{
		id:      "step",
		fields:  []block.FieldSpec{dataField("x")},
		outputs: []block.OutputDeclaration{{Name: "y", Kinds: block.KindSet{block.Wildcard}}},
	})
	registry.Register(testDescriptor{
		id:      "join_step",
		fields:  []block.FieldSpec{dataField("x"), dataField("y")},
		outputs: []block.OutputDeclaration{{Name: "z", Kinds: block.KindSet{block.Wildcard}}},
	})

	doc := `{
	  "inputs":[{"name":"cond","kind":"boolean"}],
	  "steps":[
	    {"name":"ifstep","type":"if_step","true_branch":"$steps.b","false_branch":"$steps.e"},
	    {"name":"b","type":"step","x":"$inputs.cond"},
	    {"name":"e","type":"step","x":"$inputs.cond"},
	    {"name":"c","type":"step","x":"$steps.b.y"},
	    {"name":"f","type":"step","x":"$steps.e.y"},
	    {"name":"g","type":"join_step","x":"$steps.c.y","y":"$steps.f.y"}
	  ],
	  "outputs":[{"name":"result","selector":"$steps.g.z"}]
	}`
	g := buildGraph(t, registry, doc)

	err := structural.Validate(g)
	require.Error(t, err)
	var clashErr *structural.BranchesClashError
	require.ErrorAs(t, err, &clashErr)
	assert.Equal(t, "$steps.g", clashErr.Node)
	assert.Equal(t, 1, clashErr.Hazard)
}

func TestBranchClashHazardTwo(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(testDescriptor{
		id:      "if_step",
		fields:  []block.FieldSpec{flowField("target")},
		outputs: nil,
	})
	registry.Register(testDescriptor{
		id:      "step",
		fields:  []block.FieldSpec{dataField("x")},
		outputs: []block.OutputDeclaration{{Name: "y", Kinds: block.KindSet{block.Wildcard}}},
	})
	registry.Register(testDescriptor{
		id:      "join_step",
		fields:  []block.FieldSpec{dataField("x"), dataField("y")},
		outputs: []block.OutputDeclaration{{Name: "z", Kinds: block.KindSet{block.Wildcard}}},
	})

	doc := `{
	  "inputs":[{"name":"cond","kind":"boolean"}],
	  "steps":[
	    {"name":"if1","type":"if_step","target":"$steps.b"},
	    {"name":"if2","type":"if_step","target":"$steps.e"},
	    {"name":"b","type":"step","x":"$inputs.cond"},
	    {"name":"e","type":"step","x":"$inputs.cond"},
	    {"name":"g","type":"join_step","x":"$steps.b.y","y":"$steps.e.y"}
	  ],
	  "outputs":[{"name":"result","selector":"$steps.g.z"}]
	}`
	g := buildGraph(t, registry, doc)

	err := structural.Validate(g)
	require.Error(t, err)
	var clashErr *structural.BranchesClashError
	require.ErrorAs(t, err, &clashErr)
	assert.Equal(t, "$steps.g", clashErr.Node)
	assert.Equal(t, 2, clashErr.Hazard)
}

func TestFlowControlParentAloneDoesNotTriggerBranchIsolation(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(testDescriptor{
		id:      "if_step",
		fields:  []block.FieldSpec{flowField("target")},
		outputs: nil,
	})
	registry.Register(testDescriptor{
		id:      "step",
		fields:  []block.FieldSpec{dataField("x")},
		outputs: []block.OutputDeclaration{{Name: "y", Kinds: block.KindSet{block.Wildcard}}},
	})

	doc := `{
	  "inputs":[{"name":"cond","kind":"boolean"}],
	  "steps":[
	    {"name":"ifstep","type":"if_step","target":"$steps.g"},
	    {"name":"b","type":"step","x":"$inputs.cond"},
	    {"name":"g","type":"step","x":"$steps.b.y"}
	  ],
	  "outputs":[{"name":"result","selector":"$steps.g.y"}]
	}`
	g := buildGraph(t, registry, doc)

	require.NoError(t, structural.Validate(g))
}
