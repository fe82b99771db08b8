package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/definition"
	"github.com/vflowhq/workflow-engine/pkg/graph"
	"github.com/vflowhq/workflow-engine/pkg/typecheck"
)

type filterDescriptor struct{}

func (filterDescriptor) ManifestTypeID() string { return "detection_filter" }
func (filterDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{
		ManifestTypeID: "detection_filter",
		Fields: []block.FieldSpec{
			{
				Name:        "confidence_threshold",
				Kind:        block.FieldKindLiteral,
				LiteralType: block.LiteralFloat,
				Required:    true,
				Rules:       &block.LiteralRules{Min: floatPtr(0), Max: floatPtr(1)},
			},
		},
	}
}
func (filterDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return []block.OutputDeclaration{{Name: "predictions", Kinds: block.KindSet{block.KindBatchObjectDetectionPrediction}}}, nil
}

func floatPtr(f float64) *float64 { return &f }

type detectorDescriptor struct{}

func (detectorDescriptor) ManifestTypeID() string { return "object_detection_model" }
func (detectorDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{
		ManifestTypeID: "object_detection_model",
		Fields: []block.FieldSpec{
			{
				Name: "image",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementInput, Kinds: block.KindSet{block.KindImage}},
					{SelectedElement: block.SelectedElementStepOutput, Kinds: block.KindSet{block.KindImage}},
				},
			},
		},
	}
}
func (detectorDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return []block.OutputDeclaration{{Name: "preds", Kinds: block.KindSet{block.KindBatchObjectDetectionPrediction}}}, nil
}

func buildRegistry() *block.Registry {
	r := block.NewRegistry()
	r.Register(detectorDescriptor{})
	return r
}

func TestBuildLinearWellTyped(t *testing.T) {
	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[{"name":"det","type":"object_detection_model","image":"$inputs.img"}],
	  "outputs":[{"name":"result","selector":"$steps.det.preds"}]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	g, err := graph.NewBuilder(def, buildRegistry()).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, g.Edges, 2)
	assert.Equal(t, "$inputs.img", g.Edges[0].From)
	assert.Equal(t, "$steps.det", g.Edges[0].To)
	assert.Equal(t, "$steps.det", g.Edges[1].From)
	assert.Equal(t, "out.result", g.Edges[1].To)
}

func TestBuildTypeMismatch(t *testing.T) {
	doc := `{
	  "inputs":[{"name":"n","kind":"integer"}],
	  "steps":[{"name":"det","type":"object_detection_model","image":"$inputs.n"}],
	  "outputs":[]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	_, err = graph.NewBuilder(def, buildRegistry()).Build(context.Background())
	require.Error(t, err)

	var mismatch *typecheck.Mismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "image", mismatch.Property)
	assert.Equal(t, block.KindSet{block.KindImage}, mismatch.Expected)
	assert.Equal(t, block.KindSet{block.KindInteger}, mismatch.Actual)
}

func TestBuildInvalidReference(t *testing.T) {
	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[{"name":"det","type":"object_detection_model","image":"$inputs.missing"}],
	  "outputs":[]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	_, err = graph.NewBuilder(def, buildRegistry()).Build(context.Background())
	require.ErrorIs(t, err, graph.ErrInvalidReference)
}

func TestBuildUnexpectedStepReference(t *testing.T) {
	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[
	    {"name":"a","type":"object_detection_model","image":"$inputs.img"},
	    {"name":"b","type":"object_detection_model","image":"$steps.a"}
	  ],
	  "outputs":[]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	_, err = graph.NewBuilder(def, buildRegistry()).Build(context.Background())
	require.ErrorIs(t, err, graph.ErrUnexpectedStepReference)
}

func TestBuildMissingRequiredLiteralField(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(filterDescriptor{})

	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[{"name":"f","type":"detection_filter"}],
	  "outputs":[]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	_, err = graph.NewBuilder(def, registry).Build(context.Background())
	require.Error(t, err)
	var defErr *definition.Error
	require.ErrorAs(t, err, &defErr)
}

func TestBuildLiteralFieldOutOfRange(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(filterDescriptor{})

	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[{"name":"f","type":"detection_filter","confidence_threshold":1.5}],
	  "outputs":[]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	_, err = graph.NewBuilder(def, registry).Build(context.Background())
	require.Error(t, err)
	var defErr *definition.Error
	require.ErrorAs(t, err, &defErr)
}

func TestBuildLiteralFieldWithinRangeSucceeds(t *testing.T) {
	registry := block.NewRegistry()
	registry.Register(filterDescriptor{})

	doc := `{
	  "inputs":[{"name":"img","kind":"image"}],
	  "steps":[{"name":"f","type":"detection_filter","confidence_threshold":0.5}],
	  "outputs":[]
	}`
	def, err := definition.Parse([]byte(doc))
	require.NoError(t, err)

	_, err = graph.NewBuilder(def, registry).Build(context.Background())
	require.NoError(t, err)
}
