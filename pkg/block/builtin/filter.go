package builtin

import "github.com/vflowhq/workflow-engine/pkg/block"

// DetectionFilterDescriptor drops predictions below a confidence threshold
// or outside an allowed class list, passing through the rest unchanged.
// Its output kind set mirrors the input kind set exactly (object detection
// in, object detection out), which is manifest-insensitive: unlike
// ObjectDetectionModelDescriptor, no field value here selects among
// different output kinds, so Outputs ignores its manifest argument.
type DetectionFilterDescriptor struct{}

func init() {
	register(func() block.Descriptor { return DetectionFilterDescriptor{} })
}

func (DetectionFilterDescriptor) ManifestTypeID() string { return "detection_filter" }

func (DetectionFilterDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{
		ManifestTypeID: "detection_filter",
		Fields: []block.FieldSpec{
			{
				Name: "predictions",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementStepOutput, Kinds: batchPredictionKinds},
				},
			},
			{
				Name:        "confidence_threshold",
				Kind:        block.FieldKindLiteral,
				LiteralType: block.LiteralFloat,
				Required:    false,
				Default:     0.0,
				Rules:       &block.LiteralRules{Min: floatPtr(0), Max: floatPtr(1)},
			},
			{
				Name:        "class_filter",
				Kind:        block.FieldKindLiteral,
				LiteralType: block.LiteralArray,
				Required:    false,
			},
		},
	}
}

func (DetectionFilterDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return []block.OutputDeclaration{
		{Name: "predictions", Kinds: batchPredictionKinds},
	}, nil
}
