package builtin

import (
	"fmt"

	"github.com/vflowhq/workflow-engine/pkg/block"
)

// ObjectDetectionModelDescriptor runs a hosted model against an image.
// Its output kind is manifest-sensitive: task_type picks which batch
// prediction kind the step actually produces, so pkg/typecheck must
// evaluate Outputs per step instance rather than once per block class.
type ObjectDetectionModelDescriptor struct{}

func init() {
	register(func() block.Descriptor { return ObjectDetectionModelDescriptor{} })
}

func (ObjectDetectionModelDescriptor) ManifestTypeID() string { return "object_detection_model" }

var taskTypeToKind = map[string]block.Kind{
	"object-detection":      block.KindBatchObjectDetectionPrediction,
	"instance-segmentation": block.KindBatchInstanceSegmentationPrediction,
	"keypoint-detection":    block.KindBatchKeypointDetectionPrediction,
	"classification":        block.KindBatchClassificationPrediction,
}

func (ObjectDetectionModelDescriptor) Schema() block.ManifestSchema {
	enum := make([]interface{}, 0, len(taskTypeToKind))
	for k := range taskTypeToKind {
		enum = append(enum, k)
	}

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
			{
				Name: "model",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementInput, Kinds: block.KindSet{block.KindRoboflowModelID}},
					{SelectedElement: block.SelectedElementStepOutput, Kinds: block.KindSet{block.KindRoboflowModelID}},
				},
			},
			{
				Name:        "task_type",
				Kind:        block.FieldKindLiteral,
				LiteralType: block.LiteralEnum,
				Required:    true,
				Rules:       &block.LiteralRules{Enum: enum},
			},
			{
				Name:        "confidence",
				Kind:        block.FieldKindLiteral,
				LiteralType: block.LiteralFloat,
				Required:    false,
				Default:     0.4,
				Rules:       &block.LiteralRules{Min: floatPtr(0), Max: floatPtr(1)},
			},
		},
	}
}

func (ObjectDetectionModelDescriptor) Outputs(manifest block.Manifest) ([]block.OutputDeclaration, error) {
	taskType, ok := manifest["task_type"].(string)
	if !ok {
		return nil, fmt.Errorf("object_detection_model: task_type must be a string")
	}
	kind, ok := taskTypeToKind[taskType]
	if !ok {
		return nil, fmt.Errorf("object_detection_model: unknown task_type %q", taskType)
	}
	return []block.OutputDeclaration{
		{Name: "predictions", Kinds: block.KindSet{kind}},
	}, nil
}

func floatPtr(f float64) *float64 { return &f }
