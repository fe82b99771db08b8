package builtin

import "github.com/vflowhq/workflow-engine/pkg/block"

// batchPredictionKinds is the set of batch prediction kinds a step that
// consumes "any kind of detections" accepts — narrower than Wildcard, so a
// selector pointing at e.g. a roboflow_model_id output is still rejected by
// pkg/typecheck.
var batchPredictionKinds = block.KindSet{
	block.KindBatchObjectDetectionPrediction,
	block.KindBatchInstanceSegmentationPrediction,
	block.KindBatchKeypointDetectionPrediction,
}

// ImageCropDescriptor crops the source image to each detection's bounding
// box, producing one cropped image per detection.
type ImageCropDescriptor struct{}

func init() {
	register(func() block.Descriptor { return ImageCropDescriptor{} })
}

func (ImageCropDescriptor) ManifestTypeID() string { return "image_crop" }

func (ImageCropDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{
		ManifestTypeID: "image_crop",
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
				Name: "predictions",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementStepOutput, Kinds: batchPredictionKinds},
				},
			},
		},
	}
}

func (ImageCropDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return []block.OutputDeclaration{
		{Name: "crops", Kinds: block.KindSet{block.KindImage}},
	}, nil
}
