package builtin

import "github.com/vflowhq/workflow-engine/pkg/block"

// RoboflowModelDescriptor names a hosted model by id, literal-only, no
// selector inputs. It exists so a workflow can reference a model without
// hard-coding its id into every consuming step's manifest.
type RoboflowModelDescriptor struct{}

func init() {
	register(func() block.Descriptor { return RoboflowModelDescriptor{} })
}

func (RoboflowModelDescriptor) ManifestTypeID() string { return "roboflow_model" }

func (RoboflowModelDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{
		ManifestTypeID: "roboflow_model",
		Fields: []block.FieldSpec{
			{
				Name:        "model_id",
				Kind:        block.FieldKindLiteral,
				LiteralType: block.LiteralString,
				Required:    true,
			},
		},
	}
}

func (RoboflowModelDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return []block.OutputDeclaration{
		{Name: "model_id", Kinds: block.KindSet{block.KindRoboflowModelID}},
	}, nil
}
