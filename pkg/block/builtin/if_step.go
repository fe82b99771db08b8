package builtin

import "github.com/vflowhq/workflow-engine/pkg/block"

// IfDescriptor is the workflow's sole flow-control block: it evaluates
// condition and redirects execution to true_branch or false_branch.
// SelectedElementStep on both branch fields is what marks them as
// flow-control references rather than data consumers (pkg/graph routes
// them to flow-control edges, never data edges). It declares no outputs
// and is therefore always a terminal node in pkg/structural's
// reachability check.
type IfDescriptor struct{}

func init() {
	register(func() block.Descriptor { return IfDescriptor{} })
}

func (IfDescriptor) ManifestTypeID() string { return "if" }

func (IfDescriptor) Schema() block.ManifestSchema {
	return block.ManifestSchema{
		ManifestTypeID: "if",
		Fields: []block.FieldSpec{
			{
				Name: "condition",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementInput, Kinds: block.KindSet{block.KindBoolean}},
					{SelectedElement: block.SelectedElementStepOutput, Kinds: block.KindSet{block.KindBoolean}},
				},
			},
			{
				Name: "true_branch",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementStep, Kinds: block.KindSet{block.Wildcard}},
				},
			},
			{
				Name: "false_branch",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementStep, Kinds: block.KindSet{block.Wildcard}},
				},
			},
		},
	}
}

func (IfDescriptor) Outputs(block.Manifest) ([]block.OutputDeclaration, error) {
	return nil, nil
}
