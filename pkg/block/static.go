package block

// StaticDescriptor implements Descriptor for blocks whose output kinds
// never depend on the manifest instance. Most builtin blocks are static;
// it exists mainly so pkg/registrysrc's catalog entries (schema only, no
// behavior) can be turned into a working Descriptor without a bespoke type
// per block.
type StaticDescriptor struct {
	TypeID      string
	ManifestDef ManifestSchema
	Declared    []OutputDeclaration
}

// NewStaticDescriptor builds a StaticDescriptor from a schema and a fixed
// output list.
func NewStaticDescriptor(schema ManifestSchema, outputs []OutputDeclaration) *StaticDescriptor {
	return &StaticDescriptor{
		TypeID:      schema.ManifestTypeID,
		ManifestDef: schema,
		Declared:    outputs,
	}
}

func (d *StaticDescriptor) ManifestTypeID() string {
	return d.TypeID
}

func (d *StaticDescriptor) Schema() ManifestSchema {
	return d.ManifestDef
}

func (d *StaticDescriptor) Outputs(_ Manifest) ([]OutputDeclaration, error) {
	return d.Declared, nil
}
