package block

// SelectedElement identifies what a selector resolves to: a workflow input,
// a named output property of a step, or the step itself (flow-control).
type SelectedElement string

const (
	SelectedElementInput      SelectedElement = "input"
	SelectedElementStepOutput SelectedElement = "step_output"
	SelectedElementStep       SelectedElement = "step"
)

// AllowedReference declares, for one selector-typed manifest field, which
// kind of node it may point at and which kinds are acceptable once it does.
// SelectedElement == SelectedElementStep marks a flow-control reference: the
// step redirects execution rather than consuming a value.
type AllowedReference struct {
	SelectedElement SelectedElement
	Kinds           KindSet
}

// FieldKind distinguishes manifest fields that hold a selector string from
// fields that hold a plain literal value.
type FieldKind string

const (
	FieldKindSelector FieldKind = "selector"
	FieldKindLiteral  FieldKind = "literal"
)

// FieldSpec describes one field of a block manifest as declared by the
// block's schema. Selector fields carry AllowedReferences; literal fields
// carry a LiteralType used for parameter validation.
type FieldSpec struct {
	Name              string
	Kind              FieldKind
	AllowedReferences []AllowedReference
	LiteralType       LiteralType
	Required          bool
	Default           interface{}
	Rules             *LiteralRules
}

// LiteralType describes the shape of a non-selector manifest field.
type LiteralType string

const (
	LiteralString  LiteralType = "string"
	LiteralInt     LiteralType = "int"
	LiteralFloat   LiteralType = "float"
	LiteralBool    LiteralType = "bool"
	LiteralEnum    LiteralType = "enum"
	LiteralArray   LiteralType = "array"
	LiteralObject  LiteralType = "object"
)

// ManifestSchema is the data-driven, reflection-free description of a
// block's manifest shape. It is walked field by field by pkg/schemaparse
// to separate selector fields from literal fields; it is never interpreted
// via Go struct tags, since manifests are decoded into a generic Manifest
// map, not into per-block Go structs.
type ManifestSchema struct {
	ManifestTypeID string
	Fields         []FieldSpec
}

// Manifest is one step's concrete field values, keyed by field name. A
// value is either a literal (string, float64, bool, []interface{}, map)
// coming straight out of encoding/json, or a selector string recognized by
// pkg/selector.
type Manifest map[string]interface{}

// OutputDeclaration names one output a block instance produces, with the
// set of kinds it may carry. A block with no OutputDeclarations is
// side-effecting and is treated as a terminal node (see pkg/structural).
type OutputDeclaration struct {
	Name  string
	Kinds KindSet
}

// Descriptor is the registry-side contract for one block type. Outputs is
// manifest-sensitive by design: some blocks' declared output kinds depend
// on concrete field values (e.g. a model-selection field narrows the
// prediction kind), so it must be evaluated per step instance during type
// checking, never cached per block class.
type Descriptor interface {
	ManifestTypeID() string
	Schema() ManifestSchema
	Outputs(manifest Manifest) ([]OutputDeclaration, error)
}

// CatalogEntry is the class-level, serializable portion of a Descriptor:
// identity and schema, but not the live Outputs behavior. It is what
// pkg/registrysrc loads from external storage; a caller must still pair it
// with an in-process Descriptor implementation before registering it,
// unless every output of that manifest type is manifest-insensitive and the
// registry is seeded with a StaticDescriptor (see static.go).
type CatalogEntry struct {
	ManifestTypeID string         `json:"manifest_type_id"`
	Schema         ManifestSchema `json:"schema"`
}
