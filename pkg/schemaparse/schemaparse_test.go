package schemaparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/schemaparse"
)

func detSchema() block.ManifestSchema {
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
			{Name: "confidence", Kind: block.FieldKindLiteral, LiteralType: block.LiteralFloat, Default: 0.5},
		},
	}
}

func TestParseSeparatesSelectorsAndLiterals(t *testing.T) {
	parsed, err := schemaparse.Parse(detSchema())
	require.NoError(t, err)

	require.Contains(t, parsed.Selectors, "image")
	assert.Len(t, parsed.Selectors["image"].AllowedReferences, 2)
	require.Len(t, parsed.LiteralFields, 1)
	assert.Equal(t, "confidence", parsed.LiteralFields[0].Name)
}

func TestParseRejectsEmptyAllowedReferences(t *testing.T) {
	schema := block.ManifestSchema{
		ManifestTypeID: "broken",
		Fields: []block.FieldSpec{
			{Name: "image", Kind: block.FieldKindSelector},
		},
	}
	_, err := schemaparse.Parse(schema)
	require.Error(t, err)
	var schemaErr *schemaparse.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestParseRejectsAllowedReferenceWithNoKinds(t *testing.T) {
	schema := block.ManifestSchema{
		ManifestTypeID: "broken",
		Fields: []block.FieldSpec{
			{
				Name: "image",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementInput},
				},
			},
		},
	}
	_, err := schemaparse.Parse(schema)
	require.Error(t, err)
}

func TestParseRejectsUnknownKind(t *testing.T) {
	schema := block.ManifestSchema{
		ManifestTypeID: "broken",
		Fields: []block.FieldSpec{
			{
				Name: "image",
				Kind: block.FieldKindSelector,
				AllowedReferences: []block.AllowedReference{
					{SelectedElement: block.SelectedElementInput, Kinds: block.KindSet{block.Kind("imag")}},
				},
			},
		},
	}
	_, err := schemaparse.Parse(schema)
	require.Error(t, err)
	var schemaErr *schemaparse.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Reason, "imag")
}

func TestCacheReturnsSameSchemaObjectOnRepeatedGet(t *testing.T) {
	cache := schemaparse.NewCache()
	schema := detSchema()

	first, err := cache.Get(schema)
	require.NoError(t, err)
	second, err := cache.Get(schema)
	require.NoError(t, err)

	assert.Same(t, first, second)
}
