// Package schemaparse walks a block's manifest schema and separates its
// selector-typed fields from its literal fields. The schema here is
// already a data-driven block.ManifestSchema rather than something
// reflected out of Go struct tags.
package schemaparse

import "github.com/vflowhq/workflow-engine/pkg/block"

// Parsed is the output of parsing one block's manifest schema: selector
// fields keyed by property name, plus the literal fields in declaration
// order.
type Parsed struct {
	ManifestTypeID string
	Selectors      map[string]SelectorSpec
	LiteralFields  []block.FieldSpec
}

// SelectorSpec names one selector-typed manifest field and the kinds of
// node it may reference.
type SelectorSpec struct {
	PropertyName      string
	AllowedReferences []block.AllowedReference
}

// SchemaError reports a malformed manifest schema: a selector field with
// no allowed references, an allowed reference naming no kinds, or an
// allowed reference naming a kind outside the closed catalog.
type SchemaError struct {
	ManifestTypeID string
	Field          string
	Reason         string
}

func (e *SchemaError) Error() string {
	return "schemaparse: " + e.ManifestTypeID + "." + e.Field + ": " + e.Reason
}

// Parse walks schema field by field. A field whose Kind is
// block.FieldKindSelector becomes a SelectorSpec; every other field is
// collected as-is into LiteralFields. Parse fails with *SchemaError if a
// selector field declares zero AllowedReferences, if any AllowedReference
// names zero Kinds, or if any named Kind falls outside the closed kind
// catalog (block.IsKnownKind) — a typo'd kind name fails fast at parse
// time instead of silently never matching anything at type-check time.
func Parse(schema block.ManifestSchema) (*Parsed, error) {
	out := &Parsed{
		ManifestTypeID: schema.ManifestTypeID,
		Selectors:      make(map[string]SelectorSpec),
	}

	for _, field := range schema.Fields {
		if field.Kind != block.FieldKindSelector {
			out.LiteralFields = append(out.LiteralFields, field)
			continue
		}

		if len(field.AllowedReferences) == 0 {
			return nil, &SchemaError{
				ManifestTypeID: schema.ManifestTypeID,
				Field:          field.Name,
				Reason:         "selector field declares no allowed references",
			}
		}
		for _, ref := range field.AllowedReferences {
			if len(ref.Kinds) == 0 {
				return nil, &SchemaError{
					ManifestTypeID: schema.ManifestTypeID,
					Field:          field.Name,
					Reason:         "allowed reference declares no kinds",
				}
			}
			for _, kind := range ref.Kinds {
				if !block.IsKnownKind(kind) {
					return nil, &SchemaError{
						ManifestTypeID: schema.ManifestTypeID,
						Field:          field.Name,
						Reason:         "allowed reference names unknown kind " + string(kind),
					}
				}
			}
		}

		out.Selectors[field.Name] = SelectorSpec{
			PropertyName:      field.Name,
			AllowedReferences: field.AllowedReferences,
		}
	}

	return out, nil
}
