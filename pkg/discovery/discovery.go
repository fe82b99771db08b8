// Package discovery computes registry-wide kind compatibility indices used
// by tooling (e.g. "which blocks can feed this one"): first a detailed
// index keyed by {BlockType, Property, SelectedElement}, then a
// caller-driven reduction to block-granularity tables via Reduce.
package discovery

import (
	"sort"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/schemaparse"
)

// ConsumerRef identifies one selector-typed manifest field on one block
// type, along with which kind of node it may reference.
type ConsumerRef struct {
	BlockType       string
	Property        string
	SelectedElement block.SelectedElement
}

// Index is the registry-wide connection map: which block types produce a
// given kind, and which {block type, property} pairs consume it.
type Index struct {
	producersByKind map[block.Kind]map[string]struct{}
	consumersByKind map[block.Kind][]ConsumerRef

	// allBlockTypes and allConsumers back the Wildcard query specifically:
	// the wildcard kind maps to every registered block and every selector
	// property, independent of what kinds those blocks or properties
	// actually declare (a wildcard-kind lookup means "anything goes", not
	// "whatever declares Wildcard literally").
	allBlockTypes map[string]struct{}
	allConsumers  []ConsumerRef
}

// Build walks every descriptor in registry and constructs the detailed
// indices. Outputs is manifest-sensitive (block.Descriptor.Outputs takes a
// concrete Manifest), but discovery runs at the registry level with no
// step instances to draw manifests from; Build evaluates Outputs against a
// representative manifest synthesized from each literal field's declared
// default (selector fields are left absent). Blocks whose declared outputs
// genuinely vary by selector-field values rather than literal defaults are
// therefore approximated for discovery purposes only — type checking
// itself always re-evaluates Outputs against the real per-step manifest
// and is unaffected by this approximation.
func Build(registry *block.Registry) (*Index, error) {
	idx := &Index{
		producersByKind: make(map[block.Kind]map[string]struct{}),
		consumersByKind: make(map[block.Kind][]ConsumerRef),
		allBlockTypes:   make(map[string]struct{}),
	}

	for _, descriptor := range registry.List() {
		schema := descriptor.Schema()
		parsed, err := schemaparse.Parse(schema)
		if err != nil {
			return nil, err
		}

		representative := representativeManifest(parsed)
		outputs, err := descriptor.Outputs(representative)
		if err != nil {
			return nil, err
		}

		blockType := descriptor.ManifestTypeID()
		idx.allBlockTypes[blockType] = struct{}{}

		for _, out := range outputs {
			for _, kind := range out.Kinds {
				idx.addProducer(kind, blockType)
			}
		}

		for _, spec := range parsed.Selectors {
			ref := ConsumerRef{BlockType: blockType, Property: spec.PropertyName}
			for _, allowed := range spec.AllowedReferences {
				ref.SelectedElement = allowed.SelectedElement
				idx.allConsumers = append(idx.allConsumers, ref)
				for _, kind := range allowed.Kinds {
					idx.addConsumer(kind, ref)
				}
			}
		}
	}

	return idx, nil
}

func representativeManifest(parsed *schemaparse.Parsed) block.Manifest {
	m := make(block.Manifest, len(parsed.LiteralFields))
	for _, field := range parsed.LiteralFields {
		m[field.Name] = field.Default
	}
	return m
}

func (idx *Index) addProducer(kind block.Kind, blockType string) {
	set, ok := idx.producersByKind[kind]
	if !ok {
		set = make(map[string]struct{})
		idx.producersByKind[kind] = set
	}
	set[blockType] = struct{}{}
}

func (idx *Index) addConsumer(kind block.Kind, ref ConsumerRef) {
	idx.consumersByKind[kind] = append(idx.consumersByKind[kind], ref)
}

// ProducersOf returns every block type that can feed a consumer of kind k.
// For a concrete kind, that is every block declaring that kind directly
// plus every block declaring a wildcard output (a wildcard producer
// satisfies any concrete consumer). For block.Wildcard itself, it is every
// registered block type, full stop — a wildcard-kind query means "any
// producer will do", not just the ones that happen to declare Wildcard
// literally.
func (idx *Index) ProducersOf(k block.Kind) []string {
	if k == block.Wildcard {
		result := make([]string, 0, len(idx.allBlockTypes))
		for bt := range idx.allBlockTypes {
			result = append(result, bt)
		}
		sort.Strings(result)
		return result
	}

	seen := make(map[string]struct{})
	for bt := range idx.producersByKind[k] {
		seen[bt] = struct{}{}
	}
	for bt := range idx.producersByKind[block.Wildcard] {
		seen[bt] = struct{}{}
	}

	result := make([]string, 0, len(seen))
	for bt := range seen {
		result = append(result, bt)
	}
	sort.Strings(result)
	return result
}

// ConsumersOf returns every {block type, property, selected element}
// consuming kind k. For a concrete kind, that includes selector fields
// declared with the wildcard kind (a wildcard consumer accepts any
// producer). For block.Wildcard itself, it is every selector property in
// the registry, regardless of its own declared allowed kinds — a
// wildcard-kind query means "any consumer will do".
func (idx *Index) ConsumersOf(k block.Kind) []ConsumerRef {
	if k == block.Wildcard {
		result := make([]ConsumerRef, len(idx.allConsumers))
		copy(result, idx.allConsumers)
		return result
	}

	var result []ConsumerRef
	result = append(result, idx.consumersByKind[k]...)
	result = append(result, idx.consumersByKind[block.Wildcard]...)
	return result
}
