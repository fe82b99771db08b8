package discovery

import "github.com/vflowhq/workflow-engine/pkg/block"

// Reduce collapses the detailed consumer index down to entries whose
// SelectedElement satisfies filter. filter is mandatory: mixing
// flow-control consumers (SelectedElementStep) and data consumers
// (SelectedElementInput / SelectedElementStepOutput) into one
// compatibility table silently produces nonsensical edges, so a nil filter
// panics rather than defaulting to "everything".
func (idx *Index) Reduce(filter func(block.SelectedElement) bool) map[block.Kind][]ConsumerRef {
	if filter == nil {
		panic("discovery: Reduce requires a non-nil SelectedElement filter")
	}

	out := make(map[block.Kind][]ConsumerRef)
	for kind, refs := range idx.consumersByKind {
		for _, ref := range refs {
			if filter(ref.SelectedElement) {
				out[kind] = append(out[kind], ref)
			}
		}
	}
	return out
}

// DataConsumers is the filter used for ordinary value-producing
// compatibility tables: step-output and input consumers, never
// flow-control.
func DataConsumers(e block.SelectedElement) bool {
	return e == block.SelectedElementInput || e == block.SelectedElementStepOutput
}

// FlowControlConsumers is the filter used for branch-selection
// compatibility tables.
func FlowControlConsumers(e block.SelectedElement) bool {
	return e == block.SelectedElementStep
}

// Pair is one producer/consumer compatibility edge, used by tooling that
// wants a flat join rather than two separate indices.
type Pair struct {
	Producer string
	Consumer ConsumerRef
}

// CompatiblePairs joins producers and consumers of kind k. It is a thin
// convenience wrapper over ProducersOf/ConsumersOf — no new algorithm —
// kept here because UI/tooling callers otherwise have to do the join
// themselves at every call site.
func (idx *Index) CompatiblePairs(k block.Kind) []Pair {
	producers := idx.ProducersOf(k)
	consumers := idx.ConsumersOf(k)

	pairs := make([]Pair, 0, len(producers)*len(consumers))
	for _, producer := range producers {
		for _, consumer := range consumers {
			pairs = append(pairs, Pair{Producer: producer, Consumer: consumer})
		}
	}
	return pairs
}
