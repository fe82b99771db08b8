package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/definition"
	"github.com/vflowhq/workflow-engine/pkg/schemaparse"
	"github.com/vflowhq/workflow-engine/pkg/selector"
	"github.com/vflowhq/workflow-engine/pkg/typecheck"
)

// Builder constructs a Graph from a parsed WorkflowDefinition against a
// block registry. The builder owns the multi-pass construction algorithm;
// the Graph it produces is a plain, immutable data structure.
type Builder struct {
	def      *definition.WorkflowDefinition
	registry *block.Registry
	schemas  *schemaparse.Cache
}

// NewBuilder creates a Builder for def against registry. registry should
// be sealed before Build is called so concurrent compilations against it
// are safe.
func NewBuilder(def *definition.WorkflowDefinition, registry *block.Registry) *Builder {
	return &Builder{
		def:      def,
		registry: registry,
		schemas:  schemaparse.NewCache(),
	}
}

// Build runs the three node-construction passes (inputs, steps, outputs)
// followed by edge induction, type checking each data edge as it is
// induced and recording flow-control edges separately. It does not run
// the structural checks (cycles, reachability, branch isolation) — those
// operate on the returned Graph and are invoked by pkg/compiler.
func (b *Builder) Build(ctx context.Context) (*Graph, error) {
	g := newGraph()

	if err := b.addInputNodes(g); err != nil {
		return nil, err
	}
	stepDescriptors, err := b.addStepNodes(g)
	if err != nil {
		return nil, err
	}
	if err := b.addOutputNodes(g); err != nil {
		return nil, err
	}
	if err := b.addStepEdges(g, stepDescriptors); err != nil {
		return nil, err
	}
	if err := b.addOutputEdges(g); err != nil {
		return nil, err
	}

	return g, nil
}

func (b *Builder) addInputNodes(g *Graph) error {
	for _, in := range b.def.Inputs {
		g.addNode(&Node{
			ID:        selector.InputNodeID(in.Name),
			Kind:      NodeInput,
			InputKind: block.Kind(in.Kind),
		})
	}
	return nil
}

func (b *Builder) addStepNodes(g *Graph) (map[string]block.Descriptor, error) {
	descriptors := make(map[string]block.Descriptor, len(b.def.Steps))

	for _, step := range b.def.Steps {
		descriptor, err := b.registry.Get(step.Type)
		if err != nil {
			return nil, fmt.Errorf("graph: step %q: %w", step.Name, err)
		}

		manifest := block.Manifest(step.Fields)
		outputs, err := descriptor.Outputs(manifest)
		if err != nil {
			return nil, fmt.Errorf("graph: step %q: computing outputs: %w", step.Name, err)
		}

		id := selector.StepNodeID(step.Name)
		g.addNode(&Node{
			ID:       id,
			Kind:     NodeStep,
			StepType: step.Type,
			Manifest: manifest,
			Outputs:  outputs,
		})
		descriptors[id] = descriptor
	}

	return descriptors, nil
}

func (b *Builder) addOutputNodes(g *Graph) error {
	for _, out := range b.def.Outputs {
		g.addNode(&Node{
			ID:             selector.OutputNodeID(out.Name),
			Kind:           NodeOutput,
			OutputSelector: out.Selector,
		})
	}
	return nil
}

// addStepEdges induces a data or flow-control edge for every selector
// field on every step.
func (b *Builder) addStepEdges(g *Graph, descriptors map[string]block.Descriptor) error {
	for _, step := range b.def.Steps {
		stepID := selector.StepNodeID(step.Name)
		descriptor := descriptors[stepID]

		parsed, err := b.schemas.Get(descriptor.Schema())
		if err != nil {
			return err
		}

		if err := b.validateLiteralFields(stepID, step, parsed); err != nil {
			return err
		}

		properties := make([]string, 0, len(parsed.Selectors))
		for prop := range parsed.Selectors {
			properties = append(properties, prop)
		}
		sort.Strings(properties)

		for _, property := range properties {
			spec := parsed.Selectors[property]

			raw, ok := fieldAsString(step.Fields[property])
			if !ok {
				continue
			}

			sel, err := selector.Parse(raw)
			if err != nil {
				return &ReferenceError{Node: stepID, Property: property, Selector: raw, Err: ErrInvalidReference}
			}

			switch sel.Form {
			case selector.FormInput, selector.FormStepOutput:
				if err := b.addDataEdge(g, stepID, property, spec, sel); err != nil {
					return err
				}
			case selector.FormStep:
				if err := b.addFlowControlEdge(g, stepID, property, spec, sel); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validateLiteralFields checks every non-selector manifest field against
// its schema-declared Required/Rules. A field value supplied
// as a selector string is skipped here; literal-typed fields never accept
// selectors, so a selector string in a literal slot is left for the field
// to fail naturally when the descriptor's own logic consumes it.
func (b *Builder) validateLiteralFields(stepID string, step definition.Step, parsed *schemaparse.Parsed) error {
	for _, field := range parsed.LiteralFields {
		value, present := step.Fields[field.Name]
		if !present {
			if field.Required {
				return &definition.Error{Cause: fmt.Errorf("step %q: missing required field %q", stepID, field.Name)}
			}
			continue
		}
		if s, ok := value.(string); ok && selector.IsSelector(s) {
			continue
		}
		if err := block.ValidateLiteral(field.Name, value, field.Rules); err != nil {
			return &definition.Error{Cause: fmt.Errorf("step %q: %w", stepID, err)}
		}
	}
	return nil
}

func (b *Builder) addDataEdge(g *Graph, stepID, property string, spec schemaparse.SelectorSpec, sel selector.Selector) error {
	target := sel.Target()
	targetNode := g.Node(target)
	if targetNode == nil {
		return &ReferenceError{Node: stepID, Property: property, Selector: sel.Raw, Err: ErrInvalidReference}
	}

	var selectedElement block.SelectedElement
	var actual block.KindSet
	if sel.Form == selector.FormInput {
		if targetNode.Kind != NodeInput {
			return &ReferenceError{Node: stepID, Property: property, Selector: sel.Raw, Err: ErrInvalidReference}
		}
		selectedElement = block.SelectedElementInput
		actual = block.KindSet{targetNode.InputKind}
	} else {
		if targetNode.Kind != NodeStep {
			return &ReferenceError{Node: stepID, Property: property, Selector: sel.Raw, Err: ErrInvalidReference}
		}
		selectedElement = block.SelectedElementStepOutput
		found := false
		for _, out := range targetNode.Outputs {
			if out.Name == sel.Property {
				actual = out.Kinds
				found = true
				break
			}
		}
		if !found {
			return &ReferenceError{Node: stepID, Property: property, Selector: sel.Raw, Err: ErrInvalidReference}
		}
	}

	expected := expectedKinds(spec, selectedElement)
	if mismatch := typecheck.Check(stepID, property, sel.Raw, expected, actual); mismatch != nil {
		return mismatch
	}

	g.addEdge(&Edge{From: target, To: stepID})
	g.PerStepInputs[stepID] = append(g.PerStepInputs[stepID], ResolvedInput{
		Property: property,
		Selector: sel.Raw,
		Producer: target,
	})
	return nil
}

func (b *Builder) addFlowControlEdge(g *Graph, stepID, property string, spec schemaparse.SelectorSpec, sel selector.Selector) error {
	target := sel.Target()
	targetNode := g.Node(target)
	if targetNode == nil || targetNode.Kind != NodeStep {
		return &ReferenceError{Node: stepID, Property: property, Selector: sel.Raw, Err: ErrInvalidReference}
	}

	permitted := false
	for _, ref := range spec.AllowedReferences {
		if ref.SelectedElement == block.SelectedElementStep {
			permitted = true
			break
		}
	}
	if !permitted {
		return &ReferenceError{Node: stepID, Property: property, Selector: sel.Raw, Err: ErrUnexpectedStepReference}
	}

	g.addEdge(&Edge{From: stepID, To: target, FlowControl: true})
	g.Node(stepID).IsFlowControl = true
	g.PerStepFlowSuccessors[stepID] = append(g.PerStepFlowSuccessors[stepID], target)
	return nil
}

func (b *Builder) addOutputEdges(g *Graph) error {
	for _, out := range b.def.Outputs {
		sel, err := selector.Parse(out.Selector)
		if err != nil {
			return &ReferenceError{Node: selector.OutputNodeID(out.Name), Selector: out.Selector, Err: ErrInvalidReference}
		}
		target := sel.Target()
		if g.Node(target) == nil {
			return &ReferenceError{Node: selector.OutputNodeID(out.Name), Selector: out.Selector, Err: ErrInvalidReference}
		}
		g.addEdge(&Edge{From: target, To: selector.OutputNodeID(out.Name)})
	}
	return nil
}

func expectedKinds(spec schemaparse.SelectorSpec, selectedElement block.SelectedElement) block.KindSet {
	var expected block.KindSet
	for _, ref := range spec.AllowedReferences {
		if ref.SelectedElement == selectedElement {
			expected = append(expected, ref.Kinds...)
		}
	}
	return expected
}

func fieldAsString(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok || !selector.IsSelector(s) {
		return "", false
	}
	return s, true
}
