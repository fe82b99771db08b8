// Package definition decodes and validates the workflow JSON document
// before any graph construction is attempted, checking structural shape
// with go-playground/validator/v10 struct tags instead of hand written
// field-by-field checks.
package definition

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vflowhq/workflow-engine/pkg/selector"
)

// Input declares one workflow input: a name and its kind.
type Input struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"required"`
}

// Step declares one workflow step: its name, its block type, and the raw
// manifest fields beyond name/type. Fields is populated from whatever JSON
// keys remain once name and type are extracted; pkg/graph hands it to the
// step's block.Descriptor for schema-driven interpretation.
type Step struct {
	Name   string
	Type   string
	Fields map[string]interface{}
}

// Output projects one step result into the workflow's named result map.
type Output struct {
	Name     string `json:"name" validate:"required"`
	Selector string `json:"selector" validate:"required,selector"`
}

// WorkflowDefinition is the normalized {inputs[], steps[], outputs[]} shape
// of the workflow JSON document.
type WorkflowDefinition struct {
	Inputs  []Input
	Steps   []Step
	Outputs []Output
}

// Error reports a WorkflowDefinition that violates its schema.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("definition: %v", e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("selector", func(fl validator.FieldLevel) bool {
		return selector.Valid(fl.Field().String())
	})
	return v
}

// Parse decodes raw JSON into a WorkflowDefinition and validates its shape.
// Structural problems (missing names, malformed selectors on outputs,
// empty inputs/steps) are reported as *Error before any graph construction
// begins.
func Parse(raw []byte) (*WorkflowDefinition, error) {
	var wire wireDefinition
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &Error{Cause: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := validate.Struct(&wire); err != nil {
		return nil, &Error{Cause: err}
	}

	def := &WorkflowDefinition{
		Inputs:  wire.Inputs,
		Outputs: wire.Outputs,
	}
	for _, s := range wire.Steps {
		def.Steps = append(def.Steps, s.toStep())
	}

	return def, nil
}

// wireDefinition mirrors WorkflowDefinition but with Steps decoded via
// wireStep so each step's manifest fields can be captured alongside its
// name/type.
type wireDefinition struct {
	Inputs  []Input    `json:"inputs" validate:"required,min=1,dive"`
	Steps   []wireStep `json:"steps" validate:"required,min=1,dive"`
	Outputs []Output   `json:"outputs" validate:"dive"`
}

type wireStep struct {
	Name   string                 `json:"name" validate:"required"`
	Type   string                 `json:"type" validate:"required"`
	Fields map[string]interface{} `json:"-"`
}

func (w *wireStep) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if name, ok := raw["name"].(string); ok {
		w.Name = name
	}
	if typ, ok := raw["type"].(string); ok {
		w.Type = typ
	}
	delete(raw, "name")
	delete(raw, "type")
	w.Fields = raw
	return nil
}

func (w wireStep) toStep() Step {
	return Step{Name: w.Name, Type: w.Type, Fields: w.Fields}
}
