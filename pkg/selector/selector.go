// Package selector parses and constructs the textual node references used
// throughout a workflow definition: $inputs.<name>, $steps.<name>, and
// $steps.<name>.<property>.
package selector

import (
	"fmt"
	"regexp"
	"strings"
)

// Form identifies which of the three selector shapes a string matches.
type Form int

const (
	// FormInvalid marks a string that did not parse as any selector form.
	FormInvalid Form = iota
	// FormInput is "$inputs.<name>".
	FormInput
	// FormStep is "$steps.<name>" with no trailing property — a pure
	// step reference, i.e. a flow-control selector.
	FormStep
	// FormStepOutput is "$steps.<name>.<property>".
	FormStepOutput
)

var (
	nameRE   = `[A-Za-z_][A-Za-z0-9_]*`
	inputRE  = regexp.MustCompile(`^\$inputs\.(` + nameRE + `)$`)
	stepRE   = regexp.MustCompile(`^\$steps\.(` + nameRE + `)(?:\.(` + nameRE + `))?$`)
)

// Selector is a parsed reference: its original text, its Form, the
// referenced node's name, and — for step-output selectors — the property
// on that step being referenced.
type Selector struct {
	Raw      string
	Form     Form
	Name     string
	Property string
}

// Parse classifies raw against the selector grammar. A string that matches
// neither the input nor step pattern yields a zero Selector with
// Form == FormInvalid and a non-nil error.
func Parse(raw string) (Selector, error) {
	if m := inputRE.FindStringSubmatch(raw); m != nil {
		return Selector{Raw: raw, Form: FormInput, Name: m[1]}, nil
	}
	if m := stepRE.FindStringSubmatch(raw); m != nil {
		if m[2] == "" {
			return Selector{Raw: raw, Form: FormStep, Name: m[1]}, nil
		}
		return Selector{Raw: raw, Form: FormStepOutput, Name: m[1], Property: m[2]}, nil
	}
	return Selector{Raw: raw}, fmt.Errorf("selector: %q does not match $inputs.<name> or $steps.<name>[.<property>]", raw)
}

// Valid reports whether raw matches the selector grammar, without
// constructing a Selector. Used by pkg/definition's custom validator tag.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// IsSelector reports whether value looks like a selector string at all
// (begins with "$"), as opposed to a literal manifest value. pkg/graph
// uses this to decide whether a manifest field value needs selector
// parsing.
func IsSelector(value string) bool {
	return strings.HasPrefix(value, "$")
}

// Target returns the node id that raw's parsed form addresses: for an
// input selector, the input node id; for a step or step-output selector,
// the step node id (target($steps.n.p) == $steps.n, per the graph
// constructor's edge-induction rule).
func (s Selector) Target() string {
	switch s.Form {
	case FormInput:
		return "$inputs." + s.Name
	case FormStep, FormStepOutput:
		return "$steps." + s.Name
	default:
		return ""
	}
}

// InputNodeID returns the canonical node id for a workflow input named n.
func InputNodeID(n string) string { return "$inputs." + n }

// StepNodeID returns the canonical node id for a step named n.
func StepNodeID(n string) string { return "$steps." + n }

// OutputNodeID returns the canonical node id for a workflow output named n.
func OutputNodeID(n string) string { return "out." + n }
