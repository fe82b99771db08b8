package graph

import "errors"

// ErrInvalidReference marks a selector that points at a node id not
// present in the graph (nonexistent input, step, or step-output property).
var ErrInvalidReference = errors.New("graph: selector references a nonexistent node")

// ErrUnexpectedStepReference marks a pure step selector ($steps.n with no
// trailing property) used on a manifest field whose schema does not permit
// SelectedElementStep — i.e. a flow-control reference on a property that
// isn't declared as one.
var ErrUnexpectedStepReference = errors.New("graph: step reference used on a property that does not permit flow control")

// ReferenceError carries the offending selector and node for
// ErrInvalidReference / ErrUnexpectedStepReference.
type ReferenceError struct {
	Node     string
	Property string
	Selector string
	Err      error
}

func (e *ReferenceError) Error() string {
	return e.Err.Error() + ": " + e.Node + "." + e.Property + " -> " + e.Selector
}

func (e *ReferenceError) Unwrap() error { return e.Err }
