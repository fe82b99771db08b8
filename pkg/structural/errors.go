package structural

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle, ErrDanglingBranch, and ErrBranchesClash are the sentinels each
// typed error below wraps, so pkg/compiler can classify a failure with
// errors.Is without depending on the concrete error shape.
var (
	ErrCycle          = errors.New("structural: graph contains a cycle")
	ErrDanglingBranch = errors.New("structural: one or more nodes cannot reach any terminal")
	ErrBranchesClash  = errors.New("structural: multi-parent step violates branch isolation")
)

// CycleError names the nodes on a detected cycle.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("structural: cycle through %s", strings.Join(e.Nodes, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// DanglingBranchError names every node that cannot reach a terminal node.
type DanglingBranchError struct {
	Nodes []string
}

func (e *DanglingBranchError) Error() string {
	return fmt.Sprintf("structural: nodes do not reach a terminal: %s", strings.Join(e.Nodes, ", "))
}

func (e *DanglingBranchError) Unwrap() error { return ErrDanglingBranch }

// BranchesClashError names the step at which two hazards can occur: the
// same flow-control step's branches converging (Hazard 1), or two
// different flow-control steps' branches converging (Hazard 2).
type BranchesClashError struct {
	Node             string
	FlowControlSteps []string
	Hazard           int
}

func (e *BranchesClashError) Error() string {
	return fmt.Sprintf("structural: %s merges branches from %s (hazard %d)", e.Node, strings.Join(e.FlowControlSteps, ", "), e.Hazard)
}

func (e *BranchesClashError) Unwrap() error { return ErrBranchesClash }
