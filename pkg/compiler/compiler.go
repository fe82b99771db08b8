// Package compiler is the single entry point gluing the definition
// parser, graph constructor, type checker, structural validator, and plan
// assembly together into one staged compile pipeline.
package compiler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/compilerr"
	"github.com/vflowhq/workflow-engine/pkg/definition"
	"github.com/vflowhq/workflow-engine/pkg/graph"
	"github.com/vflowhq/workflow-engine/pkg/plan"
	"github.com/vflowhq/workflow-engine/pkg/structural"
	"github.com/vflowhq/workflow-engine/pkg/typecheck"
)

// CompileOptions configures one Compile call. DebugLog, if non-nil, is
// called with a structured event after each stage; this is instrumentation
// supplied by the caller, not I/O the compiler initiates on its own, so a
// nil DebugLog (the default) produces zero log calls and does not violate
// the compiler's no-I/O invariant.
type CompileOptions struct {
	DebugLog *zerolog.Logger
}

// Compile parses raw workflow JSON, builds and validates the execution
// graph against registry, and assembles the resulting plan.Compiled.
// Compilation fails on the first fatal error, which Compile classifies
// into a *compilerr.Error so a caller across a process boundary never has
// to depend on pkg/graph, pkg/typecheck, or pkg/structural's own error
// types.
func Compile(ctx context.Context, raw []byte, registry *block.Registry, opts *CompileOptions) (*plan.Compiled, error) {
	if opts == nil {
		opts = &CompileOptions{}
	}

	def, err := stage(opts, "parse_definition", func() (*definition.WorkflowDefinition, error) {
		return definition.Parse(raw)
	})
	if err != nil {
		return nil, classify(err)
	}

	g, err := stage(opts, "build_graph", func() (*graph.Graph, error) {
		return graph.NewBuilder(def, registry).Build(ctx)
	})
	if err != nil {
		return nil, classify(err)
	}

	if _, err := stage(opts, "structural_validate", func() (struct{}, error) {
		return struct{}{}, structural.Validate(g)
	}); err != nil {
		return nil, classify(err)
	}

	compiled, err := stage(opts, "assemble_plan", func() (*plan.Compiled, error) {
		return plan.FromGraph(g)
	})
	if err != nil {
		return nil, classify(err)
	}

	return compiled, nil
}

func stage[T any](opts *CompileOptions, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	if opts.DebugLog != nil {
		event := opts.DebugLog.Debug().Str("stage", name).Dur("elapsed", time.Since(start))
		if err != nil {
			event.Err(err).Msg("compile stage failed")
		} else {
			event.Msg("compile stage ok")
		}
	}
	return result, err
}

// classify maps a leaf package's sentinel-wrapped error into a
// *compilerr.Error, checked in taxonomy order from most to least specific.
func classify(err error) *compilerr.Error {
	var existing *compilerr.Error
	if errors.As(err, &existing) {
		return existing
	}

	var defErr *definition.Error
	if errors.As(err, &defErr) {
		return &compilerr.Error{
			Kind:          compilerr.KindDefinition,
			PublicMessage: "workflow definition violates its schema",
			Cause:         err,
		}
	}

	var refErr *graph.ReferenceError
	if errors.As(err, &refErr) {
		kind := compilerr.KindInvalidReference
		if errors.Is(refErr.Err, graph.ErrUnexpectedStepReference) {
			kind = compilerr.KindStructure
		}
		return &compilerr.Error{
			Kind:          kind,
			PublicMessage: "selector does not resolve to a valid node",
			Node:          []string{refErr.Node},
			Selector:      refErr.Selector,
			Cause:         err,
		}
	}

	var mismatch *typecheck.Mismatch
	if errors.As(err, &mismatch) {
		return &compilerr.Error{
			Kind:          compilerr.KindTypeMismatch,
			PublicMessage: "producer kinds disjoint from consumer allowed kinds",
			Node:          []string{mismatch.Consumer},
			Selector:      mismatch.Selector,
			Expected:      kindStrings(mismatch.Expected),
			Actual:        kindStrings(mismatch.Actual),
			Cause:         err,
		}
	}

	var cycleErr *structural.CycleError
	if errors.As(err, &cycleErr) {
		return &compilerr.Error{
			Kind:          compilerr.KindCycle,
			PublicMessage: "graph contains a cycle",
			Node:          cycleErr.Nodes,
			Cause:         err,
		}
	}

	var danglingErr *structural.DanglingBranchError
	if errors.As(err, &danglingErr) {
		return &compilerr.Error{
			Kind:          compilerr.KindDanglingBranch,
			PublicMessage: "one or more nodes do not reach a terminal",
			Node:          danglingErr.Nodes,
			Cause:         err,
		}
	}

	var clashErr *structural.BranchesClashError
	if errors.As(err, &clashErr) {
		return &compilerr.Error{
			Kind:          compilerr.KindBranchesClash,
			PublicMessage: "step violates branch isolation",
			Node:          append([]string{clashErr.Node}, clashErr.FlowControlSteps...),
			Cause:         err,
		}
	}

	return &compilerr.Error{
		Kind:          compilerr.KindSchema,
		PublicMessage: "compilation failed",
		Cause:         err,
	}
}

func kindStrings(ks block.KindSet) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}
