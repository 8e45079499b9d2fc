// Package flowruntime wires the pure graph nodes in internal/flownodes into
// two executors: a pure in-memory GraphRunner used by tests and the
// deterministic-fallback reproducibility property (§8), and a Temporal
// workflow used in production (workflow.go, activities.go, worker.go).
package flowruntime

import (
	"context"
	"fmt"
	"time"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/flownodes"
	"github.com/arclight-dev/taskloom/internal/routing"
)

// NodeFailedError wraps a node function's error with the node's name, per
// the FlowError.NodeFailed category (§7).
type NodeFailedError struct {
	Node  string
	Cause error
}

func (e *NodeFailedError) Error() string { return fmt.Sprintf("flow node %q failed: %v", e.Node, e.Cause) }
func (e *NodeFailedError) Unwrap() error  { return e.Cause }

// NoMatchingEdgeError is returned when a RoutingDecision has no outgoing
// edge defined in the graph (§7, FlowError.NoMatchingEdge).
type NoMatchingEdgeError struct {
	Node     string
	Decision routing.Decision
}

func (e *NoMatchingEdgeError) Error() string {
	return fmt.Sprintf("no edge from node %q for decision %q", e.Node, e.Decision)
}

// MaxRetries bounds the Enhance/ComprehensionTest/CheckResult retry loop
// (§4.6: the session fails the task after repeated comprehension-test
// rejections rather than looping forever).
const MaxRetries = 3

// GraphRunner drives the Router->Enhance->ComprehensionTest->CheckResult
// (retry)->Decompose|End graph to completion in-process, with no Temporal
// dependency. It is the executor this package's own tests exercise, and
// the one used to assert run(T) is a pure function of (T, config) (§8).
type GraphRunner struct {
	Deps flownodes.Deps
}

// Result is the terminal outcome of a single session run.
type Result struct {
	Context flownodes.Context
	Ended   string // "decomposed", "completed", "failed"
}

// Run drives fc through the graph until it reaches a terminal node
// (Decompose, or CheckResult with Pass, or retries exhausted).
func (r GraphRunner) Run(ctx context.Context, fc flownodes.Context) (Result, error) {
	next, err := flownodes.Router(ctx, fc, r.Deps)
	if err != nil {
		return Result{}, &NodeFailedError{Node: "router", Cause: err}
	}

	switch next.RoutingDecision {
	case routing.DecisionDecompose:
		next, err = flownodes.Decompose(ctx, next, r.Deps)
		if err != nil {
			return Result{}, &NodeFailedError{Node: "decompose", Cause: err}
		}
		return Result{Context: next, Ended: "decomposed"}, nil

	case routing.DecisionEnhance:
		return r.runEnhanceLoop(ctx, next)

	default:
		return Result{}, &NoMatchingEdgeError{Node: "router", Decision: next.RoutingDecision}
	}
}

func (r GraphRunner) runEnhanceLoop(ctx context.Context, fc flownodes.Context) (Result, error) {
	next := fc
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		var err error
		next, err = flownodes.Enhance(ctx, next, r.Deps)
		if err != nil {
			return Result{}, &NodeFailedError{Node: "enhance", Cause: err}
		}

		next, err = flownodes.ComprehensionTest(ctx, next, r.Deps)
		if err != nil {
			return Result{}, &NodeFailedError{Node: "comprehension_test", Cause: err}
		}

		next, err = flownodes.CheckResult(ctx, next, r.Deps)
		if err != nil {
			return Result{}, &NodeFailedError{Node: "check_result", Cause: err}
		}

		switch next.RoutingDecision {
		case routing.DecisionPass:
			final, err := finalizeOrchestrationComplete(next, r.Deps)
			if err != nil {
				return Result{}, &NodeFailedError{Node: "check_result", Cause: err}
			}
			return Result{Context: final, Ended: "completed"}, nil
		case routing.DecisionFail:
			if next.RetryCount >= MaxRetries {
				final, err := finalizeOrchestrationComplete(next, r.Deps)
				if err != nil {
					return Result{}, &NodeFailedError{Node: "check_result", Cause: err}
				}
				return Result{Context: final, Ended: "failed"}, nil
			}
			continue
		default:
			return Result{}, &NoMatchingEdgeError{Node: "check_result", Decision: next.RoutingDecision}
		}
	}
}

// finalizeOrchestrationComplete transitions the task to
// OrchestrationComplete and persists it (§4.7: both the pass terminal and
// the retries-exhausted terminal end the session at this status; only
// Result.Ended distinguishes them).
func finalizeOrchestrationComplete(fc flownodes.Context, deps flownodes.Deps) (flownodes.Context, error) {
	next := fc
	if _, err := next.Task.TransitionTo(domain.StatusOrchestrationComplete, "", time.Now().UTC()); err != nil {
		return fc, err
	}
	next.Task.UpdatedAt = time.Now().UTC()
	if err := deps.SaveTask(next.Task); err != nil {
		return fc, err
	}
	next.Events = append(next.Events, flownodes.Event{Type: "orchestration_complete", TaskID: next.Task.ID})
	return next, nil
}
