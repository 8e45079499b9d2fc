package flowruntime

import (
	"context"
	"fmt"
	"time"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/events"
	"github.com/arclight-dev/taskloom/internal/flownodes"
	"github.com/arclight-dev/taskloom/internal/store"
)

// Activities holds the dependencies Temporal activity methods close over —
// the store for task reload/persist, the node Deps bundle for the LLM
// ports, and the broadcaster events accumulated in a node call are
// replayed through.
type Activities struct {
	Store   *store.Store
	Deps    flownodes.Deps
	Emitter *events.Broadcaster
}

func (a *Activities) loadContext(taskID string, retryCount int) (flownodes.Context, error) {
	t, err := a.Store.FindOne(domain.ByID(taskID))
	if err != nil {
		return flownodes.Context{}, fmt.Errorf("load task %s: %w", taskID, err)
	}
	return flownodes.Context{Task: t, RetryCount: retryCount}, nil
}

func (a *Activities) publish(fc flownodes.Context) {
	for _, ev := range fc.Events {
		a.Emitter.Publish(events.Event{Type: ev.Type, TaskID: ev.TaskID, Payload: ev.Payload})
	}
}

// RouterActivity computes the routing decision for a task and returns it;
// it performs no writes (§4.6, Router has no side effects).
func (a *Activities) RouterActivity(ctx context.Context, req SessionRequest) (routeResult, error) {
	fc, err := a.loadContext(req.TaskID, 0)
	if err != nil {
		return routeResult{}, err
	}
	next, err := flownodes.Router(ctx, fc, a.Deps)
	if err != nil {
		return routeResult{}, err
	}
	a.publish(next)
	return routeResult{Decision: string(next.RoutingDecision)}, nil
}

// EnhanceActivity runs the Enhance node and persists its result through the
// node's own SaveTask dependency.
func (a *Activities) EnhanceActivity(ctx context.Context, req SessionRequest) error {
	fc, err := a.loadContext(req.TaskID, 0)
	if err != nil {
		return err
	}
	next, err := flownodes.Enhance(ctx, fc, a.Deps)
	if err != nil {
		return err
	}
	a.publish(next)
	return nil
}

// ComprehensionTestActivity runs the ComprehensionTest node.
func (a *Activities) ComprehensionTestActivity(ctx context.Context, req SessionRequest) error {
	fc, err := a.loadContext(req.TaskID, 0)
	if err != nil {
		return err
	}
	next, err := flownodes.ComprehensionTest(ctx, fc, a.Deps)
	if err != nil {
		return err
	}
	a.publish(next)
	return nil
}

// CheckResultActivity runs the CheckResult node and returns its decision
// plus updated retry counter for the workflow to branch on.
func (a *Activities) CheckResultActivity(ctx context.Context, req SessionRequest, retryCount int) (checkResult, error) {
	fc, err := a.loadContext(req.TaskID, retryCount)
	if err != nil {
		return checkResult{}, err
	}
	next, err := flownodes.CheckResult(ctx, fc, a.Deps)
	if err != nil {
		return checkResult{}, err
	}
	a.publish(next)
	return checkResult{Decision: string(next.RoutingDecision), RetryCount: next.RetryCount}, nil
}

// FinalizeActivity transitions the task to OrchestrationComplete and
// persists it (§4.7: both the pass terminal and the retries-exhausted
// terminal end the session at this status).
func (a *Activities) FinalizeActivity(ctx context.Context, req SessionRequest) error {
	fc, err := a.loadContext(req.TaskID, 0)
	if err != nil {
		return err
	}
	if _, err := fc.Task.TransitionTo(domain.StatusOrchestrationComplete, "", time.Now().UTC()); err != nil {
		return err
	}
	fc.Task.UpdatedAt = time.Now().UTC()
	if err := a.Deps.SaveTask(fc.Task); err != nil {
		return err
	}
	a.Emitter.Publish(events.Event{Type: "orchestration_complete", TaskID: fc.Task.ID})
	return nil
}

// DecomposeActivity runs the Decompose node.
func (a *Activities) DecomposeActivity(ctx context.Context, req SessionRequest) error {
	fc, err := a.loadContext(req.TaskID, 0)
	if err != nil {
		return err
	}
	next, err := flownodes.Decompose(ctx, fc, a.Deps)
	if err != nil {
		return err
	}
	a.publish(next)
	return nil
}
