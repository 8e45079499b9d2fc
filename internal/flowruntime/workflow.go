package flowruntime

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// OrchestrationWorkflow implements the Router->Enhance->ComprehensionTest->
// CheckResult(retry)->Decompose|End graph (§4.6) as a Temporal workflow, the
// same shape the teacher's CortexAgentWorkflow uses for its PLAN->GATE->
// EXECUTE->REVIEW->HANDOFF->DOD->RECORD->ESCALATE sequence: named phases
// driven by workflow.ExecuteActivity with per-phase ActivityOptions.
func OrchestrationWorkflow(ctx workflow.Context, req SessionRequest) (SessionOutcome, error) {
	logger := workflow.GetLogger(ctx)

	routeOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	}
	nodeOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		HeartbeatTimeout:    20 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	}

	var a *Activities

	routeCtx := workflow.WithActivityOptions(ctx, routeOpts)
	var route routeResult
	if err := workflow.ExecuteActivity(routeCtx, a.RouterActivity, req).Get(ctx, &route); err != nil {
		return SessionOutcome{}, fmt.Errorf("router activity: %w", err)
	}
	logger.Info("task routed", "task_id", req.TaskID, "decision", route.Decision)

	switch route.Decision {
	case "decompose":
		nodeCtx := workflow.WithActivityOptions(ctx, nodeOpts)
		if err := workflow.ExecuteActivity(nodeCtx, a.DecomposeActivity, req).Get(ctx, nil); err != nil {
			return SessionOutcome{}, fmt.Errorf("decompose activity: %w", err)
		}
		return SessionOutcome{TaskID: req.TaskID, Ended: "decomposed"}, nil

	case "enhance":
		return runEnhanceLoop(ctx, a, nodeOpts, req, logger)

	default:
		return SessionOutcome{}, fmt.Errorf("no matching edge for routing decision %q", route.Decision)
	}
}

func runEnhanceLoop(ctx workflow.Context, a *Activities, nodeOpts workflow.ActivityOptions, req SessionRequest, logger interface {
	Info(string, ...interface{})
}) (SessionOutcome, error) {
	retryCount := 0

	for {
		nodeCtx := workflow.WithActivityOptions(ctx, nodeOpts)

		if err := workflow.ExecuteActivity(nodeCtx, a.EnhanceActivity, req).Get(ctx, nil); err != nil {
			return SessionOutcome{}, fmt.Errorf("enhance activity: %w", err)
		}
		if err := workflow.ExecuteActivity(nodeCtx, a.ComprehensionTestActivity, req).Get(ctx, nil); err != nil {
			return SessionOutcome{}, fmt.Errorf("comprehension test activity: %w", err)
		}

		var check checkResult
		if err := workflow.ExecuteActivity(nodeCtx, a.CheckResultActivity, req, retryCount).Get(ctx, &check); err != nil {
			return SessionOutcome{}, fmt.Errorf("check result activity: %w", err)
		}
		retryCount = check.RetryCount

		switch check.Decision {
		case "pass":
			if err := workflow.ExecuteActivity(nodeCtx, a.FinalizeActivity, req).Get(ctx, nil); err != nil {
				return SessionOutcome{}, fmt.Errorf("finalize activity: %w", err)
			}
			return SessionOutcome{TaskID: req.TaskID, Ended: "completed", RetryCount: retryCount}, nil
		case "fail":
			if retryCount >= MaxRetries {
				if err := workflow.ExecuteActivity(nodeCtx, a.FinalizeActivity, req).Get(ctx, nil); err != nil {
					return SessionOutcome{}, fmt.Errorf("finalize activity: %w", err)
				}
				return SessionOutcome{TaskID: req.TaskID, Ended: "failed", RetryCount: retryCount}, nil
			}
			logger.Info("comprehension check failed, retrying", "task_id", req.TaskID, "retry_count", retryCount)
			continue
		default:
			return SessionOutcome{}, fmt.Errorf("no matching edge for check_result decision %q", check.Decision)
		}
	}
}
