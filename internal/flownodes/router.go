package flownodes

import (
	"context"

	"github.com/arclight-dev/taskloom/internal/routing"
)

// Router reads the task and computes triage, writing RoutingDecision. No
// external I/O (§4.6).
func Router(_ context.Context, fc Context, _ Deps) (Context, error) {
	next := fc.Clone()
	next.RoutingDecision = routing.Classify(next.Task)
	next.emit("routed", map[string]string{"decision": string(next.RoutingDecision)})
	return next, nil
}
