package flowruntime

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// TaskQueue is the Temporal task queue orchestration sessions run on.
const TaskQueue = "taskloom-orchestration"

// StartWorker connects to Temporal and runs the orchestration worker,
// grounded on the teacher's StartWorker (internal/temporal/worker.go):
// dial, register the workflow and the caller-built Activities' methods,
// block on worker.InterruptCh().
func StartWorker(hostPort string, acts *Activities) error {
	c, err := client.Dial(client.Options{HostPort: hostPort})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	w := worker.New(c, TaskQueue, worker.Options{})

	w.RegisterWorkflow(OrchestrationWorkflow)
	w.RegisterActivity(acts.RouterActivity)
	w.RegisterActivity(acts.EnhanceActivity)
	w.RegisterActivity(acts.ComprehensionTestActivity)
	w.RegisterActivity(acts.CheckResultActivity)
	w.RegisterActivity(acts.DecomposeActivity)
	w.RegisterActivity(acts.FinalizeActivity)

	return w.Run(worker.InterruptCh())
}
