package flowruntime

// SessionRequest starts an OrchestrationWorkflow run for a single task.
type SessionRequest struct {
	TaskID string `json:"task_id"`
}

// SessionOutcome is the terminal result a workflow returns to its caller.
type SessionOutcome struct {
	TaskID     string `json:"task_id"`
	Ended      string `json:"ended"` // "decomposed", "completed", "failed"
	RetryCount int    `json:"retry_count"`
}

// routeResult is RouterActivity's return value: only the decision
// computed against the persisted task, so downstream activities
// re-load the task themselves rather than ferry the whole struct (and its
// possibly-stale copy) through the workflow.
type routeResult struct {
	Decision string `json:"decision"`
}

// checkResult is CheckResultActivity's return value.
type checkResult struct {
	Decision   string `json:"decision"`
	RetryCount int    `json:"retry_count"`
}
