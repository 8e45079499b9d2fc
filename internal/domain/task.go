// Package domain holds the core entities of the orchestration core: Task and
// its attachments, the status lattice, and the sort/filter vocabulary used by
// the repository.
package domain

import "time"

// Status is one node in the task lifecycle lattice. See transitions.go for
// the legal-transition graph.
type Status string

const (
	StatusTodo                       Status = "todo"
	StatusInProgress                 Status = "in_progress"
	StatusPendingEnhancement         Status = "pending_enhancement"
	StatusPendingComprehensionTest   Status = "pending_comprehension_test"
	StatusPendingFollowOn            Status = "pending_follow_on"
	StatusPendingDecomposition       Status = "pending_decomposition"
	StatusDecomposed                 Status = "decomposed"
	StatusOrchestrationComplete      Status = "orchestration_complete"
	StatusCompleted                  Status = "completed"
	StatusArchived                   Status = "archived"
)

// Task is the unit of work managed by the system.
type Task struct {
	ID       string
	Title    string
	Assignee string     // optional
	DueDate  *time.Time // optional

	Status Status

	SourceTranscriptID string // optional
	SourcePRDID        string // optional

	ParentTaskID string   // optional
	SubtaskIDs   []string // ordered

	Enhancements       []Enhancement       // ordered, append-only
	ComprehensionTests []ComprehensionTest // ordered, append-only

	Complexity   *int // optional, 1..10
	Reasoning    string
	ContextFiles []string
	Dependencies []string // task ids this task depends on

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers can mutate without aliasing slices
// held by the repository or an in-flight session Context.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Complexity != nil {
		v := *t.Complexity
		c.Complexity = &v
	}
	c.SubtaskIDs = append([]string(nil), t.SubtaskIDs...)
	c.Enhancements = append([]Enhancement(nil), t.Enhancements...)
	c.ComprehensionTests = append([]ComprehensionTest(nil), t.ComprehensionTests...)
	c.ContextFiles = append([]string(nil), t.ContextFiles...)
	c.Dependencies = append([]string(nil), t.Dependencies...)
	return c
}
