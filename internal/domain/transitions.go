package domain

import (
	"fmt"
	"time"
)

// legalTransitions is the adjacency table for the status lattice in §4.8.
// Keyed by source status; value is the set of statuses reachable by one
// transition. "Any state" rules are expanded explicitly rather than encoded
// as a wildcard, so the table is the single source of truth a reviewer can
// read top to bottom.
var legalTransitions = map[Status]map[Status]bool{
	StatusTodo: {
		StatusInProgress:           true,
		StatusPendingDecomposition: true,
		StatusArchived:             true,
	},
	StatusInProgress: {
		StatusPendingEnhancement:   true,
		StatusPendingDecomposition: true,
		StatusArchived:             true,
	},
	StatusPendingEnhancement: {
		StatusPendingComprehensionTest: true,
		StatusPendingDecomposition:     true,
		StatusArchived:                 true,
	},
	StatusPendingComprehensionTest: {
		StatusPendingFollowOn:       true,
		StatusOrchestrationComplete: true,
		StatusPendingDecomposition:  true,
		StatusArchived:              true,
	},
	StatusPendingFollowOn: {
		StatusPendingDecomposition: true,
		StatusArchived:             true,
	},
	StatusPendingDecomposition: {
		StatusDecomposed: true,
		StatusArchived:   true,
	},
	StatusDecomposed: {
		StatusCompleted: true,
		StatusArchived:  true,
	},
	StatusOrchestrationComplete: {
		StatusCompleted: true,
		StatusArchived:  true,
	},
	StatusCompleted: {
		StatusArchived: true,
	},
	StatusArchived: {},
}

// CanTransition reports whether from -> to is a legal single-step edge in
// the status lattice.
func CanTransition(from, to Status) bool {
	edges, ok := legalTransitions[from]
	if !ok {
		return false
	}
	return edges[to]
}

// ErrIllegalTransition is returned by Task.TransitionTo for an edge not
// present in the lattice.
type ErrIllegalTransition struct {
	From, To Status
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}

// TransitionTo validates and applies a status change, returning the
// TaskRevision record the caller should persist alongside the task. It does
// not touch UpdatedAt; callers stamp that at the point of save so revisions
// and the task row agree on the instant.
func (t *Task) TransitionTo(to Status, note string, at time.Time) (TaskRevision, error) {
	from := t.Status
	if !CanTransition(from, to) {
		return TaskRevision{}, &ErrIllegalTransition{From: from, To: to}
	}
	t.Status = to
	return TaskRevision{
		TaskID:     t.ID,
		At:         at,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
	}, nil
}
