// Package flownodes implements the five pure graph nodes of the
// orchestration graph (§4.6): Router, Enhance, ComprehensionTest,
// CheckResult, Decompose.
package flownodes

import (
	"context"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/routing"
)

// Event is a lifecycle event a node appends to the Context's buffer. The
// Temporal activities in flowruntime publish this buffer to the event
// broadcaster after each node call; GraphRunner leaves it on the returned
// Context and publishes nothing.
type Event struct {
	Type    string
	TaskID  string
	Payload map[string]string
}

// Context is the mutable state threaded through the orchestration graph.
// All node mutations are visible only through the returned Context; nodes
// never mutate a Context in place.
type Context struct {
	Task            domain.Task
	RoutingDecision routing.Decision
	RetryCount      int
	Events          []Event

	// Revisions accumulates TaskRevision records a node produced this call.
	// Neither executor persists them; the orchestrator records revisions
	// from its own SaveTask hook instead.
	Revisions []domain.TaskRevision

	// recentQuestions is the CheckResult de-duplication window: the last
	// two previously-generated questions, oldest first.
	recentQuestions []string
}

// Clone returns a deep-enough copy for a node to mutate safely.
func (c Context) Clone() Context {
	cp := c
	cp.Task = c.Task.Clone()
	cp.Events = append([]Event(nil), c.Events...)
	cp.Revisions = nil // each node call reports only its own new revisions
	cp.recentQuestions = append([]string(nil), c.recentQuestions...)
	return cp
}

func (c *Context) emit(eventType string, payload map[string]string) {
	c.Events = append(c.Events, Event{Type: eventType, TaskID: c.Task.ID, Payload: payload})
}

// Deps bundles every external capability a node needs, built by the caller
// of the flow runtime and passed to each node call — nodes never
// read ambient global state (§9).
type Deps struct {
	Enhancer   enhancerPort
	Tester     testerPort
	Decomposer decomposerPort
	SaveTask   func(domain.Task) error
	SaveChildren func([]domain.Task) error
}

// The port aliases below keep flownodes decoupled from llmadapter's
// concrete package so this package's tests can supply fakes without
// importing an HTTP-capable adapter.
type enhancerPort interface {
	GenerateEnhancement(ctx context.Context, t domain.Task) (domain.Enhancement, error)
}

type testerPort interface {
	GenerateComprehensionTest(ctx context.Context, t domain.Task, kind domain.ComprehensionTestType) (domain.ComprehensionTest, error)
}

type decomposerPort interface {
	DecomposeTask(ctx context.Context, t domain.Task) ([]domain.Task, error)
}
