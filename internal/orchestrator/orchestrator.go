// Package orchestrator is the single construction point wiring the
// provider factory and the flow runtime to the task repository (§2, §EXP-4):
// the façade a presentation surface (CLI, TUI, RPC shim) calls into, never
// the flow nodes or the store directly.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/events"
	"github.com/arclight-dev/taskloom/internal/flownodes"
	"github.com/arclight-dev/taskloom/internal/flowruntime"
	"github.com/arclight-dev/taskloom/internal/prdparse"
	"github.com/arclight-dev/taskloom/internal/providers"
	"github.com/arclight-dev/taskloom/internal/store"
)

// Orchestrator wires everything a task needs to move through the system:
// the repository, the role-keyed adapter factory, and the event
// broadcaster. Grounded on the teacher's chief.New(cfg, store, dispatcher,
// logger) shape (internal/chief/chief.go): every dependency is constructed
// once at the composition root and passed in, never read from a package
// global.
type Orchestrator struct {
	store     *store.Store
	factory   *providers.Factory
	broadcast *events.Broadcaster
	logger    *slog.Logger

	revisions revisionTracker
}

// New constructs an Orchestrator. logger defaults to slog.Default() if nil.
func New(st *store.Store, factory *providers.Factory, broadcast *events.Broadcaster, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:     st,
		factory:   factory,
		broadcast: broadcast,
		logger:    logger,
		revisions: newRevisionTracker(),
	}
}

// SubmitTask stamps a fresh id and timestamps onto t (if absent), sets its
// status to Todo, persists it, and emits a Created event.
func (o *Orchestrator) SubmitTask(t domain.Task) (domain.Task, error) {
	now := time.Now().UTC()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}

	if err := o.store.Save(t); err != nil {
		return domain.Task{}, fmt.Errorf("orchestrator: submit task: %w", err)
	}
	o.revisions.seed(t.ID, t.Status)
	o.broadcast.Publish(events.Event{Type: "created", TaskID: t.ID})
	return t, nil
}

// IngestTranscript extracts action items from a meeting transcript via the
// configured TranscriptParser adapter, persists each as a Todo task carrying
// SourceTranscriptID, and emits a Created event per task (§2 data flow).
func (o *Orchestrator) IngestTranscript(ctx context.Context, transcriptID, transcript string) ([]domain.Task, error) {
	if transcriptID == "" {
		transcriptID = uuid.NewString()
	}
	tasks, err := o.factory.NewTranscriptParser().ParseTranscriptToTasks(ctx, transcriptID, transcript)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: ingest transcript: %w", err)
	}
	return o.persistIngested(tasks)
}

// IngestPRD parses a markdown PRD into its Objectives/TechStack/Constraints
// sections, stamps identity, then asks the configured PRDParser adapter to
// propose candidate tasks carrying SourcePRDID (§2, scenario 4).
func (o *Orchestrator) IngestPRD(ctx context.Context, markdown string) (domain.PRD, []domain.Task, error) {
	prd, err := prdparse.Parse(markdown)
	if err != nil {
		return domain.PRD{}, nil, fmt.Errorf("orchestrator: parse prd: %w", err)
	}
	prd.ID = uuid.NewString()
	prd.CreatedAt = time.Now().UTC()

	tasks, err := o.factory.NewPRDParser().ParsePRDToTasks(ctx, prd)
	if err != nil {
		return domain.PRD{}, nil, fmt.Errorf("orchestrator: ingest prd: %w", err)
	}
	saved, err := o.persistIngested(tasks)
	if err != nil {
		return domain.PRD{}, nil, err
	}
	return prd, saved, nil
}

func (o *Orchestrator) persistIngested(tasks []domain.Task) ([]domain.Task, error) {
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		if tasks[i].Status == "" {
			tasks[i].Status = domain.StatusTodo
		}
		if err := o.store.Save(tasks[i]); err != nil {
			return nil, fmt.Errorf("orchestrator: save ingested task: %w", err)
		}
		o.revisions.seed(tasks[i].ID, tasks[i].Status)
		o.broadcast.Publish(events.Event{Type: "created", TaskID: tasks[i].ID})
	}
	return tasks, nil
}

// RunSession loads taskID, drives it through the orchestration graph
// in-process via flowruntime.GraphRunner with real store- and
// factory-backed dependencies, and returns once the session reaches a
// terminal node (§4.6, §4.7). It is the synchronous counterpart to the
// Temporal-backed flowruntime.OrchestrationWorkflow: this path needs no
// Temporal worker running, at the cost of not surviving a process restart
// mid-session: this path writes no session checkpoint, so a rerun starts
// again from the Router.
func (o *Orchestrator) RunSession(ctx context.Context, taskID string) (flowruntime.Result, error) {
	task, err := o.store.FindOne(domain.ByID(taskID))
	if err != nil {
		return flowruntime.Result{}, fmt.Errorf("orchestrator: load task %s: %w", taskID, err)
	}

	o.revisions.seed(task.ID, task.Status)
	deps := o.nodeDeps()
	runner := flowruntime.GraphRunner{Deps: deps}

	fc := flownodes.Context{Task: task}
	result, err := runner.Run(ctx, fc)
	if err != nil {
		return flowruntime.Result{}, fmt.Errorf("orchestrator: run session for task %s: %w", taskID, err)
	}

	o.broadcast.Publish(events.Event{
		Type:    "orchestrated",
		TaskID:  result.Context.Task.ID,
		Payload: map[string]string{"ended": result.Ended},
	})
	return result, nil
}

// RunSessions fans RunSession out over taskIDs, one goroutine per task via
// golang.org/x/sync/errgroup — grounded on the teacher's multiple-dispatch
// model (internal/scheduler dispatching many beads concurrently, each
// serialized at the store by row). The repository is the only shared
// resource across sessions; it serializes writes per task id itself (§5).
func (o *Orchestrator) RunSessions(ctx context.Context, taskIDs []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range taskIDs {
		id := id
		g.Go(func() error {
			_, err := o.RunSession(gctx, id)
			return err
		})
	}
	return g.Wait()
}

// Broadcaster exposes the event broadcaster this Orchestrator publishes to,
// so a Temporal worker process can wire flowruntime.Activities to the same
// event stream an in-process session would use.
func (o *Orchestrator) Broadcaster() *events.Broadcaster {
	return o.broadcast
}

// NodeDeps exposes the flownodes.Deps bundle this Orchestrator would use for
// an in-process session, so a Temporal worker process can build its
// flowruntime.Activities from the same store- and factory-backed hooks
// (§EXP-4: one composition root, two execution paths).
func (o *Orchestrator) NodeDeps() flownodes.Deps {
	return o.nodeDeps()
}

// nodeDeps builds the flownodes.Deps bundle a session needs: adapters
// fresh per call from the factory (§5, "adapters are stateless and freshly
// constructed per session"), and store-backed Save hooks that also emit
// lifecycle events and append TaskRevisions on every observed status change.
func (o *Orchestrator) nodeDeps() flownodes.Deps {
	return flownodes.Deps{
		Enhancer:   o.factory.NewEnhancer(),
		Tester:     o.factory.NewTester(),
		Decomposer: o.factory.NewDecomposer(),
		SaveTask:   o.saveTask,
		SaveChildren: func(children []domain.Task) error {
			for _, c := range children {
				if err := o.store.Save(c); err != nil {
					return fmt.Errorf("orchestrator: save child task %s: %w", c.ID, err)
				}
				o.revisions.seed(c.ID, c.Status)
				o.broadcast.Publish(events.Event{Type: "created", TaskID: c.ID})
			}
			return nil
		},
	}
}

func (o *Orchestrator) saveTask(t domain.Task) error {
	if err := o.store.Save(t); err != nil {
		return fmt.Errorf("orchestrator: save task %s: %w", t.ID, err)
	}
	if rev, changed := o.revisions.observe(t.ID, t.Status, t.UpdatedAt); changed {
		if err := o.store.RecordRevision(rev); err != nil {
			return fmt.Errorf("orchestrator: record revision for task %s: %w", t.ID, err)
		}
		o.broadcast.Publish(events.Event{
			Type:   "status_changed",
			TaskID: t.ID,
			Payload: map[string]string{
				"from": string(rev.FromStatus),
				"to":   string(rev.ToStatus),
			},
		})
	}
	o.broadcast.Publish(events.Event{Type: "updated", TaskID: t.ID})
	return nil
}

// revisionTracker records the last-observed status per task id so SaveTask
// can append a TaskRevision exactly when a save crosses a status boundary,
// without requiring flownodes.Deps.SaveTask to carry revision objects
// through its signature — the flow nodes already validate the transition
// itself via domain.Task.TransitionTo before calling SaveTask; this tracker
// only decides whether the transition needs a durable row.
type revisionTracker struct {
	mu   sync.Mutex
	last map[string]domain.Status
}

func newRevisionTracker() revisionTracker {
	return revisionTracker{last: make(map[string]domain.Status)}
}

func (r *revisionTracker) seed(taskID string, status domain.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[taskID] = status
}

func (r *revisionTracker) observe(taskID string, status domain.Status, at time.Time) (domain.TaskRevision, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.last[taskID]
	r.last[taskID] = status
	if !ok || prev == status {
		return domain.TaskRevision{}, false
	}
	return domain.TaskRevision{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		At:         at,
		FromStatus: prev,
		ToStatus:   status,
	}, true
}
