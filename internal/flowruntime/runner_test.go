package flowruntime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/flownodes"
	"github.com/arclight-dev/taskloom/internal/flowruntime"
)

type stubEnhancer struct{}

func (stubEnhancer) GenerateEnhancement(_ context.Context, t domain.Task) (domain.Enhancement, error) {
	return domain.Enhancement{ID: "e1", TaskID: t.ID, Kind: "rewrite", Content: "clarified"}, nil
}

type scriptedTester struct {
	questions []string
	i         int
}

func (s *scriptedTester) GenerateComprehensionTest(_ context.Context, t domain.Task, kind domain.ComprehensionTestType) (domain.ComprehensionTest, error) {
	q := s.questions[s.i]
	if s.i < len(s.questions)-1 {
		s.i++
	}
	return domain.ComprehensionTest{ID: "q", TaskID: t.ID, Type: kind, Question: q, CorrectAnswer: "a"}, nil
}

type stubDecomposer struct{ n int }

func (s stubDecomposer) DecomposeTask(_ context.Context, t domain.Task) ([]domain.Task, error) {
	children := make([]domain.Task, s.n)
	for i := range children {
		children[i] = domain.Task{ID: "c", ParentTaskID: t.ID, Status: domain.StatusTodo}
	}
	return children, nil
}

func newRunner(tester *scriptedTester, n int) flowruntime.GraphRunner {
	return flowruntime.GraphRunner{
		Deps: flownodes.Deps{
			Enhancer:     stubEnhancer{},
			Tester:       tester,
			Decomposer:   stubDecomposer{n: n},
			SaveTask:     func(domain.Task) error { return nil },
			SaveChildren: func([]domain.Task) error { return nil },
		},
	}
}

func TestGraphRunnerRoutesSimpleTaskThroughEnhanceToCompleted(t *testing.T) {
	runner := newRunner(&scriptedTester{questions: []string{"Is this clear?"}}, 3)
	fc := flownodes.Context{Task: domain.Task{ID: "t1", Title: "Write changelog", Assignee: "bob", Status: domain.StatusTodo}}

	res, err := runner.Run(context.Background(), fc)
	require.NoError(t, err)
	require.Equal(t, "completed", res.Ended)
	require.Equal(t, domain.StatusOrchestrationComplete, res.Context.Task.Status)
}

func TestGraphRunnerRoutesComplexTaskToDecomposed(t *testing.T) {
	runner := newRunner(&scriptedTester{questions: []string{"Is this clear?"}}, 4)
	fc := flownodes.Context{Task: domain.Task{
		ID:     "t2",
		Title:  "Re-architect the billing ledger for multi-currency settlement",
		Status: domain.StatusTodo,
	}}

	res, err := runner.Run(context.Background(), fc)
	require.NoError(t, err)
	require.Equal(t, "decomposed", res.Ended)
	require.Len(t, res.Context.Task.SubtaskIDs, 4)
}

func TestGraphRunnerFailsAfterRetriesExhausted(t *testing.T) {
	long := make([]byte, 90)
	for i := range long {
		long[i] = 'y'
	}
	runner := newRunner(&scriptedTester{questions: []string{string(long)}}, 3)
	fc := flownodes.Context{Task: domain.Task{ID: "t3", Title: "Polish onboarding copy", Assignee: "dee", Status: domain.StatusTodo}}

	res, err := runner.Run(context.Background(), fc)
	require.NoError(t, err)
	require.Equal(t, "failed", res.Ended)
	require.Equal(t, flowruntime.MaxRetries, res.Context.RetryCount)
	require.Equal(t, domain.StatusOrchestrationComplete, res.Context.Task.Status)
}

func TestGraphRunnerIsPureFunctionOfTaskAndDeps(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{ID: "t4", Title: "Write changelog", Assignee: "bob", Status: domain.StatusTodo}}

	r1 := newRunner(&scriptedTester{questions: []string{"Is this clear?"}}, 3)
	res1, err := r1.Run(context.Background(), fc)
	require.NoError(t, err)

	r2 := newRunner(&scriptedTester{questions: []string{"Is this clear?"}}, 3)
	res2, err := r2.Run(context.Background(), fc)
	require.NoError(t, err)

	require.Equal(t, res1.Ended, res2.Ended)
	require.Equal(t, res1.Context.Task.Status, res2.Context.Task.Status)
	require.Equal(t, len(res1.Context.Task.Enhancements), len(res2.Context.Task.Enhancements))
}
