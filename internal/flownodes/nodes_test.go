package flownodes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/flownodes"
	"github.com/arclight-dev/taskloom/internal/routing"
)

type fakeEnhancer struct{ kind, content string }

func (f fakeEnhancer) GenerateEnhancement(_ context.Context, t domain.Task) (domain.Enhancement, error) {
	return domain.Enhancement{ID: "e1", TaskID: t.ID, Kind: f.kind, Content: f.content}, nil
}

type fakeTester struct{ question string }

func (f fakeTester) GenerateComprehensionTest(_ context.Context, t domain.Task, kind domain.ComprehensionTestType) (domain.ComprehensionTest, error) {
	return domain.ComprehensionTest{ID: "q1", TaskID: t.ID, Type: kind, Question: f.question, CorrectAnswer: "a"}, nil
}

type fakeDecomposer struct{ n int }

func (f fakeDecomposer) DecomposeTask(_ context.Context, t domain.Task) ([]domain.Task, error) {
	children := make([]domain.Task, f.n)
	for i := range children {
		children[i] = domain.Task{ID: "child-" + string(rune('a'+i)), ParentTaskID: t.ID, Status: domain.StatusTodo}
	}
	return children, nil
}

func baseDeps() flownodes.Deps {
	return flownodes.Deps{
		Enhancer:     fakeEnhancer{kind: "rewrite", content: "better"},
		Tester:       fakeTester{question: "Is this clear?"},
		Decomposer:   fakeDecomposer{n: 4},
		SaveTask:     func(domain.Task) error { return nil },
		SaveChildren: func([]domain.Task) error { return nil },
	}
}

func TestRouterClassifiesEnhance(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{Title: "Write release notes", Assignee: "alice"}}
	out, err := flownodes.Router(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, routing.DecisionEnhance, out.RoutingDecision)
}

func TestRouterClassifiesDecompose(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{Title: "Refactor authentication subsystem to support multi-tenant isolation"}}
	out, err := flownodes.Router(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, routing.DecisionDecompose, out.RoutingDecision)
}

func TestEnhanceWalksFreshTaskToPendingComprehensionTest(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{ID: "t1", Status: domain.StatusTodo}}
	out, err := flownodes.Enhance(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendingComprehensionTest, out.Task.Status)
	require.Len(t, out.Task.Enhancements, 1)
}

func TestEnhanceRetryDoesNotRetransition(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{ID: "t1", Status: domain.StatusPendingComprehensionTest}}
	out, err := flownodes.Enhance(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendingComprehensionTest, out.Task.Status)
	require.Empty(t, out.Revisions)
}

func TestCheckResultPassesOnValidQuestion(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{ComprehensionTests: []domain.ComprehensionTest{{Question: "Is this clear?"}}}}
	out, err := flownodes.CheckResult(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, routing.DecisionPass, out.RoutingDecision)
	require.Equal(t, 0, out.RetryCount)
}

func TestCheckResultFailsOnOverlongQuestion(t *testing.T) {
	long := make([]byte, 85)
	for i := range long {
		long[i] = 'x'
	}
	fc := flownodes.Context{Task: domain.Task{ComprehensionTests: []domain.ComprehensionTest{{Question: string(long)}}}}
	out, err := flownodes.CheckResult(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, routing.DecisionFail, out.RoutingDecision)
	require.Equal(t, 1, out.RetryCount)
}

func TestDecomposeSetsSubtaskIDsAndStatus(t *testing.T) {
	fc := flownodes.Context{Task: domain.Task{ID: "parent", Status: domain.StatusTodo}}
	out, err := flownodes.Decompose(context.Background(), fc, baseDeps())
	require.NoError(t, err)
	require.Equal(t, domain.StatusDecomposed, out.Task.Status)
	require.Len(t, out.Task.SubtaskIDs, 4)
}
