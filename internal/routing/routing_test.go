package routing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/routing"
)

func TestScoreMinimum(t *testing.T) {
	due := time.Now()
	task := domain.Task{Title: "short", Assignee: "alice", DueDate: &due, Reasoning: ""}
	require.Equal(t, 3, routing.Score(task))
}

func TestScoreMaximum(t *testing.T) {
	task := domain.Task{
		Title:     "refactor the whole authentication subsystem end to end today",
		Reasoning: string(make([]byte, 201)),
	}
	require.Equal(t, 10, routing.Score(task))
}

func TestScoreMonotonic(t *testing.T) {
	due := time.Now()
	base := domain.Task{Title: "short", Assignee: "alice", DueDate: &due}
	longTitle := base
	longTitle.Title = "this title is deliberately longer than fifty characters for testing"
	require.Greater(t, routing.Score(longTitle), routing.Score(base))

	noAssignee := base
	noAssignee.Assignee = ""
	require.Greater(t, routing.Score(noAssignee), routing.Score(base))
}

func TestClassifyThreshold(t *testing.T) {
	due := time.Now()
	low := domain.Task{Title: "short", Assignee: "alice", DueDate: &due}
	require.Equal(t, routing.DecisionEnhance, routing.Classify(low))

	high := domain.Task{Title: "refactor authentication subsystem to support multi-tenant isolation"}
	require.Equal(t, routing.DecisionDecompose, routing.Classify(high))
}

func tasksWithDeps(edges map[string][]string) []domain.Task {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []domain.Task
	i := 0
	for id, deps := range edges {
		out = append(out, domain.Task{ID: id, Dependencies: deps, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		i++
	}
	return out
}

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	tasks := tasksWithDeps(map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"B"},
	})
	g := routing.BuildDependencyGraph(tasks)
	order, err := g.TopologicalSort()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	require.Less(t, pos["A"], pos["B"])
	require.Less(t, pos["B"], pos["C"])
}

func TestDetectCyclesFindsSCC(t *testing.T) {
	tasks := tasksWithDeps(map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
	})
	g := routing.BuildDependencyGraph(tasks)

	cycles := g.DetectCycles()
	require.Len(t, cycles, 1)
	require.ElementsMatch(t, []string{"A", "B", "C"}, cycles[0])

	_, err := g.TopologicalSort()
	require.ErrorIs(t, err, routing.ErrCycle)
}

func TestTopologicalSortAcyclicNoCycles(t *testing.T) {
	tasks := tasksWithDeps(map[string][]string{"A": nil, "B": {"A"}})
	g := routing.BuildDependencyGraph(tasks)
	require.Empty(t, g.DetectCycles())
}
