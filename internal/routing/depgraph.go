package routing

import (
	"errors"
	"sort"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// ErrCycle is returned by TopologicalSort when the dependency graph is not
// a DAG.
var ErrCycle = errors.New("routing: dependency cycle detected")

// DependencyGraph is an in-memory adjacency view built on demand from a
// loaded task set — tasks are addressed by stable id, not by pointer, so
// the graph is rebuilt whenever the underlying set changes rather than kept
// as a live structure (§9, "Cyclic data -> arena + index").
type DependencyGraph struct {
	tasks   map[string]domain.Task
	forward map[string][]string // task id -> ids it depends on
}

// BuildDependencyGraph indexes tasks by id and records each task's
// Dependencies edges, skipping any edge to an id not present in the set.
func BuildDependencyGraph(tasks []domain.Task) *DependencyGraph {
	g := &DependencyGraph{
		tasks:   make(map[string]domain.Task, len(tasks)),
		forward: make(map[string][]string, len(tasks)),
	}
	for _, t := range tasks {
		g.tasks[t.ID] = t
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := g.tasks[dep]; ok {
				g.forward[t.ID] = append(g.forward[t.ID], dep)
			}
		}
	}
	return g
}

// DependsOn returns the (existing-task) dependency ids for taskID.
func (g *DependencyGraph) DependsOn(taskID string) []string {
	out := g.forward[taskID]
	return append([]string(nil), out...)
}

// DetectCycles walks every node via DFS with visited/recursion-stack
// coloring (the classic two-map coloring scheme) and returns the set of
// task ids that participate in a cycle, one slice per strongly-connected
// offender detected. Self-loops count as a cycle of size 1.
func (g *DependencyGraph) DetectCycles() [][]string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var cycles [][]string
	seen := make(map[string]bool) // dedupe ids already reported across runs

	var ids []string
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, dep := range g.forward[id] {
			if recStack[dep] {
				// Found the cycle: the slice from dep's position onward.
				for i, p := range path {
					if p == dep {
						return append([]string(nil), path[i:]...)
					}
				}
				return []string{dep}
			}
			if !visited[dep] {
				if cyc := walk(dep, path); cyc != nil {
					return cyc
				}
			}
		}
		recStack[id] = false
		return nil
	}

	for _, id := range ids {
		if visited[id] {
			continue
		}
		if cyc := walk(id, nil); cyc != nil {
			key := cycleKey(cyc)
			if !seen[key] {
				seen[key] = true
				cycles = append(cycles, cyc)
			}
		}
		// walk returns early on a cycle without unwinding recStack; clear
		// it so a later root is not matched against a stale stack.
		for k := range recStack {
			delete(recStack, k)
		}
	}
	return cycles
}

func cycleKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	key := ""
	for _, id := range sorted {
		key += id + "\x00"
	}
	return key
}

// TopologicalSort returns task ids in a valid execution order (dependencies
// before dependents) or ErrCycle if the graph has one. Ties are broken by
// created-at ascending, per §4.5.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if len(g.DetectCycles()) > 0 {
		return nil, ErrCycle
	}

	var ids []string
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return g.tasks[ids[i]].CreatedAt.Before(g.tasks[ids[j]].CreatedAt)
	})

	visited := make(map[string]bool)
	var order []string
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		deps := append([]string(nil), g.forward[id]...)
		sort.Slice(deps, func(i, j int) bool {
			return g.tasks[deps[i]].CreatedAt.Before(g.tasks[deps[j]].CreatedAt)
		})
		for _, dep := range deps {
			visit(dep)
		}
		order = append(order, id)
	}
	for _, id := range ids {
		visit(id)
	}
	return order, nil
}
