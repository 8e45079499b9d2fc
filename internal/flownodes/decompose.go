package flownodes

import (
	"context"
	"strconv"
	"time"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// Decompose calls the Decomposer adapter, persists every child task,
// updates the parent's SubtaskIDs, and transitions the parent to
// Decomposed (§4.6).
func Decompose(ctx context.Context, fc Context, deps Deps) (Context, error) {
	next := fc.Clone()

	children, err := deps.Decomposer.DecomposeTask(ctx, next.Task)
	if err != nil {
		return fc, err
	}

	if err := deps.SaveChildren(children); err != nil {
		return fc, err
	}

	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	next.Task.SubtaskIDs = ids

	for _, to := range decomposeTransitionPath(next.Task.Status) {
		rev, err := stampTransition(&next.Task, to)
		if err != nil {
			return fc, err
		}
		next.Revisions = append(next.Revisions, rev)
	}

	next.Task.UpdatedAt = time.Now().UTC()
	if err := deps.SaveTask(next.Task); err != nil {
		return fc, err
	}
	next.emit("decomposed", map[string]string{"child_count": strconv.Itoa(len(children))})
	return next, nil
}

// decomposeTransitionPath walks any pre-orchestration state to
// PendingDecomposition then Decomposed, per §4.8 ("Any pre-orchestration
// state -> PendingDecomposition").
func decomposeTransitionPath(from domain.Status) []domain.Status {
	if from == domain.StatusPendingDecomposition {
		return []domain.Status{domain.StatusDecomposed}
	}
	return []domain.Status{domain.StatusPendingDecomposition, domain.StatusDecomposed}
}

