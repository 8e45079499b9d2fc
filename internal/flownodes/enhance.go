package flownodes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// Enhance calls the Enhancer adapter, appends the resulting Enhancement,
// and sets Task.Status = PendingComprehensionTest (§4.6). On the first pass
// through a session this walks the task up through InProgress and
// PendingEnhancement on the way; on a CheckResult-triggered retry the task
// is already at PendingComprehensionTest and no transition is recorded —
// only the append is new.
func Enhance(ctx context.Context, fc Context, deps Deps) (Context, error) {
	next := fc.Clone()

	enh, err := deps.Enhancer.GenerateEnhancement(ctx, next.Task)
	if err != nil {
		return fc, err
	}
	next.Task.Enhancements = append(next.Task.Enhancements, enh)

	if next.Task.Status != domain.StatusPendingComprehensionTest {
		for _, to := range intermediateStatuses(next.Task.Status) {
			rev, err := stampTransition(&next.Task, to)
			if err != nil {
				return fc, err
			}
			next.Revisions = append(next.Revisions, rev)
		}
	}

	next.Task.UpdatedAt = time.Now().UTC()
	if err := deps.SaveTask(next.Task); err != nil {
		return fc, err
	}
	next.emit("enhanced", map[string]string{"enhancement_id": enh.ID})
	return next, nil
}

// intermediateStatuses returns the hop-by-hop path from from to
// PendingComprehensionTest, so a single Enhance call can walk a fresh Todo
// task all the way to the status the ComprehensionTest node expects.
func intermediateStatuses(from domain.Status) []domain.Status {
	switch from {
	case domain.StatusTodo:
		return []domain.Status{domain.StatusInProgress, domain.StatusPendingEnhancement, domain.StatusPendingComprehensionTest}
	case domain.StatusInProgress:
		return []domain.Status{domain.StatusPendingEnhancement, domain.StatusPendingComprehensionTest}
	case domain.StatusPendingEnhancement:
		return []domain.Status{domain.StatusPendingComprehensionTest}
	default:
		return nil
	}
}

func stampTransition(t *domain.Task, to domain.Status) (domain.TaskRevision, error) {
	rev, err := t.TransitionTo(to, "", time.Now().UTC())
	if err != nil {
		return domain.TaskRevision{}, err
	}
	rev.ID = uuid.NewString()
	return rev, nil
}
