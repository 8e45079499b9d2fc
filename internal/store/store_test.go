package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTask(id string) domain.Task {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return domain.Task{
		ID:        id,
		Title:     "Write release notes",
		Status:    domain.StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveThenFindOneRoundTrips(t *testing.T) {
	s := openTestStore(t)
	task := sampleTask("task-1")

	require.NoError(t, s.Save(task))

	got, err := s.FindOne(domain.ByID("task-1"))
	require.NoError(t, err)
	require.Equal(t, task.Title, got.Title)
	require.Equal(t, task.Status, got.Status)
	require.True(t, got.UpdatedAt.Equal(task.CreatedAt) || got.UpdatedAt.After(task.CreatedAt))
}

func TestFindOneNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FindOne(domain.ByID("missing"))
	require.Error(t, err)
	require.True(t, store.IsNotFound(err))
}

func TestSaveUpsertReplacesRow(t *testing.T) {
	s := openTestStore(t)
	task := sampleTask("task-1")
	require.NoError(t, s.Save(task))

	task.Status = domain.StatusInProgress
	task.Enhancements = append(task.Enhancements, domain.Enhancement{ID: "e1", TaskID: task.ID, Kind: "clarify", Content: "x"})
	require.NoError(t, s.Save(task))

	got, err := s.FindOne(domain.ByID("task-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, got.Status)
	require.Len(t, got.Enhancements, 1)
}

func TestFindByStatusWithOrdering(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		task := sampleTask(id)
		task.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		task.UpdatedAt = task.CreatedAt
		require.NoError(t, s.Save(task))
	}

	got, err := s.Find(domain.ByStatus(domain.StatusTodo), domain.FindOptions{
		Sort: domain.SortCreatedAt, Order: domain.OrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"c", "b", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestDeleteByID(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleTask("task-1")))

	n, err := s.Delete(domain.ByID("task-1"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.FindOne(domain.ByID("task-1"))
	require.True(t, store.IsNotFound(err))
}

func TestRecordAndListRevisions(t *testing.T) {
	s := openTestStore(t)
	task := sampleTask("task-1")
	require.NoError(t, s.Save(task))

	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRevision(domain.TaskRevision{
		ID: "rev-1", TaskID: task.ID, At: at,
		FromStatus: domain.StatusTodo, ToStatus: domain.StatusInProgress,
	}))

	revs, err := s.ListRevisions(task.ID)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	require.Equal(t, domain.StatusInProgress, revs[0].ToStatus)
}

func TestCheckpointRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx, err := store.MarshalCheckpointContext(map[string]string{"routing_decision": "enhance"})
	require.NoError(t, err)

	require.NoError(t, s.SaveCheckpoint(store.SessionCheckpoint{
		SessionID: "sess-1", TaskID: "task-1", CurrentNode: "Enhance",
		ContextJSON: ctx, RetryCount: 1,
	}))

	got, err := s.LoadCheckpoint("sess-1")
	require.NoError(t, err)
	require.Equal(t, "Enhance", got.CurrentNode)
	require.Equal(t, 1, got.RetryCount)

	require.NoError(t, s.DeleteCheckpoint("sess-1"))
	_, err = s.LoadCheckpoint("sess-1")
	require.True(t, store.IsNotFound(err))
}
