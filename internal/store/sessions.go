package store

import (
	"database/sql"
	"encoding/json"
	"errors"
)

// SessionCheckpoint is a persisted per-session resume point: the current
// node id, the accumulated context, and the retry counter (§4.7). Neither
// flowruntime executor reads or writes checkpoints.
type SessionCheckpoint struct {
	SessionID    string
	TaskID       string
	CurrentNode  string
	ContextJSON  []byte
	RetryCount   int
}

// SaveCheckpoint upserts a session's resume point.
func (s *Store) SaveCheckpoint(c SessionCheckpoint) error {
	_, err := s.db.Exec(`
INSERT INTO flow_sessions (session_id, task_id, current_node, context_json, retry_count, updated_at)
VALUES (?,?,?,?,?, datetime('now'))
ON CONFLICT(session_id) DO UPDATE SET
	current_node=excluded.current_node, context_json=excluded.context_json,
	retry_count=excluded.retry_count, updated_at=excluded.updated_at
`, c.SessionID, c.TaskID, c.CurrentNode, string(c.ContextJSON), c.RetryCount)
	if err != nil {
		return storage(err)
	}
	return nil
}

// LoadCheckpoint returns the last-saved resume point for a session.
func (s *Store) LoadCheckpoint(sessionID string) (SessionCheckpoint, error) {
	var c SessionCheckpoint
	var ctxJSON string
	err := s.db.QueryRow(
		`SELECT session_id, task_id, current_node, context_json, retry_count FROM flow_sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&c.SessionID, &c.TaskID, &c.CurrentNode, &ctxJSON, &c.RetryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionCheckpoint{}, notFound()
	}
	if err != nil {
		return SessionCheckpoint{}, storage(err)
	}
	c.ContextJSON = []byte(ctxJSON)
	return c, nil
}

// DeleteCheckpoint removes a session's resume point, e.g. on clean completion.
func (s *Store) DeleteCheckpoint(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM flow_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return storage(err)
	}
	return nil
}

// MarshalCheckpointContext is a small helper so callers building a
// SessionCheckpoint don't need to import encoding/json directly.
func MarshalCheckpointContext(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
