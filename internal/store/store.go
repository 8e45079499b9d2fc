// Package store provides SQLite-backed persistence for the orchestration
// core: the Task repository and the flow runtime's session checkpoints.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// Store wraps a single-node embedded SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	assignee TEXT,
	due_date TEXT,
	status TEXT NOT NULL,
	source_transcript_id TEXT,
	source_prd_id TEXT,
	parent_task_id TEXT,
	subtask_ids_json TEXT,
	complexity INTEGER,
	reasoning TEXT,
	context_files_json TEXT,
	dependencies_json TEXT,
	enhancements_json TEXT,
	comprehension_tests_json TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id);

CREATE TABLE IF NOT EXISTS task_revisions (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	at TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status TEXT NOT NULL,
	note TEXT
);

CREATE INDEX IF NOT EXISTS idx_task_revisions_task ON task_revisions(task_id);

CREATE TABLE IF NOT EXISTS flow_sessions (
	session_id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	current_node TEXT NOT NULL,
	context_json TEXT NOT NULL,
	retry_count INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);
`

// Open creates the database file (if absent), applies the schema, and
// returns a ready Store. WAL + busy-timeout pragmas match the teacher's
// own concurrency story for a single-writer-per-row workload.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// RepositoryError taxonomy (§7).
type RepositoryErrorKind int

const (
	ErrNotFound RepositoryErrorKind = iota
	ErrConflict
	ErrStorage
)

type RepositoryError struct {
	Kind  RepositoryErrorKind
	Cause error
}

func (e *RepositoryError) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return "store: not found"
	case ErrConflict:
		return "store: conflict"
	default:
		return fmt.Sprintf("store: storage error: %v", e.Cause)
	}
}

func (e *RepositoryError) Unwrap() error { return e.Cause }

func notFound() error  { return &RepositoryError{Kind: ErrNotFound} }
func conflict() error  { return &RepositoryError{Kind: ErrConflict} }
func storage(cause error) error {
	return &RepositoryError{Kind: ErrStorage, Cause: cause}
}

// IsNotFound reports whether err is (or wraps) a RepositoryError{Kind: ErrNotFound}.
func IsNotFound(err error) bool {
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Kind == ErrNotFound
	}
	return false
}

const isoLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(isoLayout) }

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(isoLayout, s)
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func jsonColumn(v interface{}) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	s := string(b)
	if s == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: s, Valid: true}, nil
}

func decodeJSONColumn(ns sql.NullString, v interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), v)
}

// Save upserts a task by id, atomically replacing the row including all
// JSON-serialized list fields (§4.1).
func (s *Store) Save(t domain.Task) error {
	subtasks, err := jsonColumn(t.SubtaskIDs)
	if err != nil {
		return storage(err)
	}
	contextFiles, err := jsonColumn(t.ContextFiles)
	if err != nil {
		return storage(err)
	}
	deps, err := jsonColumn(t.Dependencies)
	if err != nil {
		return storage(err)
	}
	enhancements, err := jsonColumn(t.Enhancements)
	if err != nil {
		return storage(err)
	}
	tests, err := jsonColumn(t.ComprehensionTests)
	if err != nil {
		return storage(err)
	}

	var dueDate sql.NullString
	if t.DueDate != nil {
		dueDate = nullableString(t.DueDate.UTC().Format("2006-01-02"))
	}
	var complexity sql.NullInt64
	if t.Complexity != nil {
		complexity = sql.NullInt64{Int64: int64(*t.Complexity), Valid: true}
	}

	const stmt = `
INSERT INTO tasks (
	id, title, assignee, due_date, status, source_transcript_id, source_prd_id,
	parent_task_id, subtask_ids_json, complexity, reasoning, context_files_json,
	dependencies_json, enhancements_json, comprehension_tests_json, created_at, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
	title=excluded.title, assignee=excluded.assignee, due_date=excluded.due_date,
	status=excluded.status, source_transcript_id=excluded.source_transcript_id,
	source_prd_id=excluded.source_prd_id, parent_task_id=excluded.parent_task_id,
	subtask_ids_json=excluded.subtask_ids_json, complexity=excluded.complexity,
	reasoning=excluded.reasoning, context_files_json=excluded.context_files_json,
	dependencies_json=excluded.dependencies_json, enhancements_json=excluded.enhancements_json,
	comprehension_tests_json=excluded.comprehension_tests_json, updated_at=excluded.updated_at
`
	_, err = s.db.Exec(stmt,
		t.ID, t.Title, nullableString(t.Assignee), dueDate, string(t.Status),
		nullableString(t.SourceTranscriptID), nullableString(t.SourcePRDID),
		nullableString(t.ParentTaskID), subtasks, complexity, nullableString(t.Reasoning),
		contextFiles, deps, enhancements, tests,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return storage(err)
	}
	return nil
}

// RecordRevision appends an immutable task-mutation snapshot.
func (s *Store) RecordRevision(r domain.TaskRevision) error {
	_, err := s.db.Exec(
		`INSERT INTO task_revisions (id, task_id, at, from_status, to_status, note) VALUES (?,?,?,?,?,?)`,
		r.ID, r.TaskID, formatTime(r.At), string(r.FromStatus), string(r.ToStatus), r.Note,
	)
	if err != nil {
		return storage(err)
	}
	return nil
}

// ListRevisions returns a task's revisions ordered by instant ascending.
func (s *Store) ListRevisions(taskID string) ([]domain.TaskRevision, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, at, from_status, to_status, note FROM task_revisions WHERE task_id = ? ORDER BY at ASC`,
		taskID,
	)
	if err != nil {
		return nil, storage(err)
	}
	defer rows.Close()

	var out []domain.TaskRevision
	for rows.Next() {
		var r domain.TaskRevision
		var at string
		var note sql.NullString
		if err := rows.Scan(&r.ID, &r.TaskID, &at, &r.FromStatus, &r.ToStatus, &note); err != nil {
			return nil, storage(err)
		}
		if r.At, err = parseTime(at); err != nil {
			return nil, storage(err)
		}
		r.Note = note.String
		out = append(out, r)
	}
	return out, rows.Err()
}

const taskColumns = `
	id, title, assignee, due_date, status, source_transcript_id, source_prd_id,
	parent_task_id, subtask_ids_json, complexity, reasoning, context_files_json,
	dependencies_json, enhancements_json, comprehension_tests_json, created_at, updated_at
`

func scanTask(row rowScanner) (domain.Task, error) {
	var t domain.Task
	var assignee, dueDate, sourceTranscript, sourcePRD, parentID, reasoning sql.NullString
	var subtasks, contextFiles, deps, enhancements, tests sql.NullString
	var complexity sql.NullInt64
	var createdAt, updatedAt, status string

	err := row.Scan(
		&t.ID, &t.Title, &assignee, &dueDate, &status, &sourceTranscript, &sourcePRD,
		&parentID, &subtasks, &complexity, &reasoning, &contextFiles,
		&deps, &enhancements, &tests, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}

	t.Status = domain.Status(status)
	t.Assignee = assignee.String
	t.SourceTranscriptID = sourceTranscript.String
	t.SourcePRDID = sourcePRD.String
	t.ParentTaskID = parentID.String
	t.Reasoning = reasoning.String

	if dueDate.Valid && dueDate.String != "" {
		d, err := time.Parse("2006-01-02", dueDate.String)
		if err != nil {
			return domain.Task{}, err
		}
		t.DueDate = &d
	}
	if complexity.Valid {
		v := int(complexity.Int64)
		t.Complexity = &v
	}
	if err := decodeJSONColumn(subtasks, &t.SubtaskIDs); err != nil {
		return domain.Task{}, err
	}
	if err := decodeJSONColumn(contextFiles, &t.ContextFiles); err != nil {
		return domain.Task{}, err
	}
	if err := decodeJSONColumn(deps, &t.Dependencies); err != nil {
		return domain.Task{}, err
	}
	if err := decodeJSONColumn(enhancements, &t.Enhancements); err != nil {
		return domain.Task{}, err
	}
	if err := decodeJSONColumn(tests, &t.ComprehensionTests); err != nil {
		return domain.Task{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// FindOne returns at most one task matching filter, or a RepositoryError
// wrapping ErrNotFound when none match.
func (s *Store) FindOne(filter domain.Filter) (domain.Task, error) {
	where, args := whereClause(filter)
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE `+where+` LIMIT 1`, args...)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, notFound()
	}
	if err != nil {
		return domain.Task{}, storage(err)
	}
	return t, nil
}

// Find returns a page of tasks matching filter, ordered/paginated per opts.
func (s *Store) Find(filter domain.Filter, opts domain.FindOptions) ([]domain.Task, error) {
	where, args := whereClause(filter)
	order := "ASC"
	if opts.Order == domain.OrderDesc {
		order = "DESC"
	}
	sortCol := sortColumn(opts.Sort)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + where + ` ORDER BY ` + sortCol + ` ` + order
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storage(err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storage(err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes tasks matching filter and returns the affected count.
func (s *Store) Delete(filter domain.Filter) (int, error) {
	where, args := whereClause(filter)
	res, err := s.db.Exec(`DELETE FROM tasks WHERE `+where, args...)
	if err != nil {
		return 0, storage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storage(err)
	}
	return int(n), nil
}

func whereClause(f domain.Filter) (string, []interface{}) {
	switch f.Kind {
	case domain.FilterByID:
		return "id = ?", []interface{}{f.ID}
	case domain.FilterByStatus:
		return "status = ?", []interface{}{string(f.Status)}
	case domain.FilterByAssignee:
		return "assignee = ?", []interface{}{f.Assignee}
	default:
		return "1 = 1", nil
	}
}

func sortColumn(k domain.SortKey) string {
	switch k {
	case domain.SortUpdatedAt:
		return "updated_at"
	case domain.SortStatus:
		return "status"
	case domain.SortTitle:
		return "title"
	case domain.SortDueDate:
		return "due_date"
	default:
		return "created_at"
	}
}
