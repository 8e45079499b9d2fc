package domain

import "time"

// Enhancement is a model-produced refinement attached to a task. Append-only
// within a task.
type Enhancement struct {
	ID      string
	TaskID  string
	At      time.Time
	Kind    string // e.g. "rewrite", "clarify"
	Content string
}

// ComprehensionTestType enumerates the quiz shapes an adapter may emit.
type ComprehensionTestType string

const (
	ComprehensionShortAnswer    ComprehensionTestType = "short_answer"
	ComprehensionMultipleChoice ComprehensionTestType = "multiple_choice"
	ComprehensionTrueFalse      ComprehensionTestType = "true_false"
)

// MaxQuestionLength is the contract bound on ComprehensionTest.Question.
const MaxQuestionLength = 80

// ComprehensionTest is a model-produced quiz-style artifact validating that a
// task is understood. Append-only within a task.
type ComprehensionTest struct {
	ID            string
	TaskID        string
	At            time.Time
	Type          ComprehensionTestType
	Question      string
	AnswerOptions []string // optional, used by multiple_choice
	CorrectAnswer string
}

// TaskRevision is an append-only historical snapshot of a task mutation.
type TaskRevision struct {
	ID         string
	TaskID     string
	At         time.Time
	FromStatus Status
	ToStatus   Status
	Note       string
}

// PRD is a Product Requirements Document distilled into structured sections.
type PRD struct {
	ID         string
	Title      string
	Objectives []string
	TechStack  []string
	Constraints []string
	Raw        string
	CreatedAt  time.Time
}

// ProjectContext is synthesized per orchestration run to prime LLM prompts.
// It is not persisted as a first-class row.
type ProjectContext struct {
	ID                  string
	Root                string
	Languages           []string
	Frameworks          []string
	EntryPoints         []string
	KeyFiles            []string
	KeyDirectories      []string
	ArchitecturalTags   []string
	RecentDecisions     []string
}
