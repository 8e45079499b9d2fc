package llmadapter

import (
	"context"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// Enhancer produces a refinement for a task.
type Enhancer interface {
	GenerateEnhancement(ctx context.Context, t domain.Task) (domain.Enhancement, error)
	Name() string
}

// Tester produces a comprehension-test artifact for a task.
type Tester interface {
	GenerateComprehensionTest(ctx context.Context, t domain.Task, kind domain.ComprehensionTestType) (domain.ComprehensionTest, error)
	Name() string
}

// PRDParser extracts candidate tasks from a PRD.
type PRDParser interface {
	ParsePRDToTasks(ctx context.Context, prd domain.PRD) ([]domain.Task, error)
	Name() string
}

// TranscriptParser extracts action-item tasks from a meeting transcript.
type TranscriptParser interface {
	ParseTranscriptToTasks(ctx context.Context, transcriptID, transcript string) ([]domain.Task, error)
	Name() string
}

// Decomposer splits a complex task into 3-5 child tasks.
type Decomposer interface {
	DecomposeTask(ctx context.Context, t domain.Task) ([]domain.Task, error)
	Name() string
}
