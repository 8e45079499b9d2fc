// Package extraction declares the JSON schema contracts for every
// LLM-driven extraction target and the tolerant parser that tames
// non-deterministic model output (§4.2).
package extraction

// ActionItem is a candidate task extracted from a transcript.
type ActionItem struct {
	Title    string   `json:"title"`
	Assignee string   `json:"assignee,omitempty"`
	DueDate  string   `json:"due_date,omitempty"`
	Context  []string `json:"context,omitempty"`
}

// ActionItems is the top-level shape an extraction prompt asks for.
type ActionItems struct {
	Items []ActionItem `json:"items"`
}

// EnhancementResult is the shape an Enhancer adapter parses.
type EnhancementResult struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// ComprehensionTestResult is the shape a Tester adapter parses.
type ComprehensionTestResult struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	AnswerOptions []string `json:"answer_options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
}

// DecompositionTask is one child task proposed by a Decomposer adapter.
type DecompositionTask struct {
	Title     string   `json:"title"`
	Reasoning string   `json:"reasoning,omitempty"`
	Context   []string `json:"context,omitempty"`
}

// DecompositionResult is the top-level shape a decomposition prompt asks for.
type DecompositionResult struct {
	Tasks []DecompositionTask `json:"tasks"`
}

// PRDTaskProposal is one task proposed by a PRD-parser adapter.
type PRDTaskProposal struct {
	Title   string `json:"title"`
	Context string `json:"context,omitempty"`
}

// PRDTasksResult is the top-level shape a PRD-parsing prompt asks for.
type PRDTasksResult struct {
	Tasks []PRDTaskProposal `json:"tasks"`
}
