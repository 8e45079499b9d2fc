package llmadapter

import (
	"fmt"
	"strings"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// Every prompt here follows the same shape the contract requires (§4.2,
// §6): a preamble naming the role and the expected JSON shape, the source
// material, and an explicit "respond with valid JSON only" instruction —
// grounded on the same pattern found in the decomposition prompt template
// this package's Decomposer adapts from.

func enhancementPrompt(t domain.Task) string {
	return fmt.Sprintf(`You are refining a task definition. Given the task below, produce ONE enhancement.

Task title: %s
Task reasoning: %s

Respond with valid JSON only, no markdown, no extra text, in this exact shape:
{"kind": "rewrite|clarify", "content": "the enhanced text"}`, t.Title, t.Reasoning)
}

func comprehensionTestPrompt(t domain.Task, kind domain.ComprehensionTestType) string {
	return fmt.Sprintf(`You are writing a comprehension check for a task, to verify it is understood.

Task title: %s
Question type: %s
The question must be at most 80 characters.

Respond with valid JSON only, no markdown, no extra text, in this exact shape:
{"type": %q, "question": "...", "answer_options": ["..."], "correct_answer": "..."}`,
		t.Title, kind, kind)
}

func decompositionPrompt(t domain.Task) string {
	return fmt.Sprintf(`You are decomposing a complex task into 3 to 5 child tasks.

Parent task title: %s
Parent task reasoning: %s

Respond with valid JSON only, no markdown, no extra text, in this exact shape:
{"tasks": [{"title": "...", "reasoning": "...", "context": ["..."]}]}`, t.Title, t.Reasoning)
}

func transcriptActionItemsPrompt(transcript string) string {
	return fmt.Sprintf(`You are extracting action items from a meeting transcript.

Transcript:
%s

Respond with valid JSON only, no markdown, no extra text, in this exact shape:
{"items": [{"title": "...", "assignee": "...", "due_date": "YYYY-MM-DD", "context": ["..."]}]}`, transcript)
}

func prdTasksPrompt(prd domain.PRD) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are extracting candidate tasks from a product requirements document.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", prd.Title)
	fmt.Fprintf(&b, "Objectives:\n")
	for _, o := range prd.Objectives {
		fmt.Fprintf(&b, "- %s\n", o)
	}
	fmt.Fprintf(&b, "Tech stack:\n")
	for _, s := range prd.TechStack {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	fmt.Fprintf(&b, "Constraints:\n")
	for _, c := range prd.Constraints {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	fmt.Fprint(&b, "\nRespond with valid JSON only, no markdown, no extra text, in this exact shape:\n")
	fmt.Fprint(&b, `{"tasks": [{"title": "...", "context": "..."}]}`)
	return b.String()
}
