package llmadapter

import (
	"time"

	"github.com/google/uuid"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// fallbackEnhancement returns a fixed, valid Enhancement whose content
// encodes the failure and the model tag (§4.4), so the pipeline always
// makes forward progress even with no reachable backend.
func fallbackEnhancement(providerName, model string, t domain.Task) domain.Enhancement {
	return domain.Enhancement{
		ID:      uuid.NewString(),
		TaskID:  t.ID,
		At:      time.Now().UTC(),
		Kind:    "clarify",
		Content: "fallback: " + providerName + "/" + model + " unavailable; no enhancement generated",
	}
}

func fallbackComprehensionTest(providerName, model string, t domain.Task, kind domain.ComprehensionTestType) domain.ComprehensionTest {
	return domain.ComprehensionTest{
		ID:            uuid.NewString(),
		TaskID:        t.ID,
		At:            time.Now().UTC(),
		Type:          kind,
		Question:      "fallback: " + providerName + "/" + model + " unavailable?",
		CorrectAnswer: "unknown",
	}
}

// fallbackDecomposition returns exactly 3 placeholder children, satisfying
// the [3,5] child-count contract deterministically.
func fallbackDecomposition(providerName, model string, t domain.Task) []domain.Task {
	now := time.Now().UTC()
	complexity := 1
	if t.Complexity != nil {
		complexity = maxInt(1, *t.Complexity-2)
	}
	children := make([]domain.Task, 0, 3)
	for i := 1; i <= 3; i++ {
		c := complexity
		children = append(children, domain.Task{
			ID:           uuid.NewString(),
			Title:        "fallback: " + providerName + "/" + model + " subtask " + itoa(i) + " of " + t.Title,
			Status:       domain.StatusTodo,
			ParentTaskID: t.ID,
			Complexity:   &c,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return children
}

func fallbackPRDTasks(providerName, model string, prd domain.PRD) []domain.Task {
	now := time.Now().UTC()
	var out []domain.Task
	for _, obj := range prd.Objectives {
		out = append(out, domain.Task{
			ID:           uuid.NewString(),
			Title:        "fallback: " + providerName + "/" + model + ": " + obj,
			Status:       domain.StatusTodo,
			SourcePRDID:  prd.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if len(out) == 0 {
		out = append(out, domain.Task{
			ID:          uuid.NewString(),
			Title:       "fallback: " + providerName + "/" + model + ": " + prd.Title,
			Status:      domain.StatusTodo,
			SourcePRDID: prd.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}

// fallbackActionItems returns a single placeholder action item so a
// transcript always yields at least one Task even with no reachable
// backend; the transcript text itself is not parsed client-side.
func fallbackActionItems(providerName, model, transcriptID, transcript string) []domain.Task {
	now := time.Now().UTC()
	title := "fallback: " + providerName + "/" + model + " follow up on transcript"
	if transcriptID != "" {
		title += " " + transcriptID
	}
	return []domain.Task{{
		ID:                 uuid.NewString(),
		Title:              title,
		Status:             domain.StatusTodo,
		SourceTranscriptID: transcriptID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return "n"
}
