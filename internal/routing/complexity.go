// Package routing implements the complexity scorer, the enhance/decompose
// triage, and the dependency graph over a task set (§4.5).
package routing

import (
	"strings"

	"github.com/arclight-dev/taskloom/internal/domain"
)

var architecturalKeywords = []string{"refactor", "migrate", "redesign", "re-architect", "rewrite"}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// Score is the pure complexity heuristic in [1,10]: base 3, +1 if the title
// exceeds 50 characters, +2 if it contains an architectural keyword, +1 if
// assignee is absent, +1 if due date is absent, +2 if reasoning exceeds 200
// characters, capped at 10.
func Score(t domain.Task) int {
	score := 3
	if len(t.Title) > 50 {
		score++
	}
	if containsAny(strings.ToLower(t.Title), architecturalKeywords...) {
		score += 2
	}
	if t.Assignee == "" {
		score++
	}
	if t.DueDate == nil {
		score++
	}
	if len(t.Reasoning) > 200 {
		score += 2
	}
	if score > 10 {
		score = 10
	}
	return score
}
