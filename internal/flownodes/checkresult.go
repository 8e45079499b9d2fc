package flownodes

import (
	"context"

	"github.com/arclight-dev/taskloom/internal/routing"
)

// CheckResult inspects the last ComprehensionTest and applies the
// heuristic quality check from §4.6: question length in (0,80], and not
// equal to either of the last two previously-generated questions. Sets
// RoutingDecision to "pass" or "fail" and increments RetryCount on fail.
func CheckResult(_ context.Context, fc Context, _ Deps) (Context, error) {
	next := fc.Clone()

	tests := next.Task.ComprehensionTests
	if len(tests) == 0 {
		next.RoutingDecision = routing.DecisionFail
		next.RetryCount++
		return next, nil
	}
	question := tests[len(tests)-1].Question

	ok := len(question) > 0 && len(question) <= 80 && !isRecentDuplicate(next.recentQuestions, question)

	if ok {
		next.RoutingDecision = routing.DecisionPass
	} else {
		next.RoutingDecision = routing.DecisionFail
		next.RetryCount++
	}

	next.recentQuestions = pushWindow(next.recentQuestions, question, 2)
	next.emit("checked", map[string]string{"decision": string(next.RoutingDecision)})
	return next, nil
}

func isRecentDuplicate(window []string, q string) bool {
	for _, prev := range window {
		if prev == q {
			return true
		}
	}
	return false
}

func pushWindow(window []string, q string, size int) []string {
	window = append(window, q)
	if len(window) > size {
		window = window[len(window)-size:]
	}
	return window
}
