package routing

import "github.com/arclight-dev/taskloom/internal/domain"

// Decision is the routing_decision vocabulary carried in the flow Context.
type Decision string

const (
	DecisionEnhance   Decision = "enhance"
	DecisionDecompose Decision = "decompose"
	DecisionEnd       Decision = "end"
	DecisionPass      Decision = "pass"
	DecisionFail      Decision = "fail"
)

// DecomposeThreshold is the score at/above which Classify selects Decompose.
const DecomposeThreshold = 7

// Classify is the deterministic Router triage: Decompose iff score >= 7,
// else Enhance.
func Classify(t domain.Task) Decision {
	if Score(t) >= DecomposeThreshold {
		return DecisionDecompose
	}
	return DecisionEnhance
}
