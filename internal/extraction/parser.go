package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrUnparseable is returned when no repair stage produces a value that
// unmarshals into the target schema.
var ErrUnparseable = errors.New("extraction: unparseable model output")

// aliases maps common synonym keys a model might emit onto the contract's
// canonical field name (§4.2: "q"<->"question", "options"<->"answer_options").
var aliases = map[string]string{
	"q":        "question",
	"options":  "answer_options",
	"answer":   "correct_answer",
	"desc":     "description",
	"text":     "content",
	"children": "tasks",
	"subtasks": "tasks",
}

// lowercasedFields are enum-ish fields normalized to lower-case before
// unmarshal, so "True_False" and "TRUE_FALSE" both land on "true_false".
var lowercasedFields = map[string]bool{
	"type": true, "kind": true,
}

// Parse runs the full tolerant pipeline against raw model output and
// unmarshals the result into a T. It never returns a partially-populated T:
// either it fully succeeds or it returns ErrUnparseable.
func Parse[T any](raw string) (T, error) {
	var zero T

	for _, candidate := range candidates(raw) {
		if v, ok := tryParse[T](candidate); ok {
			return v, nil
		}
	}

	repaired, err := jsonrepair.JSONRepair(stripFences(raw))
	if err == nil {
		if v, ok := tryParse[T](repaired); ok {
			return v, nil
		}
	}

	return zero, fmt.Errorf("%w: %s", ErrUnparseable, truncateForError(raw))
}

// candidates yields the progressively more aggressive extraction attempts:
// the fenced-stripped text as-is, then the first balanced {...} substring.
func candidates(raw string) []string {
	stripped := stripFences(raw)
	out := []string{stripped}
	if obj := firstBalancedObject(stripped); obj != "" && obj != stripped {
		out = append(out, obj)
	}
	return out
}

func tryParse[T any](text string) (T, bool) {
	var zero T

	var generic map[string]interface{}
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		// Some targets are arrays at the top level if a caller parses into
		// a slice-shaped T directly; try the raw unmarshal before giving up.
		var direct T
		if err := json.Unmarshal([]byte(text), &direct); err == nil {
			return direct, true
		}
		return zero, false
	}

	normalized := normalize(generic)
	b, err := json.Marshal(normalized)
	if err != nil {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return zero, false
	}
	return v, true
}

func normalize(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		key := k
		if canon, ok := aliases[strings.ToLower(k)]; ok {
			key = canon
		}
		out[key] = normalizeValue(key, v)
	}
	return out
}

func normalizeValue(key string, v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if lowercasedFields[key] {
			return strings.ToLower(strings.TrimSpace(val))
		}
		return strings.TrimSpace(val)
	case map[string]interface{}:
		return normalize(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			if m, ok := e.(map[string]interface{}); ok {
				out[i] = normalize(m)
			} else {
				out[i] = e
			}
		}
		return out
	default:
		return v
	}
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstBalancedObject extracts the first top-level {...} substring by
// brace-counting, ignoring braces inside string literals.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func truncateForError(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// TruncateQuestion enforces the ≤80-character ComprehensionTest contract,
// trimming to the last word boundary before the limit.
func TruncateQuestion(q string) string {
	const limit = 80
	if len(q) <= limit {
		return q
	}
	cut := strings.LastIndexByte(q[:limit], ' ')
	if cut <= 0 {
		cut = limit
	}
	return strings.TrimSpace(q[:cut])
}
