package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/extraction"
)

func TestParseDirectJSON(t *testing.T) {
	raw := `{"kind":"rewrite","content":"clarified text"}`
	v, err := extraction.Parse[extraction.EnhancementResult](raw)
	require.NoError(t, err)
	require.Equal(t, "rewrite", v.Kind)
}

func TestParseStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"kind\":\"clarify\",\"content\":\"x\"}\n```"
	v, err := extraction.Parse[extraction.EnhancementResult](raw)
	require.NoError(t, err)
	require.Equal(t, "clarify", v.Kind)
}

func TestParseAppliesSynonymAliasesAndCase(t *testing.T) {
	raw := `{"type":"TRUE_FALSE","q":"Is this correct?","answer":"true"}`
	v, err := extraction.Parse[extraction.ComprehensionTestResult](raw)
	require.NoError(t, err)
	require.Equal(t, "true_false", v.Type)
	require.Equal(t, "Is this correct?", v.Question)
	require.Equal(t, "true", v.CorrectAnswer)
}

func TestParseExtractsFirstBalancedObjectFromPreamble(t *testing.T) {
	raw := `Sure, here is the JSON you asked for: {"kind":"rewrite","content":"ok"} Hope that helps!`
	v, err := extraction.Parse[extraction.EnhancementResult](raw)
	require.NoError(t, err)
	require.Equal(t, "rewrite", v.Kind)
}

func TestParseRepairsTrailingComma(t *testing.T) {
	raw := `{"kind":"rewrite","content":"ok",}`
	v, err := extraction.Parse[extraction.EnhancementResult](raw)
	require.NoError(t, err)
	require.Equal(t, "rewrite", v.Kind)
}

func TestParseUnparseableReturnsSentinel(t *testing.T) {
	_, err := extraction.Parse[extraction.EnhancementResult]("not json at all, just prose")
	require.ErrorIs(t, err, extraction.ErrUnparseable)
}

func TestTruncateQuestionWithinLimit(t *testing.T) {
	q := "short question?"
	require.Equal(t, q, extraction.TruncateQuestion(q))
}

func TestTruncateQuestionTrimsAtWordBoundary(t *testing.T) {
	long := "This is a deliberately very long comprehension test question that exceeds the eighty character contract limit by quite a lot"
	got := extraction.TruncateQuestion(long)
	require.LessOrEqual(t, len(got), 80)
	require.NotContains(t, got, "  ")
}
