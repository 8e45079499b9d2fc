package llmadapter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/domain"
	"github.com/arclight-dev/taskloom/internal/llmadapter"
)

func taskFixture() domain.Task {
	return domain.Task{ID: "task-1", Title: "Write release notes", Status: domain.StatusTodo}
}

func TestGenerateEnhancementHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"{\"kind\":\"rewrite\",\"content\":\"better text\"}"}`))
	}))
	defer srv.Close()

	a := llmadapter.New(llmadapter.Config{ProviderName: "ollama", Role: "enhancer", Model: "llama3.1", Endpoint: srv.URL})
	enh, err := a.GenerateEnhancement(context.Background(), taskFixture())
	require.NoError(t, err)
	require.Equal(t, "rewrite", enh.Kind)
	require.Equal(t, "better text", enh.Content)
}

func TestGenerateEnhancementFallsBackOnUnreachableBackend(t *testing.T) {
	a := llmadapter.New(llmadapter.Config{ProviderName: "ollama", Role: "enhancer", Model: "llama3.1", Endpoint: "http://127.0.0.1:1"})
	enh, err := a.GenerateEnhancement(context.Background(), taskFixture())
	require.NoError(t, err)
	require.Contains(t, enh.Content, "fallback:")
}

func TestDecomposeTaskRejectsOutOfRangeChildCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"{\"tasks\":[{\"title\":\"only one\"}]}"}`))
	}))
	defer srv.Close()

	a := llmadapter.New(llmadapter.Config{ProviderName: "ollama", Role: "decomposer", Model: "llama3.1", Endpoint: srv.URL})
	children, err := a.DecomposeTask(context.Background(), taskFixture())
	require.NoError(t, err)
	require.Len(t, children, 3) // fallback's fixed 3-child set
	for _, c := range children {
		require.Equal(t, "task-1", c.ParentTaskID)
	}
}

func TestDecomposeTaskHappyPathCarriesParentLinkage(t *testing.T) {
	body := `{"text":"{\"tasks\":[{\"title\":\"a\"},{\"title\":\"b\"},{\"title\":\"c\"}]}"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	parent := taskFixture()
	complexity := 9
	parent.Complexity = &complexity

	a := llmadapter.New(llmadapter.Config{ProviderName: "ollama", Role: "decomposer", Model: "llama3.1", Endpoint: srv.URL})
	children, err := a.DecomposeTask(context.Background(), parent)
	require.NoError(t, err)
	require.Len(t, children, 3)
	for _, c := range children {
		require.Equal(t, parent.ID, c.ParentTaskID)
		require.Equal(t, 7, *c.Complexity)
	}
}
