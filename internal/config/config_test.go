package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "ollama", cfg.Provider.Default)
	require.Equal(t, 3, cfg.Flow.MaxRetries)
}

func TestLoadFileThenEnvThenOverridePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[provider]
default = "openai"
`), 0o644))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.Provider.Default)

	t.Setenv("TASK_ORCHESTRATOR_PROVIDER", "anthropic")
	cfg, err = config.Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "anthropic", cfg.Provider.Default)

	override := "mlx"
	cfg, err = config.Load(path, &config.Overrides{Provider: &override})
	require.NoError(t, err)
	require.Equal(t, "mlx", cfg.Provider.Default)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[provider]
default = "bogus"
`), 0o644))

	_, err := config.Load(path, nil)
	require.Error(t, err)
}

func TestManagerGetReturnsIndependentClone(t *testing.T) {
	m := config.NewManager(config.Defaults())
	snap := m.Get()
	snap.Provider.Default = "mutated"

	require.Equal(t, "ollama", m.Get().Provider.Default)
}
