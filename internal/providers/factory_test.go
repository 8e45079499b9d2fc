package providers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/config"
	"github.com/arclight-dev/taskloom/internal/providers"
)

func TestNewRejectsUnknownProvider(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider.Default = "bogus"

	_, err := providers.New(cfg, nil)
	require.Error(t, err)
	var fe *providers.FactoryError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, providers.ErrUnknownProvider, fe.Kind)
}

func TestNewRequiresCredentialForCloudProvider(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider.Default = "openai"

	_, err := providers.New(cfg, nil)
	require.Error(t, err)
	var fe *providers.FactoryError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, providers.ErrMissingCredential, fe.Kind)
}

func TestNewSucceedsWithCredentialPresent(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider.Default = "openai"
	cfg.Provider.APIKeys["openai"] = "sk-test"

	f, err := providers.New(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, f.NewEnhancer())
}

func TestResolveBackendHintPrefersMLXOnAppleSilicon(t *testing.T) {
	require.Equal(t, providers.MLX, providers.ResolveBackendHint("auto", "ollama", "darwin", "arm64"))
	require.Equal(t, providers.Name("ollama"), providers.ResolveBackendHint("auto", "ollama", "linux", "amd64"))
	require.Equal(t, providers.MLX, providers.ResolveBackendHint("mlx", "ollama", "linux", "amd64"))
}
