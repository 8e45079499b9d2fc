package providers

import (
	"log/slog"
	"runtime"

	"github.com/arclight-dev/taskloom/internal/config"
	"github.com/arclight-dev/taskloom/internal/llmadapter"
)

// Factory constructs role-specialized adapters from a resolved Config. It
// validates the provider name and required credentials eagerly at
// construction, matching the teacher's DispatcherResolver habit of failing
// fast rather than at first call (internal/scheduler/resolver.go in the
// original tree).
type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New validates cfg and returns a ready Factory, or a *FactoryError.
func New(cfg *config.Config, logger *slog.Logger) (*Factory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Factory{cfg: cfg, logger: logger}
	if err := f.ValidateConfiguration(); err != nil {
		return nil, err
	}
	return f, nil
}

// ValidateConfiguration checks the configured provider and every cloud
// credential it needs, up front.
func (f *Factory) ValidateConfiguration() error {
	provider := f.resolveProviderName()
	if !knownProviderName(provider) {
		return &FactoryError{Kind: ErrUnknownProvider, Provider: provider}
	}
	if requiresCredential(provider) && f.cfg.Provider.APIKeys[string(provider)] == "" {
		return &FactoryError{Kind: ErrMissingCredential, Provider: provider}
	}
	return nil
}

func knownProviderName(n Name) bool {
	switch n {
	case Ollama, OpenAI, Anthropic, MLX:
		return true
	default:
		return false
	}
}

func requiresCredential(n Name) bool {
	return n == OpenAI || n == Anthropic
}

// resolveProviderName applies the inference_backend host-OS hint (§4.3)
// for the current host. The decision itself lives in the pure
// ResolveBackendHint so it's unit-testable without actually running on
// Apple silicon.
func (f *Factory) resolveProviderName() Name {
	return ResolveBackendHint(f.cfg.Provider.InferenceBackend, f.cfg.Provider.Default, runtime.GOOS, runtime.GOARCH)
}

// ResolveBackendHint is the pure decision behind the inference_backend
// config key: "mlx" or "ollama" selects that backend; "auto" on
// darwin/arm64 selects mlx without checking that an mlx endpoint is
// configured; anything else yields the configured default.
func ResolveBackendHint(hint, configuredDefault, goos, goarch string) Name {
	if hint == "mlx" {
		return MLX
	}
	if hint == "ollama" {
		return Ollama
	}
	if hint == "auto" && goos == "darwin" && goarch == "arm64" {
		return MLX
	}
	return Name(configuredDefault)
}

func (f *Factory) resolveRoleConfig(role Role) AdapterConfig {
	p := f.resolveProviderName()
	models := f.cfg.Provider.Models
	temps := f.cfg.Provider.Temperature
	tokens := f.cfg.Provider.MaxTokens

	var model string
	var temperature float64
	var maxTokens int
	switch role {
	case RoleRouter:
		model, temperature, maxTokens = models.Router, temps.Router, tokens.Router
	case RoleEnhancer:
		model, temperature, maxTokens = models.Enhancer, temps.Enhancer, tokens.Enhancer
	case RoleTester:
		model, temperature, maxTokens = models.Tester, temps.Tester, tokens.Tester
	case RoleDecomposer:
		model, temperature, maxTokens = models.Decomposer, temps.Decomposer, tokens.Decomposer
	}

	return AdapterConfig{
		Provider:    p,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Endpoint:    f.cfg.Provider.Endpoints[string(p)],
		APIKey:      f.cfg.Provider.APIKeys[string(p)],
	}
}

func (f *Factory) adapterConfig(role Role, roleTag string) llmadapter.Config {
	rc := f.resolveRoleConfig(role)
	return llmadapter.Config{
		ProviderName: string(rc.Provider),
		Role:         roleTag,
		Model:        rc.Model,
		Temperature:  rc.Temperature,
		MaxTokens:    rc.MaxTokens,
		Endpoint:     rc.Endpoint,
		APIKey:       rc.APIKey,
		Logger:       f.logger,
	}
}

// NewEnhancer constructs the Enhancer role's adapter.
func (f *Factory) NewEnhancer() llmadapter.Enhancer {
	return llmadapter.New(f.adapterConfig(RoleEnhancer, "enhancer"))
}

// NewTester constructs the Tester role's adapter.
func (f *Factory) NewTester() llmadapter.Tester {
	return llmadapter.New(f.adapterConfig(RoleTester, "tester"))
}

// NewDecomposer constructs the Decomposer role's adapter.
func (f *Factory) NewDecomposer() llmadapter.Decomposer {
	return llmadapter.New(f.adapterConfig(RoleDecomposer, "decomposer"))
}

// NewPRDParser constructs a PRD-parsing adapter. The PRD parser reuses the
// Decomposer role's budget (both roles synthesize multiple child tasks from
// prose) since §4.3 names no fifth role for it.
func (f *Factory) NewPRDParser() llmadapter.PRDParser {
	return llmadapter.New(f.adapterConfig(RoleDecomposer, "prdparser"))
}

// NewTranscriptParser constructs an action-item extraction adapter for
// transcript ingestion, the data flow's other entry point alongside PRDs
// (§2). It reuses the Decomposer role's budget for the same reason
// NewPRDParser does.
func (f *Factory) NewTranscriptParser() llmadapter.TranscriptParser {
	return llmadapter.New(f.adapterConfig(RoleDecomposer, "transcriptparser"))
}
