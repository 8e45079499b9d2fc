// Package providers implements the role-keyed adapter factory (§4.3): it
// resolves configuration into per-role adapter settings and constructs the
// concrete LLM adapter family for a provider.
package providers

// Role is one of the four specialized node roles; each carries its own
// model, temperature, and token budget.
type Role string

const (
	RoleRouter     Role = "router"
	RoleEnhancer   Role = "enhancer"
	RoleTester     Role = "tester"
	RoleDecomposer Role = "decomposer"
)

// Name is a provider family tag.
type Name string

const (
	Ollama    Name = "ollama"
	OpenAI    Name = "openai"
	Anthropic Name = "anthropic"
	MLX       Name = "mlx"
)

// AdapterConfig is the resolved, role-specific construction input for an
// adapter: the model, sampling temperature, and max-token budget that role
// should use.
type AdapterConfig struct {
	Provider    Name
	Model       string
	Temperature float64
	MaxTokens   int
	Endpoint    string
	APIKey      string
}
