// Package config loads and resolves the orchestration core's configuration
// (§4.3, §6): a TOML document, overridden by TASK_ORCHESTRATOR_<KEY>
// environment variables, overridden in turn by explicit in-memory
// Overrides — compiled defaults sit under all three.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML can express human-readable strings
// like "30s" or "2m" instead of raw nanosecond integers.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// RoleModels holds a per-role model name.
type RoleModels struct {
	Router     string `toml:"router"`
	Enhancer   string `toml:"enhancer"`
	Tester     string `toml:"tester"`
	Decomposer string `toml:"decomposer"`
}

type RoleFloats struct {
	Router     float64 `toml:"router"`
	Enhancer   float64 `toml:"enhancer"`
	Tester     float64 `toml:"tester"`
	Decomposer float64 `toml:"decomposer"`
}

type RoleInts struct {
	Router     int `toml:"router"`
	Enhancer   int `toml:"enhancer"`
	Tester     int `toml:"tester"`
	Decomposer int `toml:"decomposer"`
}

// ProviderConfig is the `[provider]` table.
type ProviderConfig struct {
	Default         string            `toml:"default"`
	InferenceBackend string           `toml:"inference_backend"`
	Models          RoleModels        `toml:"models"`
	Temperature     RoleFloats        `toml:"temperature"`
	MaxTokens       RoleInts          `toml:"max_tokens"`
	Endpoints       map[string]string `toml:"endpoints"`
	APIKeys         map[string]string `toml:"api_keys"`
}

// FlowConfig is the `[flow]` table.
type FlowConfig struct {
	MaxRetries  int      `toml:"max_retries"`
	NodeTimeout Duration `toml:"node_timeout"`
}

// StoreConfig is the `[store]` table.
type StoreConfig struct {
	Path string `toml:"path"`
}

// EventsConfig is the `[events]` table.
type EventsConfig struct {
	BufferSize int `toml:"buffer_size"`
}

// Config is the fully-resolved, validated configuration object handed to
// the provider factory and the orchestrator façade.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Flow     FlowConfig     `toml:"flow"`
	Store    StoreConfig    `toml:"store"`
	Events   EventsConfig   `toml:"events"`
}

// Clone returns a deep-enough copy for safe concurrent reads via Manager.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Provider.Endpoints = cloneMap(c.Provider.Endpoints)
	cp.Provider.APIKeys = cloneMap(c.Provider.APIKeys)
	return &cp
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Defaults returns the compiled baseline, the lowest-precedence layer.
func Defaults() *Config {
	return &Config{
		Provider: ProviderConfig{
			Default: "ollama",
			Models: RoleModels{
				Router: "llama3.1", Enhancer: "llama3.1", Tester: "llama3.1", Decomposer: "llama3.1",
			},
			Temperature: RoleFloats{Router: 0.0, Enhancer: 0.7, Tester: 0.5, Decomposer: 0.6},
			MaxTokens:   RoleInts{Router: 256, Enhancer: 1024, Tester: 512, Decomposer: 2048},
			Endpoints: map[string]string{
				"ollama":    "http://localhost:11434",
				"openai":    "https://api.openai.com/v1",
				"anthropic": "https://api.anthropic.com/v1",
			},
			APIKeys: map[string]string{},
		},
		Flow:   FlowConfig{MaxRetries: 3, NodeTimeout: Duration{30 * time.Second}},
		Store:  StoreConfig{Path: "taskloom.db"},
		Events: EventsConfig{BufferSize: 256},
	}
}

// Overrides are explicit in-memory values, the highest-precedence layer.
// Zero-valued fields are treated as "not set" and do not override.
type Overrides struct {
	Provider *string
	Models   RoleModels
}

// Load reads a TOML file at path, layers environment variables and
// overrides on top, and validates the result. path == "" skips the file
// layer and starts from compiled defaults.
func Load(path string, overrides *Overrides) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyOverrides(cfg, overrides)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envPrefix is the namespace for all environment-variable overrides (§6).
const envPrefix = "TASK_ORCHESTRATOR_"

func applyEnv(cfg *Config) {
	if v, ok := lookupEnv("PROVIDER"); ok {
		cfg.Provider.Default = v
	}
	if v, ok := lookupEnv("INFERENCE_BACKEND"); ok {
		cfg.Provider.InferenceBackend = v
	}
	for _, role := range []string{"ROUTER", "ENHANCER", "TESTER", "DECOMPOSER"} {
		if v, ok := lookupEnv("MODEL_" + role); ok {
			setRoleString(&cfg.Provider.Models, role, v)
		}
		if v, ok := lookupEnv("TEMPERATURE_" + role); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				setRoleFloat(&cfg.Provider.Temperature, role, f)
			}
		}
		if v, ok := lookupEnv("MAX_TOKENS_" + role); ok {
			if n, err := strconv.Atoi(v); err == nil {
				setRoleInt(&cfg.Provider.MaxTokens, role, n)
			}
		}
	}
	for provider := range cfg.Provider.Endpoints {
		if v, ok := lookupEnv("ENDPOINT_" + strings.ToUpper(provider)); ok {
			cfg.Provider.Endpoints[provider] = v
		}
	}
	for _, provider := range []string{"openai", "anthropic"} {
		if v, ok := lookupEnv("API_KEY_" + strings.ToUpper(provider)); ok {
			if cfg.Provider.APIKeys == nil {
				cfg.Provider.APIKeys = map[string]string{}
			}
			cfg.Provider.APIKeys[provider] = v
		}
	}
}

func lookupEnv(suffix string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + suffix)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.Provider != nil && *o.Provider != "" {
		cfg.Provider.Default = *o.Provider
	}
	mergeRoleString(&cfg.Provider.Models, o.Models)
}

func mergeRoleString(dst *RoleModels, src RoleModels) {
	if src.Router != "" {
		dst.Router = src.Router
	}
	if src.Enhancer != "" {
		dst.Enhancer = src.Enhancer
	}
	if src.Tester != "" {
		dst.Tester = src.Tester
	}
	if src.Decomposer != "" {
		dst.Decomposer = src.Decomposer
	}
}

func setRoleString(r *RoleModels, role, v string) {
	switch role {
	case "ROUTER":
		r.Router = v
	case "ENHANCER":
		r.Enhancer = v
	case "TESTER":
		r.Tester = v
	case "DECOMPOSER":
		r.Decomposer = v
	}
}

func setRoleFloat(r *RoleFloats, role string, v float64) {
	switch role {
	case "ROUTER":
		r.Router = v
	case "ENHANCER":
		r.Enhancer = v
	case "TESTER":
		r.Tester = v
	case "DECOMPOSER":
		r.Decomposer = v
	}
}

func setRoleInt(r *RoleInts, role string, v int) {
	switch role {
	case "ROUTER":
		r.Router = v
	case "ENHANCER":
		r.Enhancer = v
	case "TESTER":
		r.Tester = v
	case "DECOMPOSER":
		r.Decomposer = v
	}
}

var knownProviders = map[string]bool{"ollama": true, "openai": true, "anthropic": true, "mlx": true}

func validate(cfg *Config) error {
	if !knownProviders[cfg.Provider.Default] {
		return fmt.Errorf("config: unknown provider %q", cfg.Provider.Default)
	}
	if cfg.Flow.MaxRetries < 0 {
		return fmt.Errorf("config: flow.max_retries must be >= 0")
	}
	if cfg.Events.BufferSize <= 0 {
		return fmt.Errorf("config: events.buffer_size must be > 0")
	}
	return nil
}
