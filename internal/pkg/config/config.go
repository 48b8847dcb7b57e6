// Package config provides configuration management for diffcommit.
package config

// Provider names a generation backend.
type Provider string

const (
	// ProviderAnthropic is the hosted Anthropic Messages API.
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenAI is any hosted OpenAI-compatible chat completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a locally hosted Ollama server.
	ProviderOllama Provider = "ollama"
)

// IsHosted reports whether the provider needs a stored credential.
func (p Provider) IsHosted() bool {
	return p == ProviderAnthropic || p == ProviderOpenAI
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama:
		return true
	}
	return false
}

// DisplayName returns the provider name shown in notifications.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderOllama:
		return "Ollama"
	default:
		return string(p)
	}
}

// Defaults
const (
	DefaultProvider      = ProviderAnthropic
	DefaultModel         = "claude-3-5-sonnet-latest"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultMaxTokens     = 1024
	DefaultTemperature   = 0.4
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultHistoryLength = 1000
)

// DefaultAllowedTypes is the ordered list of conventional commit types offered to the model.
var DefaultAllowedTypes = []string{"feat", "fix", "refactor", "chore", "docs", "style", "test", "perf", "ci"}

// Config represents the complete diffcommit configuration.
type Config struct {
	Provider           string        `mapstructure:"provider"`
	Model              string        `mapstructure:"model"`
	MaxTokens          int           `mapstructure:"max_tokens"`
	Temperature        float64       `mapstructure:"temperature"`
	AllowedTypes       []string      `mapstructure:"allowed_types"`
	CustomInstructions string        `mapstructure:"custom_instructions"`
	Endpoint           string        `mapstructure:"endpoint"`
	OpenAI             OpenAIConfig  `mapstructure:"openai"`
	Ollama             OllamaConfig  `mapstructure:"ollama"`
	Git                GitConfig     `mapstructure:"git"`
	UI                 UIConfig      `mapstructure:"ui"`
	History            HistoryConfig `mapstructure:"history"`
}

// OpenAIConfig contains settings for OpenAI-compatible endpoints.
type OpenAIConfig struct {
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// OllamaConfig contains local server settings.
type OllamaConfig struct {
	Hostname string `mapstructure:"hostname"`
	Model    string `mapstructure:"model"`
}

// GitConfig contains Git-related settings.
type GitConfig struct {
	// Staged selects `git diff --cached` over the working tree diff.
	Staged bool `mapstructure:"staged"`
	// MessageFile overrides the commit message sink.
	MessageFile string `mapstructure:"message_file"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Editor       string `mapstructure:"editor"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// GenerationConfig is the per-invocation snapshot handed to a backend.
type GenerationConfig struct {
	Provider           Provider
	Model              string
	MaxTokens          int
	Temperature        float64
	AllowedTypes       []string
	CustomInstructions string
	Endpoint           string
	LocalHostname      string
	LocalModel         string
}

// Generation builds the generation settings for the configured provider.
func (c *Config) Generation() GenerationConfig {
	provider := Provider(c.Provider)
	if provider == "" {
		provider = DefaultProvider
	}

	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	gen := GenerationConfig{
		Provider:           provider,
		Model:              c.Model,
		MaxTokens:          maxTokens,
		Temperature:        c.Temperature,
		AllowedTypes:       append([]string(nil), c.AllowedTypes...),
		CustomInstructions: c.CustomInstructions,
		Endpoint:           c.Endpoint,
		LocalHostname:      c.Ollama.Hostname,
		LocalModel:         c.Ollama.Model,
	}

	if provider == ProviderOpenAI {
		gen.Model = c.OpenAI.Model
		gen.Endpoint = c.OpenAI.Endpoint
	}
	if gen.Model == "" {
		if provider == ProviderOpenAI {
			gen.Model = DefaultOpenAIModel
		} else {
			gen.Model = DefaultModel
		}
	}
	if gen.LocalHostname == "" {
		gen.LocalHostname = DefaultOllamaHost
	}

	return gen
}

// ModelKey returns the configuration key holding the model for provider.
func ModelKey(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "openai.model"
	case ProviderOllama:
		return "ollama.model"
	default:
		return "model"
	}
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Set(key string, value string) error
	SetMany(values map[string]interface{}) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
