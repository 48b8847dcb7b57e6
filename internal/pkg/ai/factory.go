package ai

import (
	"fmt"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// NewBackend creates the backend selected by cfg.Provider. Construction errors
// are returned before any network call is made.
func NewBackend(cfg config.GenerationConfig, credential string, opts ...Option) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		if cfg.Endpoint != "" {
			opts = append(opts, WithEndpoint(cfg.Endpoint))
		}
		return NewAnthropicBackend(credential, opts...)

	case config.ProviderOpenAI:
		return NewOpenAIBackend(credential, cfg.Endpoint, opts...)

	case config.ProviderOllama:
		return NewOllamaBackend(cfg.LocalHostname, cfg.LocalModel, opts...)

	default:
		return nil, apperrors.NewInvalidBackendConfigError(string(cfg.Provider), fmt.Errorf("unknown provider: %s", cfg.Provider))
	}
}
