package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diffcommit/diffcommit/internal/pkg/ai"
	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/ui"
)

const (
	// InvalidHostnameMessage is shown until a valid server URL is entered.
	InvalidHostnameMessage = "Invalid hostname URL. Please enter a valid URL (eg http://localhost:11434)."
	// NoModelsMessage is shown when the server offers no models.
	NoModelsMessage = "No models found on the Ollama server. Please pull a model first."
)

// ModelService configures which local model generates messages.
type ModelService struct {
	lister    ai.ModelLister
	cfgMgr    config.Manager
	config    *config.Config
	uiManager ui.Manager
}

// NewModelService creates a ModelService.
func NewModelService(lister ai.ModelLister, cfgMgr config.Manager, cfg *config.Config, uiManager ui.Manager) *ModelService {
	return &ModelService{
		lister:    lister,
		cfgMgr:    cfgMgr,
		config:    cfg,
		uiManager: uiManager,
	}
}

// ListModels returns the models installed on the server at hostname.
func (s *ModelService) ListModels(ctx context.Context, hostname string) ([]string, error) {
	models, err := s.lister.ListModels(ctx, hostname)
	if err != nil {
		apperrors.Error("Failed to fetch Ollama models: %v", err)
		return nil, report(s.uiManager, apperrors.NewModelListError(err))
	}
	return models, nil
}

// SelectModel asks for the server and a model, then switches generation to it.
// It returns the chosen model, or "" when the operator cancelled.
func (s *ModelService) SelectModel(ctx context.Context) (string, error) {
	return s.configure(ctx, true)
}

// ChangeModel picks another model on the configured server.
func (s *ModelService) ChangeModel(ctx context.Context) (string, error) {
	return s.configure(ctx, false)
}

func (s *ModelService) configure(ctx context.Context, includeHostname bool) (string, error) {
	hostname := s.hostname()

	if includeHostname {
		input, err := s.uiManager.PromptHostname(hostname, ValidateHostname)
		if err != nil {
			return "", report(s.uiManager, apperrors.New(apperrors.ErrInvalidArguments, err.Error()))
		}
		if input == "" {
			return "", nil
		}
		hostname = NormalizeHostname(input)
	}

	models, err := s.lister.ListModels(ctx, hostname)
	if err != nil {
		apperrors.Error("Error updating Ollama model: %v", err)
		return "", report(s.uiManager, mapDirectoryError(hostname, err))
	}

	if len(models) == 0 {
		s.uiManager.ShowWarning(NoModelsMessage)
		return "", nil
	}

	selected, err := s.uiManager.PickModel(models, s.config.Ollama.Model)
	if err != nil {
		if errors.Is(err, ui.ErrNonInteractive) {
			return "", report(s.uiManager, apperrors.New(apperrors.ErrInvalidArguments,
				fmt.Sprintf("Choose a model interactively or set it with 'diffcommit config set ollama.model <name>' (available: %s)",
					strings.Join(models, ", "))))
		}
		return "", report(s.uiManager, apperrors.Wrap(err, apperrors.ErrInvalidArguments, err.Error()))
	}
	if selected == "" {
		return "", nil
	}

	values := map[string]interface{}{"ollama.model": selected}
	if includeHostname {
		values["provider"] = string(config.ProviderOllama)
		values["ollama.hostname"] = hostname
	}
	if err := s.cfgMgr.SetMany(values); err != nil {
		return "", report(s.uiManager, apperrors.NewConfigWriteError(err))
	}

	s.config.Ollama.Model = selected
	if includeHostname {
		s.config.Provider = string(config.ProviderOllama)
		s.config.Ollama.Hostname = hostname
	}

	s.uiManager.ShowSuccess(fmt.Sprintf("✓ Ollama model updated to '%s' successfully", selected))
	return selected, nil
}

func (s *ModelService) hostname() string {
	if s.config.Ollama.Hostname != "" {
		return s.config.Ollama.Hostname
	}
	return config.DefaultOllamaHost
}

// ValidateHostname rejects anything that is not an absolute http(s) URL.
func ValidateHostname(hostname string) error {
	if _, err := ai.ParseHostname(hostname); err != nil {
		return errors.New(InvalidHostnameMessage)
	}
	return nil
}

// NormalizeHostname trims whitespace and trailing slashes.
func NormalizeHostname(hostname string) string {
	return strings.TrimRight(strings.TrimSpace(hostname), "/")
}

// mapDirectoryError turns a listing failure into the message for the model flows.
func mapDirectoryError(hostname string, err error) error {
	switch {
	case ai.IsNotFound(err):
		return apperrors.NewServerNotFoundError(hostname, err)
	case ai.IsUnreachable(err):
		return apperrors.NewServerUnreachableError(hostname, err)
	default:
		return apperrors.NewServerConnectError(err)
	}
}
